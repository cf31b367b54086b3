// Package introspect describes a module's object type from its Go
// source: every exported method whose parameters and results map onto
// value kinds becomes a function definition.
package introspect

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/fzipp/gocyclo"
	"github.com/unbound-force/quotient/internal/loader"
	"github.com/unbound-force/quotient/internal/typedef"
)

// Result is the description of one object type.
type Result struct {
	// Package is the import path the object was found in.
	Package string `json:"package"`

	// Object is the object type name.
	Object string `json:"object"`

	// Functions holds one definition per supported method, sorted
	// by name.
	Functions []typedef.FunctionDef `json:"functions"`

	// Warnings lists exported methods that were skipped and why.
	Warnings []string `json:"warnings"`
}

// LoadAndDescribe loads the package matched by pattern and describes
// its object type.
func LoadAndDescribe(dir, pattern, object string) (*Result, error) {
	pkg, err := loader.Load(dir, pattern)
	if err != nil {
		return nil, err
	}
	return Describe(pkg, object)
}

// Describe finds the struct type named object in pkg and describes
// its exported methods, including those with pointer receivers.
func Describe(pkg *loader.Package, object string) (*Result, error) {
	obj := pkg.Types.Scope().Lookup(object)
	if obj == nil {
		return nil, fmt.Errorf("object type %q not found in package %q", object, pkg.Path)
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%q in package %q is not a type", object, pkg.Path)
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%q in package %q is not a named type", object, pkg.Path)
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil, fmt.Errorf("%q in package %q is not a struct type", object, pkg.Path)
	}

	decls := funcDecls(pkg.Syntax)
	res := &Result{
		Package:   pkg.Path,
		Object:    object,
		Functions: []typedef.FunctionDef{},
	}

	ms := types.NewMethodSet(types.NewPointer(named))
	for i := 0; i < ms.Len(); i++ {
		fn, ok := ms.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		def, err := describeMethod(fn)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping %s.%s: %v", object, fn.Name(), err))
			continue
		}
		def.Object = object
		def.Location = location(pkg.Fset, fn.Pos())
		if decl, ok := decls[fn.Pos()]; ok {
			def.Description = firstLine(decl.Doc)
			def.Complexity = gocyclo.Complexity(decl)
		}
		res.Functions = append(res.Functions, def)
	}

	sort.Slice(res.Functions, func(i, j int) bool {
		return res.Functions[i].Name < res.Functions[j].Name
	})
	return res, nil
}

func describeMethod(fn *types.Func) (typedef.FunctionDef, error) {
	sig := fn.Type().(*types.Signature)
	def := typedef.FunctionDef{
		Name: lowerCamel(fn.Name()),
		Args: []typedef.ArgDef{},
	}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		if i == 0 && isContext(p.Type()) {
			continue
		}
		if p.Name() == "" || p.Name() == "_" {
			return def, fmt.Errorf("parameter %d is unnamed", i)
		}
		k, ok := kindOf(p.Type())
		if !ok {
			return def, fmt.Errorf("parameter %q has unsupported type %s", p.Name(), p.Type())
		}
		def.Args = append(def.Args, typedef.ArgDef{Name: p.Name(), Kind: k})
	}

	results := sig.Results()
	switch {
	case results.Len() == 1:
	case results.Len() == 2 && isError(results.At(1).Type()):
	default:
		return def, fmt.Errorf("results must be (T) or (T, error)")
	}
	k, ok := kindOf(results.At(0).Type())
	if !ok {
		return def, fmt.Errorf("result has unsupported type %s", results.At(0).Type())
	}
	def.Returns = k
	return def, nil
}

func kindOf(t types.Type) (typedef.Kind, bool) {
	b, ok := t.Underlying().(*types.Basic)
	if !ok {
		return "", false
	}
	info := b.Info()
	switch {
	case info&types.IsInteger != 0:
		return typedef.Integer, true
	case info&types.IsFloat != 0:
		return typedef.Float, true
	case info&types.IsString != 0:
		return typedef.String, true
	case info&types.IsBoolean != 0:
		return typedef.Boolean, true
	}
	return "", false
}

func isContext(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "context" && obj.Name() == "Context"
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

// funcDecls indexes method declarations by the position of their name,
// which is the position types.Func reports.
func funcDecls(files []*ast.File) map[token.Pos]*ast.FuncDecl {
	decls := make(map[token.Pos]*ast.FuncDecl)
	for _, f := range files {
		for _, d := range f.Decls {
			if fd, ok := d.(*ast.FuncDecl); ok && fd.Recv != nil {
				decls[fd.Name.Pos()] = fd
			}
		}
	}
	return decls
}

func location(fset *token.FileSet, pos token.Pos) string {
	p := fset.Position(pos)
	return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
}

func firstLine(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	text := strings.TrimSpace(doc.Text())
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return text
}

// lowerCamel lowers the leading initialism of a Go identifier:
// Divide -> divide, HTTPStatus -> httpStatus, ID -> id.
func lowerCamel(name string) string {
	r := []rune(name)
	for i := 0; i < len(r) && unicode.IsUpper(r[i]); i++ {
		if i > 0 && i+1 < len(r) && unicode.IsLower(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}
