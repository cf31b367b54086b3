// Package loader wraps go/packages to load a module's source with the
// syntax and type information needed to describe its functions.
package loader

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode is the set of flags needed to walk declarations and
// resolve their types.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// Package is a loaded, type-checked package.
type Package struct {
	// Path is the package import path.
	Path string

	// Types is the type-checked package.
	Types *types.Package

	// Syntax holds the parsed files, parallel to the package's
	// compiled Go files.
	Syntax []*ast.File

	// Fset is the file set for position information.
	Fset *token.FileSet
}

// Load loads the single package matched by pattern, resolved relative
// to dir (the current directory when empty). Test files are excluded.
// Syntax and type errors are reported together.
func Load(dir, pattern string) (*Package, error) {
	cfg := &packages.Config{
		Mode:  LoadMode,
		Dir:   dir,
		Tests: false,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("loading package %q: %w", pattern, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for pattern %q", pattern)
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("pattern %q matched %d packages, want 1", pattern, len(pkgs))
	}

	pkg := pkgs[0]
	var errs []string
	for _, e := range pkg.Errors {
		errs = append(errs, e.Error())
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package %q has errors:\n  %s",
			pattern, strings.Join(errs, "\n  "))
	}

	return &Package{
		Path:   pkg.PkgPath,
		Types:  pkg.Types,
		Syntax: pkg.Syntax,
		Fset:   pkg.Fset,
	}, nil
}
