// Package registry holds the function table of one object type and
// dispatches calls to it by name.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/unbound-force/quotient/internal/typedef"
)

var (
	// ErrUnknownFunction is returned when no function has the
	// requested name.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrBadArgument is returned when call arguments do not match
	// the function definition.
	ErrBadArgument = errors.New("bad argument")
)

// Func is the implementation behind a registered definition. args
// holds one typed value per ArgDef, keyed by name.
type Func func(ctx context.Context, args map[string]any) (any, error)

type entry struct {
	def typedef.FunctionDef
	fn  Func
}

// Registry is the function table for one object type. It is safe for
// concurrent use.
type Registry struct {
	object string

	mu      sync.RWMutex
	entries map[string]entry
}

// New returns an empty registry for the named object type.
func New(object string) *Registry {
	return &Registry{
		object:  object,
		entries: make(map[string]entry),
	}
}

// Object returns the object type name.
func (r *Registry) Object() string { return r.object }

// Register adds def to the table. The definition's Object is set to
// the registry's object type.
func (r *Registry) Register(def typedef.FunctionDef, fn Func) error {
	if def.Name == "" {
		return fmt.Errorf("registering function: empty name")
	}
	if fn == nil {
		return fmt.Errorf("registering %q: nil implementation", def.Name)
	}
	if !def.Returns.Valid() {
		return fmt.Errorf("registering %q: invalid return kind %q", def.Name, def.Returns)
	}
	seen := make(map[string]bool, len(def.Args))
	for _, a := range def.Args {
		if a.Name == "" {
			return fmt.Errorf("registering %q: argument with empty name", def.Name)
		}
		if seen[a.Name] {
			return fmt.Errorf("registering %q: duplicate argument %q", def.Name, a.Name)
		}
		if !a.Kind.Valid() {
			return fmt.Errorf("registering %q: argument %q has invalid kind %q",
				def.Name, a.Name, a.Kind)
		}
		seen[a.Name] = true
	}
	def.Object = r.object

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[def.Name]; ok {
		return fmt.Errorf("registering %q: already registered on %s", def.Name, r.object)
	}
	r.entries[def.Name] = entry{def: def, fn: fn}
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (typedef.FunctionDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.def, ok
}

// Functions returns every definition sorted by name.
func (r *Registry) Functions() []typedef.FunctionDef {
	r.mu.RLock()
	defs := make([]typedef.FunctionDef, 0, len(r.entries))
	for _, e := range r.entries {
		defs = append(defs, e.def)
	}
	r.mu.RUnlock()

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Call invokes the function registered under name. Argument errors
// wrap ErrBadArgument; errors from the function itself are returned
// unchanged and the value is nil.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q on %s", ErrUnknownFunction, name, r.object)
	}
	if err := checkArgs(e.def, args); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err := e.fn(ctx, args)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func checkArgs(def typedef.FunctionDef, args map[string]any) error {
	for _, a := range def.Args {
		v, ok := args[a.Name]
		if !ok {
			return fmt.Errorf("%w: %s: missing %q", ErrBadArgument, def.Name, a.Name)
		}
		if !holds(a.Kind, v) {
			return fmt.Errorf("%w: %s: %q must be %s, got %T",
				ErrBadArgument, def.Name, a.Name, a.Kind, v)
		}
	}
	for k := range args {
		if _, ok := def.Arg(k); !ok {
			return fmt.Errorf("%w: %s: unexpected %q", ErrBadArgument, def.Name, k)
		}
	}
	return nil
}

func holds(k typedef.Kind, v any) bool {
	switch k {
	case typedef.Integer:
		_, ok := v.(int)
		return ok
	case typedef.Float:
		_, ok := v.(float64)
		return ok
	case typedef.String:
		_, ok := v.(string)
		return ok
	case typedef.Boolean:
		_, ok := v.(bool)
		return ok
	}
	return false
}

// ParseArgs converts textual values, as they arrive from a command
// line, into typed values for def.
func ParseArgs(def typedef.FunctionDef, raw map[string]string) (map[string]any, error) {
	args := make(map[string]any, len(raw))
	for name, s := range raw {
		a, ok := def.Arg(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s: unexpected %q", ErrBadArgument, def.Name, name)
		}
		v, err := parseValue(a.Kind, s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q: %v", ErrBadArgument, def.Name, name, err)
		}
		args[name] = v
	}
	return args, nil
}

func parseValue(k typedef.Kind, s string) (any, error) {
	switch k {
	case typedef.Integer:
		n, err := strconv.ParseInt(s, 10, strconv.IntSize)
		if err != nil {
			return nil, fmt.Errorf("invalid Integer %q", s)
		}
		return int(n), nil
	case typedef.Float:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid Float %q", s)
		}
		return f, nil
	case typedef.Boolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid Boolean %q", s)
		}
		return b, nil
	case typedef.String:
		return s, nil
	}
	return nil, fmt.Errorf("unsupported kind %q", k)
}
