// Package mymodule is a hosted module described from source.
package mymodule

import (
	"context"
	"errors"
	"strings"
)

// MyModule is the module's object type.
type MyModule struct {
	prefix string
}

// Divide returns a divided by b.
func (*MyModule) Divide(a, b int) (float64, error) {
	if b == 0 {
		return 0, errors.New("cannot divide by zero")
	}
	return float64(a) / float64(b), nil
}

// Greet says hello.
// It takes a context first.
func (m *MyModule) Greet(ctx context.Context, name string) string {
	if ctx.Err() != nil {
		return ""
	}
	if name == "" {
		name = "world"
	}
	return m.prefix + "hello " + name
}

func (MyModule) Half(x float64) float64 {
	return x / 2
}

// HTTPStatus is fine with a bool.
func (m *MyModule) HTTPStatus(ok bool) (int, error) {
	if ok {
		return 200, nil
	}
	return 500, nil
}

// Words returns a slice, which has no kind.
func (m *MyModule) Words(s string) []string {
	return strings.Fields(s)
}

// Pair returns two values without an error.
func (m *MyModule) Pair() (int, int) {
	return 1, 2
}

func (m *MyModule) helper() int {
	return len(m.prefix)
}

// Other is not the module object.
type Other struct{}

// Nope belongs to Other.
func (Other) Nope() int { return 0 }

// Count is a package-level function, not a method.
func Count() int { return 1 }
