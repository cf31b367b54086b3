// Package calc implements the arithmetic operations hosted by
// MyModule and registers them in a function table.
package calc

import (
	"context"
	"math/big"

	"github.com/unbound-force/quotient/internal/registry"
	"github.com/unbound-force/quotient/internal/typedef"
)

// ObjectName is the name of the object type the operations hang off.
const ObjectName = "MyModule"

// maxExact is the largest magnitude a float64 holds without rounding.
const maxExact = 1 << 53

// Divide returns a / b as a float64. It fails with ErrDivideByZero
// when b is zero.
func Divide(a, b int) (float64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if abs(a) <= maxExact && abs(b) <= maxExact {
		return float64(a) / float64(b), nil
	}
	// Wide operands would be rounded on conversion and again on
	// division; divide exactly and round once instead.
	q, _ := new(big.Rat).SetFrac(big.NewInt(int64(a)), big.NewInt(int64(b))).Float64()
	return q, nil
}

// abs returns |n| as a uint64 so that the minimum int does not overflow.
func abs(n int) uint64 {
	if n < 0 {
		return uint64(-(n + 1)) + 1
	}
	return uint64(n)
}

// DivideDef describes divide for the function table.
var DivideDef = typedef.FunctionDef{
	Object:      ObjectName,
	Name:        "divide",
	Description: "Divide a by b, failing when b is zero",
	Args: []typedef.ArgDef{
		{Name: "a", Kind: typedef.Integer, Description: "dividend"},
		{Name: "b", Kind: typedef.Integer, Description: "divisor"},
	},
	Returns: typedef.Float,
}

// Register adds MyModule's functions to r.
func Register(r *registry.Registry) error {
	return r.Register(DivideDef, func(_ context.Context, args map[string]any) (any, error) {
		return Divide(args["a"].(int), args["b"].(int))
	})
}

// NewRegistry returns a registry holding every MyModule function.
func NewRegistry() (*registry.Registry, error) {
	r := registry.New(ObjectName)
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}
