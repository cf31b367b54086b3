// Package typedef defines the type system of the function table:
// value kinds, argument and function definitions, and the tagged
// outcome of a call.
package typedef

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind enumerates the value kinds a hosted function may accept or
// return.
type Kind string

// Value kinds.
const (
	Integer Kind = "Integer"
	Float   Kind = "Float"
	String  Kind = "String"
	Boolean Kind = "Boolean"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case Integer, Float, String, Boolean:
		return true
	}
	return false
}

// ArgDef describes one named argument of a function.
type ArgDef struct {
	// Name is the argument name as the caller spells it.
	Name string `json:"name"`

	// Kind is the value kind the argument must hold.
	Kind Kind `json:"kind"`

	// Description is shown in help and listings.
	Description string `json:"description,omitempty"`
}

// FunctionDef describes a function exposed on an object type.
type FunctionDef struct {
	// Object is the name of the object type, e.g. "MyModule".
	Object string `json:"object"`

	// Name is the function name callers use, e.g. "divide".
	Name string `json:"name"`

	// Description is a one-line summary.
	Description string `json:"description,omitempty"`

	// Args lists the arguments in declaration order.
	Args []ArgDef `json:"args"`

	// Returns is the kind of the success value.
	Returns Kind `json:"returns"`

	// Location is the source position (file:line:col). Set only for
	// definitions discovered from source.
	Location string `json:"location,omitempty"`

	// Complexity is the cyclomatic complexity of the implementation.
	// Zero when unknown.
	Complexity int `json:"complexity,omitempty"`
}

// QualifiedName returns "Object.name", or just the name when the
// object is empty.
func (d FunctionDef) QualifiedName() string {
	if d.Object == "" {
		return d.Name
	}
	return d.Object + "." + d.Name
}

// Signature renders the definition as "name(a: Integer, b: Integer) -> Float".
func (d FunctionDef) Signature() string {
	s := d.Name + "("
	for i, a := range d.Args {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %s", a.Name, a.Kind)
	}
	return s + ") -> " + string(d.Returns)
}

// Arg returns the argument named name.
func (d FunctionDef) Arg(name string) (ArgDef, bool) {
	for _, a := range d.Args {
		if a.Name == name {
			return a, true
		}
	}
	return ArgDef{}, false
}

// CallError is the failure half of an Outcome.
type CallError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Outcome is the tagged result of one call: either OK with a Result
// or not OK with an Error. Never both.
type Outcome struct {
	// ID identifies this call.
	ID string `json:"id"`

	// Function is the qualified name of the called function.
	Function string `json:"function"`

	// Args holds the typed argument values the function received.
	Args map[string]any `json:"args"`

	// OK is true on success.
	OK bool `json:"ok"`

	// Result is the success value. Nil on failure.
	Result any `json:"result,omitempty"`

	// Error is set on failure.
	Error *CallError `json:"error,omitempty"`

	// Metadata contains run information.
	Metadata Metadata `json:"metadata"`
}

// Succeeded returns an OK outcome for a call of def.
func Succeeded(def FunctionDef, args map[string]any, result any) Outcome {
	return Outcome{
		ID:       uuid.NewString(),
		Function: def.QualifiedName(),
		Args:     args,
		OK:       true,
		Result:   result,
	}
}

// Failed returns a failed outcome for a call of def.
func Failed(def FunctionDef, args map[string]any, kind, message string) Outcome {
	return Outcome{
		ID:       uuid.NewString(),
		Function: def.QualifiedName(),
		Args:     args,
		Error:    &CallError{Kind: kind, Message: message},
	}
}

// Metadata holds call run metadata.
type Metadata struct {
	Version   string        `json:"version"`
	GoVersion string        `json:"go_version"`
	Timestamp time.Time     `json:"-"`
	Duration  time.Duration `json:"-"`
}

// MarshalJSON encodes the duration as duration_ms and the timestamp
// as RFC 3339.
func (m Metadata) MarshalJSON() ([]byte, error) {
	type Alias Metadata
	ts := ""
	if !m.Timestamp.IsZero() {
		ts = m.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(&struct {
		Alias
		DurationMS int64  `json:"duration_ms"`
		Timestamp  string `json:"timestamp,omitempty"`
	}{
		Alias:      Alias(m),
		DurationMS: m.Duration.Milliseconds(),
		Timestamp:  ts,
	})
}
