// Package report renders call outcomes and function tables as
// styled text or JSON.
package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/quotient/internal/typedef"
)

// FunctionsReport is the JSON output of a function listing.
type FunctionsReport struct {
	Version   string                `json:"version"`
	Package   string                `json:"package,omitempty"`
	Object    string                `json:"object"`
	Functions []typedef.FunctionDef `json:"functions"`
	Warnings  []string              `json:"warnings,omitempty"`
}

// WriteCallJSON writes one call outcome as indented JSON.
func WriteCallJSON(w io.Writer, out typedef.Outcome) error {
	if out.Args == nil {
		out.Args = map[string]any{}
	}
	return encode(w, out)
}

// WriteFunctionsJSON writes a function listing as indented JSON.
func WriteFunctionsJSON(w io.Writer, rpt FunctionsReport) error {
	fns := make([]typedef.FunctionDef, len(rpt.Functions))
	copy(fns, rpt.Functions)
	for i := range fns {
		if fns[i].Args == nil {
			fns[i].Args = []typedef.ArgDef{}
		}
	}
	rpt.Functions = fns
	return encode(w, rpt)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
