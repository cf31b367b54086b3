package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/unbound-force/quotient/internal/typedef"
)

// WriteCallText writes one call outcome as human-readable styled
// text. Arguments are listed in def's declaration order.
func WriteCallText(w io.Writer, def typedef.FunctionDef, out typedef.Outcome) error {
	s := DefaultStyles()

	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", out.Function)))
	fmt.Fprintln(w, s.SubHeader.Render("    "+def.Signature()))

	parts := make([]string, 0, len(def.Args))
	for _, a := range def.Args {
		v, ok := out.Args[a.Name]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = %s", a.Name, FormatValue(v)))
	}
	if len(parts) > 0 {
		fmt.Fprintln(w, s.SubHeader.Render("    "+strings.Join(parts, ", ")))
	}
	fmt.Fprintln(w)

	if !out.OK {
		kind, msg := "Error", ""
		if out.Error != nil {
			kind, msg = out.Error.Kind, out.Error.Message
		}
		_, err := fmt.Fprintf(w, "%s %s\n",
			s.ErrorKind.Render(kind+":"), s.ErrorMessage.Render(msg))
		return err
	}

	_, err := fmt.Fprintf(w, "Result: %s\n", s.Result.Render(FormatValue(out.Result)))
	return err
}

// WriteFunctionsText writes a function listing as a table.
func WriteFunctionsText(w io.Writer, rpt FunctionsReport) error {
	s := DefaultStyles()

	title := rpt.Object
	if rpt.Package != "" {
		title = rpt.Package + "." + rpt.Object
	}
	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", title)))

	if len(rpt.Functions) == 0 {
		fmt.Fprintln(w, s.Muted.Render("    No functions found."))
	} else {
		fmt.Fprintln(w, renderFunctionTable(rpt.Functions, s))
	}

	for _, warn := range rpt.Warnings {
		fmt.Fprintln(w, s.Warning.Render("    warning: "+warn))
	}

	_, err := fmt.Fprintf(w, "\n%s\n",
		s.Header.Render(fmt.Sprintf("%d function(s) on %s", len(rpt.Functions), rpt.Object)))
	return err
}

// renderFunctionTable lays out one row per function. A complexity
// column is added when any definition carries one.
func renderFunctionTable(defs []typedef.FunctionDef, s Styles) string {
	// Budget: 80 cols with a 76-wide table; descriptions are cut to
	// keep rows on one line.
	const maxDesc = 22

	withComplexity := false
	for _, d := range defs {
		if d.Complexity > 0 {
			withComplexity = true
			break
		}
	}

	rows := make([][]string, 0, len(defs))
	for _, d := range defs {
		args := make([]string, 0, len(d.Args))
		for _, a := range d.Args {
			args = append(args, fmt.Sprintf("%s: %s", a.Name, a.Kind))
		}
		row := []string{d.Name, strings.Join(args, ", "), string(d.Returns), truncate(d.Description, maxDesc)}
		if withComplexity {
			row = append(row, strconv.Itoa(d.Complexity))
		}
		rows = append(rows, row)
	}

	headers := []string{"FUNCTION", "ARGS", "RETURNS", "DESCRIPTION"}
	if withComplexity {
		headers = append(headers, "CPLX")
	}

	t := table.New().
		Width(76).
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 2 {
				return s.Kind
			}
			return s.TableCell
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// FormatValue renders a call value for display. Floats always carry a
// fractional part or an exponent, so 5 prints as "5.0".
func FormatValue(v any) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	out := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}
