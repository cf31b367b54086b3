package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for section headers (e.g. "=== MyModule.divide ===").
	Header lipgloss.Style

	// SubHeader is used for secondary information lines.
	SubHeader lipgloss.Style

	// Kind colors value kinds in signatures and tables.
	Kind lipgloss.Style

	// Result styles a successful call's value.
	Result lipgloss.Style

	// ErrorKind and ErrorMessage style a failed call.
	ErrorKind    lipgloss.Style
	ErrorMessage lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style

	// Warning styles skipped-method notes.
	Warning lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Kind: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),

		Result:       lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		ErrorKind:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		ErrorMessage: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	}
}
