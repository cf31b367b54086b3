package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/unbound-force/quotient/internal/report"
)

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	kindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// functionsModel is the Bubble Tea model for browsing a function table.
type functionsModel struct {
	rpt      report.FunctionsReport
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newFunctionsModel(rpt report.FunctionsReport) functionsModel {
	return functionsModel{
		rpt:     rpt,
		help:    help.New(),
		keys:    defaultKeyMap,
		content: renderFunctionsContent(rpt),
	}
}

// renderFunctionsContent renders one block per function: its
// signature, description, source position, and an argument table.
func renderFunctionsContent(rpt report.FunctionsReport) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(
		fmt.Sprintf("%s: %d function(s)", rpt.Object, len(rpt.Functions))))
	sb.WriteString("\n\n")

	for _, def := range rpt.Functions {
		sb.WriteString(tuiHeaderStyle.Render(fmt.Sprintf("=== %s ===", def.QualifiedName())))
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render("    " + def.Signature()))
		sb.WriteString("\n")
		if def.Description != "" {
			sb.WriteString(statusStyle.Render("    " + def.Description))
			sb.WriteString("\n")
		}
		if def.Location != "" {
			sb.WriteString(statusStyle.Render(
				fmt.Sprintf("    %s (complexity %d)", def.Location, def.Complexity)))
			sb.WriteString("\n")
		}

		if len(def.Args) == 0 {
			sb.WriteString(statusStyle.Render("    No arguments."))
			sb.WriteString("\n\n")
			continue
		}

		rows := make([][]string, 0, len(def.Args))
		for _, a := range def.Args {
			desc := a.Description
			if len(desc) > 50 {
				desc = desc[:47] + "..."
			}
			rows = append(rows, []string{a.Name, string(a.Kind), desc})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(tuiBorderStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return tuiHeaderStyle
				}
				if col == 1 {
					return kindStyle
				}
				return lipgloss.NewStyle()
			}).
			Headers("ARG", "KIND", "DESCRIPTION").
			Rows(rows...)

		sb.WriteString(t.String())
		sb.WriteString("\n\n")
	}

	for _, w := range rpt.Warnings {
		sb.WriteString(warnStyle.Render("warning: " + w))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m functionsModel) Init() tea.Cmd {
	return nil
}

func (m functionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		footerHeight := 2

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-footerHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - footerHeight
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m functionsModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveFunctions launches the Bubble Tea TUI for browsing
// a function table.
func runInteractiveFunctions(rpt report.FunctionsReport) error {
	p := tea.NewProgram(newFunctionsModel(rpt), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
