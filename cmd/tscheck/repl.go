package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tscheck/internal/diagfmt"
	"github.com/vovakirdan/tscheck/internal/fixture"
	"github.com/vovakirdan/tscheck/internal/session"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive scratch buffer for one-statement-at-a-time type checking",
	Long:  `repl reads one JSON-encoded statement fixture per line (see internal/fixture), re-checks the whole accumulated buffer after every line, and shows the new diagnostics it produced.`,
	RunE:  runRepl,
}

// replModel holds everything the REPL screen needs between keystrokes:
// the accumulated statement buffer (one file, grown one line at a time)
// and the most recent render of its diagnostics.
type replModel struct {
	input   textinput.Model
	stmts   []json.RawMessage
	history []string
	output  string
	err     error
	width   int
}

var (
	replPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	replErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	replHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func runRepl(cmd *cobra.Command, _ []string) error {
	ti := textinput.New()
	ti.Placeholder = `{"kind":"expr","expr":{"kind":"number","number":1}}`
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 72

	m := &replModel{input: ti, width: 80}
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			if line == ":reset" {
				m.stmts = nil
				m.history = nil
				m.output = ""
				m.err = nil
				return m, nil
			}
			if line == ":quit" || line == ":q" {
				return m, tea.Quit
			}
			m.apply(line)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply appends line to the statement buffer (if it parses as valid JSON),
// reruns the whole fixture, and records the rendered diagnostics.
func (m *replModel) apply(line string) {
	raw := json.RawMessage(line)
	var probe map[string]any
	if err := json.Unmarshal(raw, &probe); err != nil {
		m.err = fmt.Errorf("invalid statement JSON: %w", err)
		return
	}
	m.err = nil
	m.history = append(m.history, line)
	m.stmts = append(m.stmts, raw)

	doc := fixture.Document{
		Options: session.DefaultOptions(),
		Files:   []fixture.FileDoc{{Path: "repl.ts", Statements: m.stmts}},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		m.err = fmt.Errorf("internal: %w", err)
		return
	}

	builder, opts, err := fixture.Load(data)
	if err != nil {
		m.err = err
		// Drop the statement that broke the buffer so the REPL stays usable.
		m.stmts = m.stmts[:len(m.stmts)-1]
		return
	}

	sess := session.New(builder, opts)
	if err := sess.Check(context.Background()); err != nil {
		m.err = err
		return
	}

	var b strings.Builder
	fs := fixtureFileSet(builder)
	diagfmt.Pretty(&b, sess.Bag, fs, diagfmt.PrettyOpts{
		Color:   isTerminal(os.Stdout),
		Context: 0,
	})
	m.output = b.String()
}

func (m *replModel) View() string {
	var b strings.Builder
	b.WriteString(replHintStyle.Render("tscheck repl - one statement per line, :reset to clear, :quit to exit") + "\n\n")
	for _, line := range m.history {
		b.WriteString(replPromptStyle.Render("> ") + line + "\n")
	}
	if m.output != "" {
		b.WriteString(m.output)
	}
	if m.err != nil {
		b.WriteString(replErrStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n" + replPromptStyle.Render("> ") + m.input.View())
	return b.String()
}
