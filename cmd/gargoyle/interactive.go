package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/gargoyle/config"
	"github.com/wippyai/gargoyle/control"
	"github.com/wippyai/gargoyle/extract"
	"github.com/wippyai/gargoyle/memvm"
	"github.com/wippyai/gargoyle/signature"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	modStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C0A0FF"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateStarting modelState = iota
	stateSearch
	stateBrowse
)

// member is one selectable row: a field or a method. target is the class
// the row navigates to, if any.
type member struct {
	label  string
	target string
}

type browserModel struct {
	err      error
	launcher *memvm.Launcher
	opts     config.Options
	logger   *zap.Logger
	rt       *control.Runtime
	session  *control.Session
	current  *extract.ClassDescriptor
	history  []string
	members  []member
	input    textinput.Model
	selected int
	state    modelState
}

type startedMsg struct {
	err     error
	rt      *control.Runtime
	session *control.Session
}

type describedMsg struct {
	err  error
	desc *extract.ClassDescriptor
	push bool
}

func newBrowserModel(launcher *memvm.Launcher, opts config.Options, logger *zap.Logger) *browserModel {
	ti := textinput.New()
	ti.Placeholder = "java.lang.String"
	ti.Prompt = "class: "
	ti.Width = 60
	ti.Focus()

	return &browserModel{
		launcher: launcher,
		opts:     opts,
		logger:   logger,
		input:    ti,
		state:    stateStarting,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return tea.Batch(m.start, textinput.Blink)
}

func (m *browserModel) start() tea.Msg {
	rt := control.New(m.launcher, control.WithLogger(m.logger))
	s, err := rt.Start(context.Background(), m.opts)
	if err != nil {
		return startedMsg{err: err}
	}
	return startedMsg{rt: rt, session: s}
}

func (m *browserModel) describe(name string, push bool) tea.Cmd {
	return func() tea.Msg {
		d, err := extract.Extract(m.session, name)
		return describedMsg{err: err, desc: d, push: push}
	}
}

func (m *browserModel) stop() {
	if m.rt != nil && m.rt.IsRunning() {
		_ = m.rt.Stop(context.Background())
	}
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.stop()
			return m, tea.Quit
		}

		switch m.state {
		case stateSearch:
			switch msg.String() {
			case "enter":
				name := strings.TrimSpace(m.input.Value())
				if name == "" {
					return m, nil
				}
				return m, m.describe(name, true)
			case "esc":
				if m.current != nil {
					m.state = stateBrowse
					m.input.Blur()
					return m, nil
				}
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd

		case stateBrowse:
			switch msg.String() {
			case "q":
				m.stop()
				return m, tea.Quit
			case "up", "k":
				if m.selected > 0 {
					m.selected--
				}
			case "down", "j":
				if m.selected < len(m.members)-1 {
					m.selected++
				}
			case "enter":
				if m.selected < len(m.members) && m.members[m.selected].target != "" {
					return m, m.describe(m.members[m.selected].target, true)
				}
			case "s":
				if m.current.Superclass != "" {
					return m, m.describe(m.current.Superclass, true)
				}
			case "backspace", "esc":
				if len(m.history) > 1 {
					m.history = m.history[:len(m.history)-1]
					return m, m.describe(m.history[len(m.history)-1], false)
				}
			case "/":
				m.state = stateSearch
				m.input.SetValue("")
				m.input.Focus()
				m.err = nil
			}
		}

	case startedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rt = msg.rt
		m.session = msg.session
		m.state = stateSearch

	case describedMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.current = msg.desc
		if msg.push {
			m.history = append(m.history, msg.desc.Name)
		}
		m.members = members(msg.desc)
		m.selected = 0
		m.state = stateBrowse
		m.input.Blur()
	}

	return m, nil
}

func members(d *extract.ClassDescriptor) []member {
	out := make([]member, 0, len(d.Fields)+len(d.Methods))
	for _, f := range d.Fields {
		out = append(out, member{
			label:  formatMods(f.Modifiers) + typeStyle.Render(f.Type.String()) + " " + nameStyle.Render(f.Name),
			target: classOf(f.Type),
		})
	}
	for _, md := range d.Methods {
		params := make([]string, len(md.Parameters))
		for i, p := range md.Parameters {
			params[i] = typeStyle.Render(p.String())
		}
		out = append(out, member{
			label: formatMods(md.Modifiers) + typeStyle.Render(md.ReturnType.String()) + " " +
				nameStyle.Render(md.Name) + "(" + strings.Join(params, ", ") + ")",
			target: classOf(md.ReturnType),
		})
	}
	return out
}

// classOf returns the class name a type refers to through any number of
// array dimensions.
func classOf(t signature.TypeRef) string {
	if c, ok := signature.Leaf(t).(signature.ClassRef); ok {
		return c.Name
	}
	return ""
}

func formatMods(mods extract.Modifiers) string {
	if len(mods) == 0 {
		return ""
	}
	return modStyle.Render(mods.String()) + " "
}

func (m *browserModel) View() string {
	if m.state == stateStarting {
		if m.err != nil {
			return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
		}
		return "Starting runtime..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Gargoyle"))
	if m.current != nil {
		b.WriteString(" ")
		b.WriteString(formatMods(m.current.Modifiers))
		b.WriteString(nameStyle.Render(m.current.Name))
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateSearch:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter describe • esc back • ctrl+c quit"))

	case stateBrowse:
		d := m.current
		if d.Superclass != "" {
			b.WriteString("extends " + typeStyle.Render(d.Superclass) + "\n")
		}
		if len(d.Interfaces) > 0 {
			b.WriteString("implements " + typeStyle.Render(strings.Join(d.Interfaces, ", ")) + "\n")
		}
		b.WriteString("\n")
		for i, mem := range m.members {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> ") + mem.label)
			} else {
				b.WriteString("  " + mem.label)
			}
			b.WriteString("\n")
		}
		if m.err != nil {
			b.WriteString("\n")
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open type • s superclass • esc back • / search • q quit"))
	}

	return b.String()
}

func runInteractive(launcher *memvm.Launcher, opts config.Options, logger *zap.Logger) error {
	m := newBrowserModel(launcher, opts, logger)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	m.stop()
	return err
}
