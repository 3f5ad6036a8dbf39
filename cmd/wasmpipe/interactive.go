package main

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wasmpipe/wasmpipe/channel"
	"github.com/wasmpipe/wasmpipe/engine"
	"github.com/wasmpipe/wasmpipe/frame"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	payloadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type cycleResult struct {
	messages []frame.Message
	err      error
}

type interactiveModel struct {
	ch     *channel.Channel
	eng    *engine.Engine
	input  textinput.Model
	last   *cycleResult
	cycles int
}

func newInteractiveModel() *interactiveModel {
	ch := channel.New()
	stream := channel.NewStream(ch)

	ti := textinput.New()
	ti.Placeholder = "request bytes, or /rows N"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		ch:    ch,
		eng:   engine.New(stream, stream),
		input: ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			m.last = m.runCycle(m.input.Value())
			m.input.SetValue("")
			m.cycles++
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// runCycle performs one full handshake: reset, signal input, run the
// engine, drain and acknowledge output.
func (m *interactiveModel) runCycle(request string) *cycleResult {
	m.ch.Reset()

	var err error
	if n, ok := parseRowsCommand(request); ok {
		err = m.eng.Rows(n)
	} else {
		copy(m.ch.Input().Data(), request)
		if serr := m.ch.SignalInputReady(uint32(len(request))); serr != nil {
			return &cycleResult{err: serr}
		}
		err = m.eng.Echo()
	}
	if err != nil {
		return &cycleResult{err: err}
	}

	if !m.ch.HasOutput() {
		return &cycleResult{err: stderrors.New("engine produced no output")}
	}
	msgs, err := frame.Parse(m.ch.Output().Bytes())
	if err != nil {
		return &cycleResult{err: err}
	}

	// Copy payloads out before the acknowledge invalidates the buffer view.
	out := make([]frame.Message, len(msgs))
	for i, msg := range msgs {
		out[i] = frame.Message{Tag: msg.Tag, Payload: append([]byte(nil), msg.Payload...)}
	}
	m.ch.AcknowledgeOutput()

	return &cycleResult{messages: out}
}

func parseRowsCommand(s string) (int, bool) {
	rest, ok := strings.CutPrefix(s, "/rows ")
	if !ok {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(rest), "%d", &n); err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("wasmpipe"))
	b.WriteString(" shared-buffer channel demo\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.last != nil {
		if m.last.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.last.err)))
			b.WriteString("\n")
		} else {
			for _, msg := range m.last.messages {
				b.WriteString(tagStyle.Render(fmt.Sprintf("%c ", msg.Tag)))
				b.WriteString(payloadStyle.Render(fmt.Sprintf("%q", msg.Payload)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	ctl := m.ch.Control()
	b.WriteString(statsStyle.Render(fmt.Sprintf(
		"cycle %d • input %s • output %s • read %d • written %d • op %s",
		m.cycles,
		m.ch.Input().Status(),
		m.ch.Output().Status(),
		ctl.TotalRead(),
		ctl.TotalWritten(),
		ctl.Operation(),
	)))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter send • /rows N row batch • esc quit"))

	return b.String()
}

func runInteractive() error {
	p := tea.NewProgram(newInteractiveModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
