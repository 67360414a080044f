// Package tui provides an interactive terminal form for checking answers.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/truthylabs/truthy/internal/detector"
	"github.com/truthylabs/truthy/internal/display"
	"github.com/truthylabs/truthy/internal/model"
)

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

const (
	fieldParagraph = iota
	fieldQuestion
	fieldAnswer
	fieldCount
)

var fieldLabels = [fieldCount]string{"Paragraph (optional)", "Question", "Answer"}

// detectMsg carries the async detection outcome back into Update.
type detectMsg struct {
	result model.Result
	err    error
}

// TUI runs the interactive checker against a prepared detector.
type TUI struct {
	Detector   *detector.Detector
	Credential string
}

type tuiModel struct {
	ctx        context.Context
	detector   *detector.Detector
	credential string

	inputs  [fieldCount]textinput.Model
	focus   int
	spin    spinner.Model
	running bool

	rendered string
	errMsg   string
}

func (t *TUI) Run(ctx context.Context) error {
	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 4096
		ti.Width = 96
		ti.Prompt = "> "
		inputs[i] = ti
	}
	inputs[fieldParagraph].Placeholder = "Source text the answer should be faithful to (leave empty to search the web)"
	inputs[fieldQuestion].Placeholder = "The question that was asked"
	inputs[fieldAnswer].Placeholder = "The model's answer to check"
	inputs[fieldParagraph].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	m := tuiModel{
		ctx:        ctx,
		detector:   t.Detector,
		credential: t.Credential,
		inputs:     inputs,
		spin:       sp,
	}

	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

func (m tuiModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
			if m.running {
				return m, nil
			}
			dir := 1
			if msg.Type == tea.KeyShiftTab || msg.Type == tea.KeyUp {
				dir = -1
			}
			m.inputs[m.focus].Blur()
			m.focus = (m.focus + dir + fieldCount) % fieldCount
			m.inputs[m.focus].Focus()
			return m, textinput.Blink
		case tea.KeyEnter:
			if m.running {
				return m, nil
			}
			if m.focus < fieldAnswer {
				m.inputs[m.focus].Blur()
				m.focus++
				m.inputs[m.focus].Focus()
				return m, textinput.Blink
			}
			return m.startDetect()
		}

	case detectMsg:
		m.running = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.rendered = ""
		} else {
			m.errMsg = ""
			m.rendered = display.Render(msg.result)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m tuiModel) startDetect() (tea.Model, tea.Cmd) {
	req := model.Request{
		Paragraph: strings.TrimSpace(m.inputs[fieldParagraph].Value()),
		Question:  strings.TrimSpace(m.inputs[fieldQuestion].Value()),
		Answer:    strings.TrimSpace(m.inputs[fieldAnswer].Value()),
	}
	if req.Question == "" || req.Answer == "" {
		m.errMsg = "question and answer are required"
		return m, nil
	}

	m.running = true
	m.errMsg = ""
	m.rendered = ""

	ctx, det, cred := m.ctx, m.detector, m.credential
	run := func() tea.Msg {
		res, err := det.Detect(ctx, req, detector.Options{Credential: cred})
		return detectMsg{result: res, err: err}
	}
	return m, tea.Batch(m.spin.Tick, run)
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("truthy — hallucination check") + "\n\n")

	for i := range m.inputs {
		b.WriteString(labelStyle.Render(fieldLabels[i]) + "\n")
		b.WriteString(m.inputs[i].View() + "\n\n")
	}

	switch {
	case m.running:
		b.WriteString(m.spin.View() + dimStyle.Render(" analyzing...") + "\n")
	case m.errMsg != "":
		b.WriteString(errorStyle.Render("error: "+m.errMsg) + "\n")
	case m.rendered != "":
		b.WriteString(m.rendered)
	}

	b.WriteString("\n" + dimStyle.Render("tab/shift+tab move · enter on answer runs the check · esc quits"))
	return b.String()
}
