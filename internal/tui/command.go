package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/thereceipt/template-engine/internal/command"
)

// CommandModel handles command input
type CommandModel struct {
	executor   *command.Executor
	input      textinput.Model
	visible    bool
	lastResult *command.Result
	width      int
	height     int
	scrollPos  int // For scrolling long results
}

// NewCommandModel creates a new command model
func NewCommandModel(executor *command.Executor) CommandModel {
	input := textinput.New()
	input.Placeholder = "Enter command (e.g., 'template list', 'help')"
	input.CharLimit = 200
	input.Prompt = "> "
	input.PromptStyle = lipgloss.NewStyle().Foreground(Secondary)

	return CommandModel{
		executor: executor,
		input:    input,
		visible:  false,
		width:    80,
	}
}

// SetSize sets the component size
func (m *CommandModel) SetSize(width, height int) {
	if width < 40 {
		width = 40
	}
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Show shows the command input
func (m *CommandModel) Show() {
	m.visible = true
	m.input.Focus()
	m.lastResult = nil
	m.scrollPos = 0
}

// Hide hides the command input
func (m *CommandModel) Hide() {
	m.visible = false
	m.input.Blur()
	m.input.SetValue("")
}

// IsVisible returns whether the command input is visible
func (m *CommandModel) IsVisible() bool {
	return m.visible
}

// Update handles messages
func (m CommandModel) Update(msg tea.Msg) (CommandModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			// Execute command; keep the bar open for quick follow-ups
			cmdStr := strings.TrimSpace(m.input.Value())
			if cmdStr != "" {
				m.lastResult = m.executor.Execute(cmdStr)
				m.input.SetValue("")
				m.scrollPos = 0
			}
			return m, cmd

		case "esc":
			m.Hide()
			return m, nil

		case "up":
			if m.scrollPos > 0 {
				m.scrollPos--
			}
			return m, nil

		case "down":
			m.scrollPos++
			return m, nil

		case "home":
			m.scrollPos = 0
			return m, nil
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command bar and the last result
func (m CommandModel) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.lastResult != nil {
		b.WriteString(m.renderResult())
	} else {
		b.WriteString(HelpStyle.Render("enter to run, esc to close"))
	}

	return ConsoleStyle.Width(m.width).Render(b.String())
}

func (m CommandModel) renderResult() string {
	result := m.lastResult

	var lines []string
	if result.Success {
		if result.Message != "" {
			for _, line := range strings.Split(result.Message, "\n") {
				lines = append(lines, SuccessStyle.Render(line))
			}
		} else {
			lines = append(lines, SuccessStyle.Render("ok"))
		}
	} else {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("error: %s", result.Error)))
	}

	// Clamp scrolling to the visible window
	maxLines := m.height
	if maxLines < 3 {
		maxLines = 3
	}
	if m.scrollPos > len(lines)-1 {
		m.scrollPos = len(lines) - 1
	}
	if m.scrollPos < 0 {
		m.scrollPos = 0
	}
	end := m.scrollPos + maxLines
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[m.scrollPos:end], "\n")
}
