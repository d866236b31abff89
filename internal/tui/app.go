// Package tui is the terminal editor for receipt templates
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/thereceipt/template-engine/internal/command"
	"github.com/thereceipt/template-engine/internal/scanner"
	"github.com/thereceipt/template-engine/internal/store"
)

// Tab represents a navigation tab
type Tab int

const (
	TabTemplates Tab = iota
	TabBlocks
	TabGallery
)

func (t Tab) String() string {
	return []string{"Templates", "Blocks", "Gallery"}[t]
}

// Messages
type tickMsg time.Time
type logMsg struct {
	message string
	level   string
}

// App is the main Bubble Tea model
type App struct {
	// Dependencies
	store *store.Store
	port  string

	// UI State
	activeTab Tab
	width     int
	height    int
	quitting  bool

	// Logs
	logs    []logEntry
	maxLogs int

	// Components
	spinner   spinner.Model
	templates TemplatesModel
	blocks    BlocksModel
	gallery   GalleryModel
	command   CommandModel

	// Timing
	startTime time.Time
}

type logEntry struct {
	time    time.Time
	message string
	level   string
}

// NewApp creates a new Bubble Tea TUI application
func NewApp(st *store.Store, sc *scanner.Service, port string) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	executor := command.NewExecutor(st, sc)

	app := &App{
		store:     st,
		port:      port,
		activeTab: TabTemplates,
		logs:      make([]logEntry, 0),
		maxLogs:   100,
		spinner:   s,
		startTime: time.Now(),
	}

	app.templates = NewTemplatesModel(st)
	app.blocks = NewBlocksModel(st)
	app.gallery = NewGalleryModel(st)
	app.command = NewCommandModel(executor)

	return app
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.tickCmd(),
		tea.EnterAltScreen,
	)
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// AddLog appends a log line shown in the console area
func (a *App) AddLog(message, level string) {
	a.logs = append(a.logs, logEntry{time: time.Now(), message: message, level: level})
	if len(a.logs) > a.maxLogs {
		a.logs = a.logs[len(a.logs)-a.maxLogs:]
	}
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Command line has priority when open
		if a.command.IsVisible() {
			newCmd, cmd := a.command.Update(msg)
			a.command = newCmd
			a.refreshAfterCommand()
			return a, cmd
		}

		switch msg.String() {
		case ":":
			a.command.Show()
			return a, nil

		case "q", "ctrl+c":
			a.quitting = true
			return a, tea.Quit

		case "tab":
			a.activeTab = (a.activeTab + 1) % 3
			return a, nil

		case "1":
			a.activeTab = TabTemplates
			return a, nil
		case "2":
			a.activeTab = TabBlocks
			return a, nil
		case "3":
			a.activeTab = TabGallery
			return a, nil

		case "enter":
			if a.activeTab == TabTemplates {
				if t := a.templates.Selected(); t != nil {
					a.blocks.Open(t.ID)
					a.activeTab = TabBlocks
					return a, nil
				}
			}

		case "esc":
			if a.activeTab == TabBlocks {
				a.activeTab = TabTemplates
				a.templates.Refresh()
				return a, nil
			}
		}

		// Forward to the active tab
		switch a.activeTab {
		case TabTemplates:
			newModel, cmd := a.templates.Update(msg)
			a.templates = newModel
			cmds = append(cmds, cmd)
		case TabBlocks:
			newModel, cmd := a.blocks.Update(msg)
			a.blocks = newModel
			cmds = append(cmds, cmd)
		case TabGallery:
			newModel, cmd := a.gallery.Update(msg)
			a.gallery = newModel
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.templates.SetSize(msg.Width)
		a.blocks.SetSize(msg.Width)
		a.gallery.SetSize(msg.Width)
		a.command.SetSize(msg.Width, msg.Height/3)

	case tickMsg:
		a.templates.Refresh()
		cmds = append(cmds, a.tickCmd())

	case logMsg:
		a.AddLog(msg.message, msg.level)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// refreshAfterCommand reloads tab data after a command may have changed
// the store underneath the views
func (a *App) refreshAfterCommand() {
	a.templates.Refresh()
	if id := a.blocks.TemplateID(); id != "" {
		a.blocks.Open(id)
	}
}

// View renders the application
func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Header
	title := fmt.Sprintf("Template Engine  %s  API :%s", a.spinner.View(), a.port)
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n")

	// Tabs
	var tabs []string
	for t := TabTemplates; t <= TabGallery; t++ {
		if t == a.activeTab {
			tabs = append(tabs, TabActiveStyle.Render(t.String()))
		} else {
			tabs = append(tabs, TabStyle.Render(t.String()))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	// Content
	var content string
	switch a.activeTab {
	case TabTemplates:
		content = a.templates.View()
	case TabBlocks:
		content = a.blocks.View()
	case TabGallery:
		content = a.gallery.View()
	}
	b.WriteString(ContentStyle.Render(content))
	b.WriteString("\n")

	// Command line overlay
	if a.command.IsVisible() {
		b.WriteString(a.command.View())
		b.WriteString("\n")
	}

	// Console with recent logs
	b.WriteString(a.renderConsole())
	b.WriteString("\n")

	// Help bar
	help := strings.Join([]string{
		RenderHelp("tab", "switch"),
		RenderHelp(":", "command"),
		RenderHelp("q", "quit"),
	}, "  ")
	b.WriteString(HelpBarStyle.Width(a.width).Render(help))

	return b.String()
}

func (a *App) renderConsole() string {
	maxLines := 4
	start := 0
	if len(a.logs) > maxLines {
		start = len(a.logs) - maxLines
	}

	var lines []string
	for _, entry := range a.logs[start:] {
		prefix := entry.time.Format("15:04:05")
		line := fmt.Sprintf("%s %s", TextMuted.Render(prefix), entry.message)
		switch entry.level {
		case "error":
			line = fmt.Sprintf("%s %s", TextMuted.Render(prefix), ErrorStyle.Render(entry.message))
		case "info":
			line = fmt.Sprintf("%s %s", TextMuted.Render(prefix), TextNormal.Render(entry.message))
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = append(lines, TextMuted.Render("no activity yet"))
	}

	return ConsoleStyle.Width(a.width).Render(strings.Join(lines, "\n"))
}

// Run starts the TUI event loop (blocking)
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
