package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thereceipt/template-engine/internal/store"
	"github.com/thereceipt/template-engine/pkg/templateformat"
)

// TemplatesModel lists the saved templates
type TemplatesModel struct {
	store     *store.Store
	templates []*templateformat.ReceiptTemplate
	cursor    int
	width     int
}

// NewTemplatesModel creates the templates tab
func NewTemplatesModel(st *store.Store) TemplatesModel {
	m := TemplatesModel{store: st}
	m.Refresh()
	return m
}

// Refresh reloads the template list from the store
func (m *TemplatesModel) Refresh() {
	m.templates = m.store.List()
	if m.cursor >= len(m.templates) {
		m.cursor = len(m.templates) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SetSize sets the component size
func (m *TemplatesModel) SetSize(width int) {
	m.width = width
}

// Selected returns the template under the cursor, or nil
func (m *TemplatesModel) Selected() *templateformat.ReceiptTemplate {
	if len(m.templates) == 0 {
		return nil
	}
	return m.templates[m.cursor]
}

// Update handles messages
func (m TemplatesModel) Update(msg tea.Msg) (TemplatesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.templates)-1 {
				m.cursor++
			}
		case "d":
			if t := m.Selected(); t != nil {
				m.store.Remove(t.ID)
				m.Refresh()
			}
		case "a":
			if t := m.Selected(); t != nil {
				t.IsActive = !t.IsActive
				m.store.Put(t)
				m.Refresh()
			}
		}
	}
	return m, nil
}

// View renders the template list
func (m TemplatesModel) View() string {
	var b strings.Builder
	b.WriteString(CardTitleStyle.Render("Templates"))
	b.WriteString("\n")

	if len(m.templates) == 0 {
		b.WriteString(TextMuted.Render("No templates yet. Install one from the gallery or scan a document."))
		return b.String()
	}

	for i, t := range m.templates {
		status := StatusDisabled.String()
		if t.IsActive {
			status = StatusEnabled.String()
		}

		meta := templateformat.MetaForType(t.Type)
		line := fmt.Sprintf("%s %s  %s", status, Truncate(t.Name, 36), TextMuted.Render(meta.Label))

		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render(line))
		} else {
			b.WriteString(ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(strings.Join([]string{
		RenderHelp("enter", "edit blocks"),
		RenderHelp("a", "toggle active"),
		RenderHelp("d", "delete"),
	}, "  "))

	return b.String()
}
