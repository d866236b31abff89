package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thereceipt/template-engine/internal/store"
	"github.com/thereceipt/template-engine/pkg/templateformat"
)

// BlocksModel edits the block list of one template: toggling blocks and
// moving them between positions. Moves go through the same Reorder
// operation a drag-and-drop frontend would issue.
type BlocksModel struct {
	store    *store.Store
	template *templateformat.ReceiptTemplate
	cursor   int
	width    int
}

// NewBlocksModel creates the block editor tab
func NewBlocksModel(st *store.Store) BlocksModel {
	return BlocksModel{store: st}
}

// SetSize sets the component size
func (m *BlocksModel) SetSize(width int) {
	m.width = width
}

// Open loads a template into the editor
func (m *BlocksModel) Open(templateID string) {
	m.template = m.store.Get(templateID)
	m.cursor = 0
	if m.template != nil {
		templateformat.SortBlocks(m.template.Blocks)
	}
}

// HasTemplate reports whether a template is loaded
func (m *BlocksModel) HasTemplate() bool {
	return m.template != nil
}

// TemplateID returns the id of the template being edited, or ""
func (m *BlocksModel) TemplateID() string {
	if m.template == nil {
		return ""
	}
	return m.template.ID
}

// Update handles messages
func (m BlocksModel) Update(msg tea.Msg) (BlocksModel, tea.Cmd) {
	if m.template == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.template.Blocks)-1 {
				m.cursor++
			}
		case "K", "shift+up":
			m.move(m.cursor, m.cursor-1)
		case "J", "shift+down":
			m.move(m.cursor, m.cursor+1)
		case " ":
			m.toggle()
		}
	}
	return m, nil
}

func (m *BlocksModel) move(from, to int) {
	if !templateformat.Reorder(m.template.Blocks, from, to) {
		return
	}
	if err := m.store.Put(m.template); err != nil {
		return
	}
	m.cursor = to
}

func (m *BlocksModel) toggle() {
	if m.cursor >= len(m.template.Blocks) {
		return
	}
	blockID := m.template.Blocks[m.cursor].ID
	if !templateformat.Toggle(m.template.Blocks, blockID) {
		return
	}
	m.store.Put(m.template)
}

// View renders the block editor
func (m BlocksModel) View() string {
	var b strings.Builder

	if m.template == nil {
		b.WriteString(CardTitleStyle.Render("Blocks"))
		b.WriteString("\n")
		b.WriteString(TextMuted.Render("Select a template on the Templates tab first."))
		return b.String()
	}

	b.WriteString(CardTitleStyle.Render("Blocks: " + Truncate(m.template.Name, 40)))
	b.WriteString("\n")

	for i, block := range m.template.Blocks {
		status := StatusDisabled.String()
		if block.Enabled {
			status = StatusEnabled.String()
		}

		label := block.Label
		if label == "" {
			label = string(block.Type)
		}

		suffix := ""
		if n := len(block.Conditions); n > 0 {
			suffix = TextMuted.Render(fmt.Sprintf("  %d rule(s)", n))
		}

		line := fmt.Sprintf("%d  %s %s%s", block.Order, status, Truncate(label, 28), suffix)

		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render(line))
		} else {
			b.WriteString(ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(strings.Join([]string{
		RenderHelp("space", "toggle"),
		RenderHelp("J/K", "move block"),
		RenderHelp("esc", "back"),
	}, "  "))

	return b.String()
}
