package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thereceipt/template-engine/internal/gallery"
	"github.com/thereceipt/template-engine/internal/store"
	"github.com/thereceipt/template-engine/pkg/templateformat"
)

type galleryEntry struct {
	templateID string
	name       string
	category   string
	ttype      templateformat.TemplateType
}

// GalleryModel browses and installs built-in catalog templates
type GalleryModel struct {
	store       *store.Store
	entries     []galleryEntry
	cursor      int
	width       int
	lastMessage string
}

// NewGalleryModel creates the gallery tab
func NewGalleryModel(st *store.Store) GalleryModel {
	m := GalleryModel{store: st}
	for _, cat := range gallery.Categories() {
		for _, t := range cat.Templates {
			m.entries = append(m.entries, galleryEntry{
				templateID: t.ID,
				name:       t.Name,
				category:   cat.Name,
				ttype:      t.Type,
			})
		}
	}
	return m
}

// SetSize sets the component size
func (m *GalleryModel) SetSize(width int) {
	m.width = width
}

// Update handles messages
func (m GalleryModel) Update(msg tea.Msg) (GalleryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "enter", "i":
			m.install()
		}
	}
	return m, nil
}

func (m *GalleryModel) install() {
	if len(m.entries) == 0 {
		return
	}
	entry := m.entries[m.cursor]

	installed := gallery.Install(entry.templateID)
	if installed == nil {
		m.lastMessage = ErrorStyle.Render("catalog entry missing: " + entry.templateID)
		return
	}
	if err := m.store.Put(installed); err != nil {
		m.lastMessage = ErrorStyle.Render(err.Error())
		return
	}
	m.lastMessage = SuccessStyle.Render(fmt.Sprintf("Installed %q", installed.Name))
}

// View renders the gallery list
func (m GalleryModel) View() string {
	var b strings.Builder
	b.WriteString(CardTitleStyle.Render("Gallery"))
	b.WriteString("\n")

	lastCategory := ""
	for i, entry := range m.entries {
		if entry.category != lastCategory {
			b.WriteString(TextMuted.Render(entry.category))
			b.WriteString("\n")
			lastCategory = entry.category
		}

		meta := templateformat.MetaForType(entry.ttype)
		line := fmt.Sprintf("%s  %s", Truncate(entry.name, 36), TextMuted.Render(meta.Label))

		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render(line))
		} else {
			b.WriteString(ListItemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.lastMessage != "" {
		b.WriteString("\n")
		b.WriteString(m.lastMessage)
	}

	b.WriteString("\n")
	b.WriteString(RenderHelp("enter", "install"))

	return b.String()
}
