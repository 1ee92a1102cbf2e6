package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/pocket-kdp/internal/models"
)

// PresetModal lets the user start a new project from a preset
type PresetModal struct {
	list      list.Model
	isActive  bool
	confirmed bool
	width     int
	height    int
}

// presetItem implements list.Item for a preset. The first entry is the
// blank project and carries no preset.
type presetItem struct {
	preset *models.Preset
}

func (p presetItem) FilterValue() string {
	if p.preset == nil {
		return "blank"
	}
	return p.preset.Name
}

func (p presetItem) Title() string {
	if p.preset == nil {
		return "Blank project"
	}
	return p.preset.Name
}

func (p presetItem) Description() string {
	if p.preset == nil {
		return "Start from the defaults"
	}
	return p.preset.Description
}

type presetItemDelegate struct{}

func (d presetItemDelegate) Height() int                               { return 2 }
func (d presetItemDelegate) Spacing() int                              { return 1 }
func (d presetItemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d presetItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(presetItem)
	if !ok {
		return
	}

	title := "  " + item.Title()
	desc := lipgloss.NewStyle().Foreground(ColorTextDim).Render("  " + item.Description())
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true).Render("▶ " + item.Title())
	} else {
		title = lipgloss.NewStyle().Foreground(ColorText).Render(title)
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// NewPresetModal creates the modal with the blank option and every preset
func NewPresetModal() *PresetModal {
	presets := models.Presets()
	items := make([]list.Item, 0, len(presets)+1)
	items = append(items, presetItem{})
	for i := range presets {
		items = append(items, presetItem{preset: &presets[i]})
	}

	l := list.New(items, presetItemDelegate{}, 50, 15)
	l.Title = "New project"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return &PresetModal{list: l}
}

func (pm *PresetModal) SetSize(width, height int) {
	pm.width = width
	pm.height = height
	pm.list.SetSize(min(width-8, 70), min(height-8, 20))
}

// Show activates the modal and clears any previous choice
func (pm *PresetModal) Show() {
	pm.isActive = true
	pm.confirmed = false
	pm.list.Select(0)
}

func (pm *PresetModal) IsActive() bool {
	return pm.isActive
}

// Chosen reports the selection once the modal was confirmed. The preset is
// nil for a blank project.
func (pm *PresetModal) Chosen() (*models.Preset, bool) {
	item, ok := pm.list.SelectedItem().(presetItem)
	if pm.isActive || !pm.confirmed || !ok {
		return nil, false
	}
	return item.preset, true
}

// Update handles modal updates
func (pm *PresetModal) Update(msg tea.Msg) tea.Cmd {
	if !pm.isActive {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			pm.confirmed = true
			pm.isActive = false
			return nil
		case "esc":
			pm.isActive = false
			return nil
		}
	}

	var cmd tea.Cmd
	pm.list, cmd = pm.list.Update(msg)
	return cmd
}

// View renders the modal
func (pm *PresetModal) View() string {
	if !pm.isActive {
		return ""
	}

	instructions := StyleTextDim.Render("↑/↓: choose • Enter: create • Esc: cancel")
	content := lipgloss.JoinVertical(lipgloss.Left, pm.list.View(), "", instructions)
	return CenterModal(StyleModal.Render(content), pm.width, pm.height)
}
