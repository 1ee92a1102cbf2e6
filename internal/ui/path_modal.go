package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/pocket-kdp/internal/config"
)

// PathPurpose says what a submitted path will be used for
type PathPurpose int

const (
	PathImportPack PathPurpose = iota
	PathAddImage
)

func (p PathPurpose) title() string {
	switch p {
	case PathAddImage:
		return "Add Reference Image"
	default:
		return "Import Project Pack"
	}
}

func (p PathPurpose) placeholder() string {
	switch p {
	case PathAddImage:
		return "~/Pictures/character.png"
	default:
		return "project_pack_my-book.json"
	}
}

// PathModal asks for a single file path
type PathModal struct {
	input     textinput.Model
	purpose   PathPurpose
	isActive  bool
	submitted bool
	errMsg    string
	width     int
	height    int
}

func NewPathModal() *PathModal {
	input := textinput.New()
	input.CharLimit = 1024
	input.Width = 50
	return &PathModal{input: input}
}

// Show opens the modal for purpose with an empty input
func (m *PathModal) Show(purpose PathPurpose) {
	m.purpose = purpose
	m.isActive = true
	m.submitted = false
	m.errMsg = ""
	m.input.SetValue("")
	m.input.Placeholder = purpose.placeholder()
	m.input.Focus()
}

func (m *PathModal) Hide() {
	m.isActive = false
	m.input.Blur()
}

func (m *PathModal) IsActive() bool { return m.isActive }

func (m *PathModal) Purpose() PathPurpose { return m.purpose }

// Submitted returns the entered path once, after Enter was pressed
func (m *PathModal) Submitted() (string, bool) {
	if !m.submitted {
		return "", false
	}
	m.submitted = false
	return m.Value(), true
}

// Value is the trimmed path with a leading ~ expanded
func (m *PathModal) Value() string {
	return config.ExpandHome(strings.TrimSpace(m.input.Value()))
}

// SetError keeps the modal open and shows msg under the input
func (m *PathModal) SetError(msg string) {
	m.errMsg = msg
	m.isActive = true
	m.input.Focus()
}

// Update handles input for the modal
func (m *PathModal) Update(msg tea.Msg) tea.Cmd {
	if !m.isActive {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
			m.Hide()
			return nil
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if m.Value() == "" {
				m.errMsg = "Enter a file path"
				return nil
			}
			m.errMsg = ""
			m.submitted = true
			m.isActive = false
			return nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// View renders the modal
func (m *PathModal) View() string {
	if !m.isActive {
		return ""
	}

	elements := []string{
		StyleSubtitle.Render(m.purpose.title()),
		"",
		StyleFormLabel.Render("File path"),
		m.input.View(),
	}
	if m.errMsg != "" {
		elements = append(elements, "", CreateStatus(m.errMsg, "error"))
	}
	elements = append(elements, "", StyleTextDim.Render("Enter: confirm • Esc: cancel"))

	return CenterModal(StyleModal.Render(lipgloss.JoinVertical(lipgloss.Left, elements...)), m.width, m.height)
}

func (m *PathModal) Resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = min(60, width-12)
}
