package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dpshade/pocket-kdp/internal/models"
)

// Form field indices
const (
	titleField = iota
	categoryField
	audienceField
	lengthField
	keyPointsField
	keywordsField
	mainIdeaField
	fieldCount
)

var fieldLabels = [...]string{
	titleField:     "Title",
	categoryField:  "Category",
	audienceField:  "Target audience",
	lengthField:    "Target length",
	keyPointsField: "Key points",
	keywordsField:  "Keywords",
	mainIdeaField:  "Main idea",
}

// ProjectForm edits the fields most often changed from the terminal. Lists
// are entered comma-separated.
type ProjectForm struct {
	inputs    []textinput.Model
	textarea  textarea.Model
	focused   int
	submitted bool
	editing   bool
	base      models.Project
	preset    models.ProjectPatch
}

// NewProjectForm creates a form for a new project, pre-filled from preset
// when one is given
func NewProjectForm(preset *models.Preset) *ProjectForm {
	base := models.Defaults()
	var pp models.ProjectPatch
	if preset != nil {
		pp = preset.Patch
		base = models.ApplyPatch(base, pp)
	}
	f := newProjectForm(base, false)
	f.preset = pp
	return f
}

// NewEditForm creates a form pre-filled from p
func NewEditForm(p models.Project) *ProjectForm {
	return newProjectForm(p, true)
}

func newProjectForm(base models.Project, editing bool) *ProjectForm {
	inputs := make([]textinput.Model, mainIdeaField)

	inputs[titleField] = textinput.New()
	inputs[titleField].Placeholder = "The Sharing Fox"
	inputs[titleField].CharLimit = 200
	inputs[titleField].Width = 50

	inputs[categoryField] = textinput.New()
	inputs[categoryField].Placeholder = "children, journal, non-fiction..."
	inputs[categoryField].CharLimit = 60
	inputs[categoryField].Width = 40
	inputs[categoryField].ShowSuggestions = true
	inputs[categoryField].SetSuggestions(models.BookCategories)

	inputs[audienceField] = textinput.New()
	inputs[audienceField].Placeholder = "Children (4-6)"
	inputs[audienceField].CharLimit = 100
	inputs[audienceField].Width = 40

	inputs[lengthField] = textinput.New()
	inputs[lengthField].Placeholder = "12 chapters"
	inputs[lengthField].CharLimit = 60
	inputs[lengthField].Width = 30

	inputs[keyPointsField] = textinput.New()
	inputs[keyPointsField].Placeholder = strings.Join(models.KeyPointSuggestions[:3], ", ") + " (comma-separated)"
	inputs[keyPointsField].CharLimit = 500
	inputs[keyPointsField].Width = 60

	inputs[keywordsField] = textinput.New()
	inputs[keywordsField].Placeholder = "up to 7, comma-separated"
	inputs[keywordsField].CharLimit = 500
	inputs[keywordsField].Width = 60

	ta := textarea.New()
	ta.Placeholder = "What is the book about?"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetWidth(70)
	ta.SetHeight(5)

	// a new project's title starts empty and falls back to the default
	if editing {
		inputs[titleField].SetValue(base.Title)
	} else {
		inputs[titleField].Placeholder = base.Title
		base.Title = ""
	}
	inputs[categoryField].SetValue(base.BookCategory)
	inputs[audienceField].SetValue(base.TargetAudience)
	inputs[lengthField].SetValue(base.TargetLength)
	inputs[keyPointsField].SetValue(strings.Join(base.BookPrompt.KeyPoints, ", "))
	inputs[keywordsField].SetValue(strings.Join(base.Metadata.Keywords, ", "))
	ta.SetValue(base.BookPrompt.MainIdea)
	inputs[titleField].Focus()

	return &ProjectForm{
		inputs:   inputs,
		textarea: ta,
		focused:  titleField,
		editing:  editing,
		base:     base.Clone(),
	}
}

// Update handles form updates
func (f *ProjectForm) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab":
			f.focus(f.focused + 1)
			return nil
		case "shift+tab":
			f.focus(f.focused - 1)
			return nil
		case "ctrl+s":
			f.submitted = true
			return nil
		case "down", "enter":
			if f.focused != mainIdeaField {
				f.focus(f.focused + 1)
				return nil
			}
		case "up":
			if f.focused != mainIdeaField {
				f.focus(f.focused - 1)
				return nil
			}
		}
	}

	var cmd tea.Cmd
	if f.focused == mainIdeaField {
		f.textarea, cmd = f.textarea.Update(msg)
	} else {
		f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	}
	return cmd
}

func (f *ProjectForm) focus(i int) {
	if f.focused == mainIdeaField {
		f.textarea.Blur()
	} else {
		f.inputs[f.focused].Blur()
	}

	f.focused = (i + fieldCount) % fieldCount

	if f.focused == mainIdeaField {
		f.textarea.Focus()
	} else {
		f.inputs[f.focused].Focus()
	}
}

// Resize fits the main idea box to the window
func (f *ProjectForm) Resize(width, height int) {
	w := width - 10
	if w < 30 {
		w = 30
	}
	h := height - 22
	if h < 3 {
		h = 3
	}
	f.textarea.SetWidth(w)
	f.textarea.SetHeight(h)
}

func (f *ProjectForm) IsSubmitted() bool { return f.submitted }

func (f *ProjectForm) IsEditing() bool { return f.editing }

// ProjectID is the project being edited, or "" for a new one
func (f *ProjectForm) ProjectID() string {
	if !f.editing {
		return ""
	}
	return f.base.ID
}

// Patch returns the changes the form holds. Only fields that differ from
// the starting values are set; book prompt and metadata edits keep the other
// sub-fields. A new project's patch also carries its preset.
func (f *ProjectForm) Patch() models.ProjectPatch {
	pp := f.changes()
	if f.editing {
		return pp
	}

	out := f.preset
	if pp.Title != nil {
		out.Title = pp.Title
	}
	if pp.BookCategory != nil {
		out.BookCategory = pp.BookCategory
	}
	if pp.TargetAudience != nil {
		out.TargetAudience = pp.TargetAudience
	}
	if pp.TargetLength != nil {
		out.TargetLength = pp.TargetLength
	}
	if pp.BookPrompt != nil {
		out.BookPrompt = pp.BookPrompt
	}
	if pp.Metadata != nil {
		out.Metadata = pp.Metadata
	}
	return out
}

func (f *ProjectForm) changes() models.ProjectPatch {
	var pp models.ProjectPatch

	setString := func(target **string, value, original string) {
		value = strings.TrimSpace(value)
		if value != original {
			*target = models.Ptr(value)
		}
	}
	setString(&pp.Title, f.inputs[titleField].Value(), f.base.Title)
	setString(&pp.BookCategory, f.inputs[categoryField].Value(), f.base.BookCategory)
	setString(&pp.TargetAudience, f.inputs[audienceField].Value(), f.base.TargetAudience)
	setString(&pp.TargetLength, f.inputs[lengthField].Value(), f.base.TargetLength)

	mainIdea := strings.TrimSpace(f.textarea.Value())
	keyPointsChanged := f.listChanged(keyPointsField, f.base.BookPrompt.KeyPoints)
	if mainIdea != f.base.BookPrompt.MainIdea || keyPointsChanged {
		book := f.base.Clone().BookPrompt
		book.MainIdea = mainIdea
		if keyPointsChanged {
			book.KeyPoints = splitList(f.inputs[keyPointsField].Value())
		}
		pp.BookPrompt = &book
	}

	if f.listChanged(keywordsField, f.base.Metadata.Keywords) {
		meta := f.base.Clone().Metadata
		meta.Keywords = splitList(f.inputs[keywordsField].Value())
		pp.Metadata = &meta
	}

	return pp
}

// listChanged compares the raw text so an untouched list keeps any
// repeated entries it already had
func (f *ProjectForm) listChanged(field int, original []string) bool {
	return strings.TrimSpace(f.inputs[field].Value()) != strings.Join(original, ", ")
}

// splitList splits a comma-separated value, dropping blanks and repeats
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		out = models.AppendUnique(out, part)
	}
	return out
}

// View renders the form
func (f *ProjectForm) View() string {
	var b strings.Builder
	for i := 0; i < mainIdeaField; i++ {
		b.WriteString(f.label(i))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}
	b.WriteString(f.label(mainIdeaField))
	b.WriteString("\n")
	b.WriteString(f.textarea.View())
	return b.String()
}

func (f *ProjectForm) label(i int) string {
	if i == f.focused {
		return lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render("▶ " + fieldLabels[i])
	}
	return StyleFormLabel.Render("  " + fieldLabels[i])
}
