package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dpshade/pocket-kdp/internal/clipboard"
	"github.com/dpshade/pocket-kdp/internal/errors"
	"github.com/dpshade/pocket-kdp/internal/models"
	"github.com/dpshade/pocket-kdp/internal/pack"
	"github.com/dpshade/pocket-kdp/internal/renderer"
	"github.com/dpshade/pocket-kdp/internal/service"
	"github.com/dpshade/pocket-kdp/internal/storage"
)

// Options configure the TUI
type Options struct {
	// PreviewStyle is a glamour style name or "auto"
	PreviewStyle string
	// ExportDir receives exported prompts and packs
	ExportDir string
	Logger    *zap.Logger
}

type loadCompleteMsg struct {
	projects []models.Project
	activeID string
}

// loadProjectsCmd reads the collection from the service
func loadProjectsCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		return loadCompleteMsg{projects: svc.List(), activeID: svc.ActiveID()}
	}
}

// tickMsg counts down the status message
type tickMsg time.Time

func clearStatusCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ViewMode represents the current view in the TUI
type ViewMode int

const (
	ViewLibrary ViewMode = iota
	ViewProjectDetail
	ViewForm
)

// projectItem adapts a project to the bubbles list
type projectItem struct {
	project models.Project
	active  bool
}

func (i projectItem) Title() string {
	if i.active {
		return "● " + i.project.DisplayTitle()
	}
	return i.project.DisplayTitle()
}

func (i projectItem) Description() string {
	parts := []string{}
	if i.project.BookCategory != "" {
		parts = append(parts, i.project.BookCategory)
	}
	parts = append(parts, i.project.Language.DisplayName())
	if n := len(i.project.ReferenceImages); n > 0 {
		parts = append(parts, fmt.Sprintf("%d images", n))
	}
	parts = append(parts, "updated "+i.project.UpdatedAt.Local().Format("2006-01-02 15:04"))
	return strings.Join(parts, " • ")
}

func (i projectItem) FilterValue() string {
	return strings.Join(append([]string{i.project.Title, i.project.BookCategory, i.project.TargetAudience},
		i.project.Metadata.Keywords...), " ")
}

// Model represents the TUI application state
type Model struct {
	service    *service.Service
	opts       Options
	logger     *zap.Logger
	errHandler *errors.TUIErrorHandler
	viewMode   ViewMode
	formReturn ViewMode

	// UI components
	projectList list.Model
	viewport    viewport.Model
	help        help.Model
	keys        KeyMap

	// Data
	projects []models.Project
	activeID string
	loading  bool
	selected *models.Project
	kind     int

	form          *ProjectForm
	presetModal   *PresetModal
	pathModal     *PathModal
	deleteConfirm bool

	// Rendered content
	renderedContent string
	glamourRenderer *glamour.TermRenderer

	width  int
	height int

	statusMsg     string
	statusColor   lipgloss.Color
	statusTimeout int

	showHelpModal    bool
	showExpandedHelp bool
}

// NewModel creates a new TUI model
func NewModel(svc *service.Service, opts Options) (*Model, error) {
	initializeColors(opts.PreviewStyle)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 80, 20)
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	keyMap := list.DefaultKeyMap()
	keyMap.Filter = key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	)
	// q is ours
	keyMap.Quit = key.NewBinding(key.WithDisabled())
	l.KeyMap = keyMap

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	r, err := NewPreviewRenderer(opts.PreviewStyle, 60)
	if err != nil {
		return nil, fmt.Errorf("failed to create glamour renderer: %w", err)
	}

	return &Model{
		service:         svc,
		opts:            opts,
		logger:          logger,
		errHandler:      errors.NewTUIErrorHandler(true, logger),
		viewMode:        ViewLibrary,
		projectList:     l,
		viewport:        vp,
		help:            help.New(),
		keys:            keys,
		loading:         true,
		presetModal:     NewPresetModal(),
		pathModal:       NewPathModal(),
		glamourRenderer: r,
	}, nil
}

// Init loads the projects
func (m Model) Init() tea.Cmd {
	return loadProjectsCmd(m.service)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.statusTimeout > 0 {
			m.statusTimeout--
			if m.statusTimeout == 0 {
				m.statusMsg = ""
			} else {
				return m, clearStatusCmd()
			}
		}
		return m, nil

	case loadCompleteMsg:
		m.loading = false
		m.setProjects(msg.projects, msg.activeID)
		m.selectInList(msg.activeID)
		return m, nil

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	return m.updateComponents(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.presetModal.IsActive() {
		cmd := m.presetModal.Update(msg)
		if preset, ok := m.presetModal.Chosen(); ok {
			m.openForm(NewProjectForm(preset))
		}
		return m, cmd
	}

	if m.pathModal.IsActive() {
		cmd := m.pathModal.Update(msg)
		if path, ok := m.pathModal.Submitted(); ok {
			return m.handlePath(m.pathModal.Purpose(), path)
		}
		return m, cmd
	}

	if m.deleteConfirm {
		switch strings.ToLower(msg.String()) {
		case "y":
			m.deleteConfirm = false
			return m.deleteSelected()
		case "n", "esc":
			m.deleteConfirm = false
			return m.withStatus("Cancelled", ColorTextMuted)
		}
		return m, nil
	}

	if m.showHelpModal {
		if key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit) {
			m.showHelpModal = false
		}
		return m, nil
	}

	switch m.viewMode {
	case ViewForm:
		return m.handleFormKey(msg)
	case ViewProjectDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleLibraryKey(msg)
	}
}

func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While typing a filter every key belongs to the list
	if m.projectList.FilterState() == list.Filtering {
		return m.updateComponents(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true
		return m, nil
	case key.Matches(msg, m.keys.ExpandHelp):
		m.showExpandedHelp = !m.showExpandedHelp
		return m, nil
	case key.Matches(msg, m.keys.New):
		m.presetModal.Show()
		return m, nil
	case key.Matches(msg, m.keys.Import):
		m.pathModal.Show(PathImportPack)
		return m, nil
	}

	p, ok := m.highlighted()
	if !ok {
		return m.updateComponents(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Enter):
		m.openDetail(p)
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.selected = &p
		m.openForm(NewEditForm(p))
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.selected = &p
		m.deleteConfirm = true
		return m, nil
	case key.Matches(msg, m.keys.Duplicate):
		return m.duplicate(p)
	case key.Matches(msg, m.keys.SetActive):
		return m.setActive(p)
	case key.Matches(msg, m.keys.ExportPack):
		return m.exportPack(p)
	}

	return m.updateComponents(msg)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := *m.selected

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.viewMode = ViewLibrary
		m.resize(m.width, m.height)
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true
		return m, nil
	case key.Matches(msg, m.keys.ExpandHelp):
		m.showExpandedHelp = !m.showExpandedHelp
		return m, nil
	case key.Matches(msg, m.keys.NextKind):
		m.kind = (m.kind + 1) % len(renderer.AllKinds())
		m.renderPreview()
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.PrevKind):
		n := len(renderer.AllKinds())
		m.kind = (m.kind + n - 1) % n
		m.renderPreview()
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m.copy(m.renderedContent, "Copied "+string(m.currentKind())+" prompt to clipboard!")
	case key.Matches(msg, m.keys.CopyJSON):
		content, err := renderer.NewRenderer(p).RenderMessages(m.currentKind())
		if err != nil {
			return m.withError(err)
		}
		return m.copy(content, "Copied as JSON to clipboard!")
	case key.Matches(msg, m.keys.Export):
		return m.exportText(p)
	case key.Matches(msg, m.keys.ExportPack):
		return m.exportPack(p)
	case key.Matches(msg, m.keys.Edit):
		m.openForm(NewEditForm(p))
		return m, nil
	case key.Matches(msg, m.keys.SetActive):
		return m.setActive(p)
	case key.Matches(msg, m.keys.AddImage):
		m.pathModal.Show(PathAddImage)
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		m.deleteConfirm = true
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.form = nil
		m.viewMode = m.formReturn
		m.resize(m.width, m.height)
		return m.withStatus("Discarded changes", ColorTextMuted)
	}

	cmd := m.form.Update(msg)
	if !m.form.IsSubmitted() {
		return m, cmd
	}

	form := m.form
	m.form = nil
	patch := form.Patch()

	if form.IsEditing() {
		id := form.ProjectID()
		if _, err := m.service.Update(id, patch); err != nil {
			m.viewMode = m.formReturn
			return m.withError(err)
		}
		m.refresh()
		if m.formReturn == ViewProjectDetail {
			if updated, ok := m.service.Get(id); ok {
				m.openDetail(updated)
			}
		} else {
			m.viewMode = ViewLibrary
		}
		m.resize(m.width, m.height)
		return m.withStatus("Saved project", ColorSuccess)
	}

	created, err := m.service.Create(patch)
	if err != nil {
		m.viewMode = m.formReturn
		return m.withError(err)
	}
	m.refresh()
	m.selectInList(created.ID)
	m.openDetail(created)
	return m.withStatus("Created project: "+created.DisplayTitle(), ColorSuccess)
}

func (m Model) handlePath(purpose PathPurpose, path string) (tea.Model, tea.Cmd) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.FileNotFoundError(path, err)
		} else {
			err = errors.StorageError("read file", err)
		}
		m.pathModal.SetError(m.errHandler.FormatError(err))
		return m, nil
	}

	switch purpose {
	case PathAddImage:
		if m.selected == nil {
			return m, nil
		}
		img, err := models.NewReferenceImage(filepath.Base(path), data)
		if err != nil {
			m.pathModal.SetError(m.errHandler.FormatError(err))
			return m, nil
		}
		if _, err := m.service.AddImage(m.selected.ID, img); err != nil {
			return m.withError(err)
		}
		m.refresh()
		return m.withStatus("Added image: "+img.Name, ColorSuccess)

	default:
		imported, err := m.service.ImportPackData(data)
		if err != nil {
			m.pathModal.SetError(m.errHandler.FormatError(err))
			return m, nil
		}
		m.refresh()
		m.selectInList(imported.ID)
		return m.withStatus("Imported project: "+imported.DisplayTitle(), ColorSuccess)
	}
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewLibrary:
		m.projectList, cmd = m.projectList.Update(msg)
	case ViewProjectDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	case ViewForm:
		if m.form != nil {
			cmd = m.form.Update(msg)
		}
	}
	return m, cmd
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	if m.selected == nil {
		return m, nil
	}
	p := *m.selected
	if _, err := m.service.Delete(p.ID); err != nil {
		return m.withError(err)
	}
	m.selected = nil
	m.viewMode = ViewLibrary
	m.refresh()
	m.resize(m.width, m.height)
	return m.withStatus("Deleted project: "+p.DisplayTitle(), ColorSuccess)
}

func (m Model) duplicate(p models.Project) (tea.Model, tea.Cmd) {
	dup, ok, err := m.service.Duplicate(p.ID)
	if err != nil {
		return m.withError(err)
	}
	if !ok {
		return m.withError(errors.NotFoundError("project " + p.ID))
	}
	m.refresh()
	m.selectInList(dup.ID)
	return m.withStatus("Duplicated as "+dup.DisplayTitle(), ColorSuccess)
}

func (m Model) setActive(p models.Project) (tea.Model, tea.Cmd) {
	if err := m.service.SetActive(p.ID); err != nil {
		return m.withError(err)
	}
	m.refresh()
	return m.withStatus("Active project: "+p.DisplayTitle(), ColorSuccess)
}

func (m Model) copy(content, success string) (tea.Model, tea.Cmd) {
	if err := clipboard.Copy(content); err != nil {
		return m.withError(err)
	}
	return m.withStatus(success, ColorSuccess)
}

func (m Model) exportText(p models.Project) (tea.Model, tea.Cmd) {
	path, err := storage.WriteExport(m.opts.ExportDir, renderer.TextFilename(p, m.currentKind()), []byte(m.renderedContent))
	if err != nil {
		return m.withError(errors.StorageError("write export", err))
	}
	return m.withStatus("Exported "+path, ColorSuccess)
}

func (m Model) exportPack(p models.Project) (tea.Model, tea.Cmd) {
	pk, err := m.service.ExportPack(p.ID)
	if err != nil {
		return m.withError(err)
	}
	data, err := pack.Serialize(pk)
	if err != nil {
		return m.withError(errors.Wrap(err, errors.ErrCodeInternalError, "Failed to encode pack"))
	}
	path, err := storage.WriteExport(m.opts.ExportDir, pack.Filename(p), data)
	if err != nil {
		return m.withError(errors.StorageError("write export", err))
	}
	return m.withStatus("Exported "+path, ColorSuccess)
}

func (m Model) withStatus(text string, color lipgloss.Color) (tea.Model, tea.Cmd) {
	cmd := m.setStatus(text, color)
	return m, cmd
}

func (m Model) withError(err error) (tea.Model, tea.Cmd) {
	cmd := m.setError(err)
	return m, cmd
}

func (m *Model) setStatus(text string, color lipgloss.Color) tea.Cmd {
	m.statusMsg = text
	m.statusColor = color
	m.statusTimeout = 3
	return clearStatusCmd()
}

func (m *Model) setError(err error) tea.Cmd {
	appErr := m.errHandler.HandleError(err)
	icon, hex := m.errHandler.GetErrorStyle(appErr)
	cmd := m.setStatus(icon+" "+m.errHandler.FormatError(appErr), lipgloss.Color(hex))
	m.statusTimeout = 5
	return cmd
}

func (m *Model) openDetail(p models.Project) {
	m.selected = &p
	m.viewMode = ViewProjectDetail
	m.resize(m.width, m.height)
	m.renderPreview()
	m.viewport.GotoTop()
}

func (m *Model) openForm(f *ProjectForm) {
	m.formReturn = m.viewMode
	m.form = f
	m.viewMode = ViewForm
	m.resize(m.width, m.height)
}

func (m Model) currentKind() renderer.Kind {
	return renderer.AllKinds()[m.kind]
}

// highlighted is the project under the list cursor
func (m Model) highlighted() (models.Project, bool) {
	item, ok := m.projectList.SelectedItem().(projectItem)
	if !ok {
		return models.Project{}, false
	}
	return item.project, true
}

// refresh reloads the list from the service and keeps the detail view on the
// same project
func (m *Model) refresh() {
	cursor := ""
	if p, ok := m.highlighted(); ok {
		cursor = p.ID
	}
	m.setProjects(m.service.List(), m.service.ActiveID())
	m.selectInList(cursor)

	if m.selected != nil {
		if p, ok := m.service.Get(m.selected.ID); ok {
			m.selected = &p
			if m.viewMode == ViewProjectDetail {
				m.renderPreview()
			}
		}
	}
}

func (m *Model) setProjects(projects []models.Project, activeID string) {
	m.projects = projects
	m.activeID = activeID
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{project: p, active: p.ID == activeID}
	}
	m.projectList.SetItems(items)
}

func (m *Model) selectInList(id string) {
	for i, p := range m.projects {
		if p.ID == id {
			m.projectList.Select(i)
			return
		}
	}
}

func (m *Model) resize(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	m.width = width
	m.height = height

	// title, help, status and margins
	const reserved = 8
	available := max(height-reserved, 5)

	m.projectList.SetSize(width, available)
	m.presetModal.SetSize(width, height)
	m.pathModal.Resize(width, height)
	if m.form != nil {
		m.form.Resize(width, available)
	}

	vpWidth := max(width-10, 40)
	if vpWidth != m.viewport.Width {
		if r, err := NewPreviewRenderer(m.opts.PreviewStyle, vpWidth); err == nil {
			m.glamourRenderer = r
		}
	}
	m.viewport.Width = vpWidth
	m.viewport.Height = max(available-4, 3)

	if m.viewMode == ViewProjectDetail && m.selected != nil {
		m.renderPreview()
	}
}

// renderPreview renders the selected project's current prompt kind
func (m *Model) renderPreview() {
	if m.selected == nil {
		return
	}

	rendered, err := renderer.NewRenderer(*m.selected).Render(m.currentKind())
	if err != nil {
		m.logger.Error("render failed", zap.Error(err))
		rendered = ""
	}

	formatted, err := m.glamourRenderer.Render(rendered)
	if err != nil {
		formatted = rendered
	}

	m.renderedContent = rendered
	m.viewport.SetContent(formatted)
}

// View renders the TUI
func (m Model) View() string {
	if m.showHelpModal {
		return m.renderHelpModal()
	}
	if m.presetModal.IsActive() {
		return m.presetModal.View()
	}
	if m.pathModal.IsActive() {
		return m.pathModal.View()
	}
	if m.deleteConfirm && m.selected != nil {
		return m.renderDeleteConfirm()
	}

	var mainView string
	switch m.viewMode {
	case ViewProjectDetail:
		mainView = m.renderDetailView()
	case ViewForm:
		mainView = m.renderFormView()
	default:
		mainView = m.renderLibraryView()
	}

	if m.statusMsg != "" {
		status := lipgloss.NewStyle().Foreground(m.statusColor).Bold(true).Padding(0, 1).Render(m.statusMsg)
		mainView = lipgloss.JoinVertical(lipgloss.Left, mainView, status)
	}
	return AddMainPadding(mainView)
}

func (m Model) renderLibraryView() string {
	elements := []string{CreateHeader("Pocket KDP Projects")}

	switch {
	case m.loading:
		elements = append(elements, StyleInfo.Render("⏳ Loading projects..."))
	case len(m.projects) == 0:
		elements = append(elements, "", StyleTextMuted.Render("No projects yet. Press n to create one or i to import a pack."), "")
	default:
		elements = append(elements, m.projectList.View())
	}

	essential := []string{"enter open • n new • e edit • s set active"}
	additional := []string{"/ filter • D duplicate • d delete • p export pack • i import pack", "? help • q quit"}
	elements = append(elements, CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width))

	return lipgloss.JoinVertical(lipgloss.Left, elements...)
}

func (m Model) renderDetailView() string {
	if m.selected == nil {
		return "No project selected"
	}
	p := *m.selected

	title := p.DisplayTitle()
	if p.ID == m.activeID {
		title += " ●"
	}

	meta := []string{"ID: " + shortID(p.ID)}
	if p.BookCategory != "" {
		meta = append(meta, p.BookCategory)
	}
	meta = append(meta, p.Language.DisplayName())
	if n := len(p.ReferenceImages); n > 0 {
		meta = append(meta, fmt.Sprintf("%d reference images", n))
	}
	meta = append(meta, "Last edited: "+p.UpdatedAt.Local().Format("2006-01-02 15:04"))

	labels := make([]string, 0, len(renderer.AllKinds()))
	for _, k := range renderer.AllKinds() {
		labels = append(labels, strings.ToUpper(string(k[:1]))+string(k[1:]))
	}

	top, bottom := CreateScrollIndicators(!m.viewport.AtTop(), !m.viewport.AtBottom())
	content := StyleContent.Render(lipgloss.JoinVertical(lipgloss.Left, top, m.viewport.View(), bottom))

	essential := []string{"tab next prompt • c copy • x export • Esc back"}
	additional := []string{"y copy as JSON • p export pack • e edit • a add image", "s set active • d delete • ? help • q quit"}

	return lipgloss.JoinVertical(lipgloss.Left,
		CreateHeader(title),
		CreateMetadata(strings.Join(meta, " • ")),
		CreateKindTabs(labels, m.kind),
		content,
		CreateContextualHelp(essential, additional, m.showExpandedHelp, m.width),
	)
}

func (m Model) renderFormView() string {
	if m.form == nil {
		return ""
	}
	header := "New Project"
	if m.form.IsEditing() {
		header = "Edit Project"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		CreateHeader(header),
		"",
		m.form.View(),
		"",
		StyleFormHelp.Render("Tab/↓ next field • Shift+Tab/↑ previous • Ctrl+s save • Esc cancel"),
	)
}

func (m Model) renderDeleteConfirm() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		StyleError.Render("Delete project?"),
		"",
		StyleText.Render(m.selected.DisplayTitle()),
		"",
		StyleTextDim.Render("y: delete • n: keep"),
	)
	return CenterModal(StyleModal.Render(content), m.width, m.height)
}

func (m Model) renderHelpModal() string {
	m.help.ShowAll = true
	m.help.Width = min(70, max(m.width-8, 20))
	content := lipgloss.JoinVertical(lipgloss.Left,
		StyleSubtitle.Render("Keyboard Shortcuts"),
		"",
		m.help.View(m.keys),
		"",
		StyleTextDim.Render("Press ? or Esc to close"),
	)
	return CenterModal(StyleModal.Render(content), m.width, m.height)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
