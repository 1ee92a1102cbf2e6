package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Enter      key.Binding
	Back       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	ExpandHelp key.Binding
	Filter     key.Binding
	NextKind   key.Binding
	PrevKind   key.Binding
	Copy       key.Binding
	CopyJSON   key.Binding
	Export     key.Binding
	ExportPack key.Binding
	Import     key.Binding
	New        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Duplicate  key.Binding
	SetActive  key.Binding
	AddImage   key.Binding
}

// ShortHelp returns keybindings to show in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings to show in the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back, k.Filter},
		{k.New, k.Edit, k.Duplicate, k.Delete, k.SetActive},
		{k.NextKind, k.PrevKind, k.Copy, k.CopyJSON, k.AddImage},
		{k.Export, k.ExportPack, k.Import, k.Help, k.Quit},
	}
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	ExpandHelp: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("Ctrl+g", "expand help"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	NextKind: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("Tab/→", "next prompt"),
	),
	PrevKind: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("Shift+Tab/←", "previous prompt"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	CopyJSON: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy as JSON"),
	),
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export prompt"),
	),
	ExportPack: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "export pack"),
	),
	Import: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "import pack"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new project"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "duplicate"),
	),
	SetActive: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "set active"),
	),
	AddImage: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add image"),
	),
}
