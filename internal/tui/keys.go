package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Navigation
	Form     key.Binding
	Clients  key.Binding
	Invoices key.Binding
	Settings key.Binding

	// Actions
	Select key.Binding
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Export key.Binding

	// Form editing
	Save       key.Binding
	AddItem    key.Binding
	RemoveItem key.Binding
	NewInvoice key.Binding
	NextField  key.Binding
	PrevField  key.Binding

	// Movement
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Form:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "invoice form")),
	Clients:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clients")),
	Invoices:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invoices")),
	Settings:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Export:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export pdf")),
	Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	AddItem:    key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "add item")),
	RemoveItem: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remove item")),
	NewInvoice: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new invoice")),
	NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
}
