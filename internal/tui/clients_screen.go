package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/orionledger/internal/app"
	"github.com/andy/orionledger/internal/domain"
)

// clientMode represents the current screen mode
type clientMode int

const (
	clientModeList clientMode = iota
	clientModeNew
	clientModeEdit
	clientModeConfirmDelete
)

// form field indices
const (
	fieldName = iota
	fieldAddress
	fieldEmail
	fieldPhone
	fieldCount
)

// ClientsModel displays a navigable list of clients with create/edit forms
type ClientsModel struct {
	app       *app.App
	clients   []*domain.Client
	cursor    int
	loading   bool
	err       error
	statusMsg string

	// Form state
	mode          clientMode
	fields        []textinput.Model
	fieldFocus    int
	editingID     int64 // 0 for new client
	autoNewClient bool  // open new client form after data loads
}

type clientsDataMsg struct {
	clients []*domain.Client
	err     error
}

type clientSavedMsg struct {
	name string
	err  error
}

type clientDeletedMsg struct {
	name string
	err  error
}

// NewClientsModel creates a new clients screen model
func NewClientsModel(a *app.App) tea.Model {
	return &ClientsModel{
		app:     a,
		loading: true,
	}
}

// IsCapturingInput returns true when the form or the delete prompt is active
func (m *ClientsModel) IsCapturingInput() bool {
	return m.mode != clientModeList
}

func (m *ClientsModel) Init() tea.Cmd {
	return m.loadClients()
}

func (m *ClientsModel) loadClients() tea.Cmd {
	return func() tea.Msg {
		clients, err := m.app.Clients.List(context.Background())
		return clientsDataMsg{clients: clients, err: err}
	}
}

func (m *ClientsModel) initForm(editing *domain.Client) {
	m.fields = make([]textinput.Model, fieldCount)

	m.fields[fieldName] = textinput.New()
	m.fields[fieldName].Placeholder = "Client name"
	m.fields[fieldName].CharLimit = 100
	m.fields[fieldName].Width = 40

	// Address lines are typed separated by " / " and stored one per line
	m.fields[fieldAddress] = textinput.New()
	m.fields[fieldAddress].Placeholder = "12 Lake Road / Chennai / India"
	m.fields[fieldAddress].CharLimit = 200
	m.fields[fieldAddress].Width = 50

	m.fields[fieldEmail] = textinput.New()
	m.fields[fieldEmail].Placeholder = "email@example.com"
	m.fields[fieldEmail].CharLimit = 100
	m.fields[fieldEmail].Width = 40

	m.fields[fieldPhone] = textinput.New()
	m.fields[fieldPhone].Placeholder = "+91 98400 00000"
	m.fields[fieldPhone].CharLimit = 30
	m.fields[fieldPhone].Width = 20

	// Pre-fill for editing
	if editing != nil {
		m.fields[fieldName].SetValue(editing.Name)
		m.fields[fieldAddress].SetValue(strings.ReplaceAll(editing.Address, "\n", " / "))
		m.fields[fieldEmail].SetValue(editing.Email)
		m.fields[fieldPhone].SetValue(editing.Phone)
		m.editingID = editing.ID
	} else {
		m.editingID = 0
	}

	m.fieldFocus = fieldName
	m.fields[fieldName].Focus()
}

// formAddress turns the single-line address field back into lines
func formAddress(v string) string {
	parts := strings.Split(v, "/")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *ClientsModel) saveClient() tea.Cmd {
	client := domain.NewClient(
		m.fields[fieldName].Value(),
		formAddress(m.fields[fieldAddress].Value()),
		m.fields[fieldEmail].Value(),
		m.fields[fieldPhone].Value(),
	)
	client.ID = m.editingID

	return func() tea.Msg {
		if err := m.app.Clients.Save(context.Background(), client); err != nil {
			return clientSavedMsg{err: err}
		}
		return clientSavedMsg{name: client.Name}
	}
}

func (m *ClientsModel) deleteClient(client *domain.Client) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Clients.Delete(context.Background(), client.ID); err != nil {
			return clientDeletedMsg{err: err}
		}
		return clientDeletedMsg{name: client.Name}
	}
}

func (m *ClientsModel) openForm(editing *domain.Client) tea.Cmd {
	if editing != nil {
		m.mode = clientModeEdit
	} else {
		m.mode = clientModeNew
	}
	m.err = nil
	m.initForm(editing)
	return m.fields[fieldName].Focus()
}

func (m *ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle OpenNewClientFormMsg at the top so it works regardless of mode
	if _, ok := msg.(OpenNewClientFormMsg); ok {
		if m.loading {
			// Data hasn't loaded yet; set flag to auto-open form when it does
			m.autoNewClient = true
			return m, nil
		}
		return m, m.openForm(nil)
	}

	switch m.mode {
	case clientModeNew, clientModeEdit:
		return m.updateForm(msg)
	case clientModeConfirmDelete:
		return m.updateConfirm(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadClients()

	case clientsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.clients = msg.clients
			if m.cursor >= len(m.clients) {
				m.cursor = max(0, len(m.clients)-1)
			}
		}
		// Auto-open new client form on first run
		if m.autoNewClient {
			m.autoNewClient = false
			return m, m.openForm(nil)
		}
		return m, nil

	case clientDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.name)
		m.loading = true
		return m, m.loadClients()

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		m.statusMsg = ""
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.clients)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.New):
			return m, m.openForm(nil)
		case key.Matches(msg, DefaultKeyMap.Select), key.Matches(msg, DefaultKeyMap.Edit):
			if m.cursor < len(m.clients) {
				return m, m.openForm(m.clients[m.cursor])
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if m.cursor < len(m.clients) {
				m.mode = clientModeConfirmDelete
			}
		}
	}

	return m, nil
}

func (m *ClientsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.mode = clientModeList
	switch keyMsg.String() {
	case "y", "Y":
		if m.cursor < len(m.clients) {
			return m, m.deleteClient(m.clients[m.cursor])
		}
	}
	m.statusMsg = "Delete cancelled"
	return m, nil
}

func (m *ClientsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clientSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = clientModeList
		m.statusMsg = fmt.Sprintf("Saved: %s", msg.name)
		m.loading = true
		return m, m.loadClients()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			// Cancel form
			m.mode = clientModeList
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % fieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + fieldCount) % fieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			// If on last field, save
			if m.fieldFocus == fieldCount-1 {
				return m, m.saveClient()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			// Save from any field
			return m, m.saveClient()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *ClientsModel) View() string {
	if m.mode == clientModeNew || m.mode == clientModeEdit {
		return m.viewForm()
	}
	return m.viewList()
}

func (m *ClientsModel) viewForm() string {
	var s string

	if m.mode == clientModeNew {
		if len(m.clients) == 0 {
			s += titleStyle.Render("Welcome to OrionLedger!") + "\n"
			s += subtitleStyle.Render("  Add your first client to start invoicing.") + "\n\n"
		} else {
			s += titleStyle.Render("New Client") + "\n\n"
		}
	} else {
		s += titleStyle.Render("Edit Client") + "\n\n"
	}

	labels := []string{"Name:", "Address (lines separated by /):", "Email:", "Phone:"}
	for i, label := range labels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			labelStyle = focusedLabel
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")

	return s
}

func (m *ClientsModel) viewList() string {
	if m.loading {
		return "Loading clients..."
	}

	var s string
	s += titleStyle.Render("Clients") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if len(m.clients) == 0 {
		s += subtitleStyle.Render("  No clients yet. Press 'n' to add one.") + "\n"
		return s
	}

	for i, client := range m.clients {
		s += m.renderClient(i, client) + "\n"
	}

	if m.mode == clientModeConfirmDelete && m.cursor < len(m.clients) {
		s += "\n" + lipgloss.NewStyle().Foreground(warningColor).Bold(true).
			Render(fmt.Sprintf("  Delete %s? Invoices already issued keep their copy of the id. [y/N]", m.clients[m.cursor].Name)) + "\n"
		return s
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  n: new  enter/e: edit  d: delete")

	return s
}

func (m *ClientsModel) renderClient(index int, client *domain.Client) string {
	selected := index == m.cursor

	indicator := "  "
	if selected {
		indicator = "> "
	}

	line1 := fmt.Sprintf("%s%s", indicator, client.Name)
	details := []string{}
	if client.Email != "" {
		details = append(details, client.Email)
	}
	if client.Phone != "" {
		details = append(details, client.Phone)
	}
	for _, l := range strings.Split(client.Address, "\n") {
		if l != "" {
			details = append(details, truncateStr(l, 40))
			break
		}
	}

	nameStyle := lipgloss.NewStyle()
	if selected {
		nameStyle = nameStyle.Bold(true).Foreground(primaryColor)
	}

	result := nameStyle.Render(line1)
	if len(details) > 0 {
		result += "\n" + subtitleStyle.Render("    "+strings.Join(details, "  |  "))
	}
	return result
}
