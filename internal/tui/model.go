package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/orionledger/internal/app"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenInvoiceForm Screen = iota
	ScreenClients
	ScreenInvoices
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenInvoiceForm:
		return "New Invoice"
	case ScreenClients:
		return "Clients"
	case ScreenInvoices:
		return "Invoices"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	form     tea.Model
	clients  tea.Model
	invoices tea.Model
	settings tea.Model

	// First-run state
	checkedFirstRun bool

	// Error state
	err       error
	quitMsg   string // shown when quit is blocked
	quitArmed bool
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenInvoiceForm,
		form:          NewInvoiceFormModel(a),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkFirstRun(), m.form.Init())
}

// checkFirstRun checks if any clients exist in the database
func (m *Model) checkFirstRun() tea.Cmd {
	return func() tea.Msg {
		clients, err := m.app.Clients.List(context.Background())
		if err != nil {
			return firstRunCheckMsg{hasClients: true} // assume yes on error
		}
		return firstRunCheckMsg{hasClients: len(clients) > 0}
	}
}

func refresh() tea.Msg { return RefreshDataMsg{} }

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	switch screen {
	case ScreenInvoiceForm:
		if m.form == nil {
			m.form = NewInvoiceFormModel(m.app)
			return m.form.Init()
		}
	case ScreenClients:
		if m.clients == nil {
			m.clients = NewClientsModel(m.app)
			return m.clients.Init()
		}
	case ScreenInvoices:
		if m.invoices == nil {
			m.invoices = NewInvoicesModel(m.app)
			return m.invoices.Init()
		}
	case ScreenSettings:
		if m.settings == nil {
			m.settings = NewSettingsModel(m.app)
			return m.settings.Init()
		}
	default:
		return nil
	}
	return refresh
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys (F, C, I, Q) are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// Dirtier is implemented by screens holding edits that quitting would lose
type Dirtier interface {
	IsDirty() bool
}

func (m *Model) screen(s Screen) tea.Model {
	switch s {
	case ScreenInvoiceForm:
		return m.form
	case ScreenClients:
		return m.clients
	case ScreenInvoices:
		return m.invoices
	case ScreenSettings:
		return m.settings
	}
	return nil
}

func (m *Model) setScreen(s Screen, model tea.Model) {
	switch s {
	case ScreenInvoiceForm:
		m.form = model
	case ScreenClients:
		m.clients = model
	case ScreenInvoices:
		m.invoices = model
	case ScreenSettings:
		m.settings = model
	}
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screen(m.currentScreen).(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

func (m *Model) switchTo(s Screen) tea.Cmd {
	m.currentScreen = s
	m.err = nil
	return m.initScreen(s)
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Clear quit warning on any keypress
		m.quitMsg = ""

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				if d, ok := m.form.(Dirtier); ok && d.IsDirty() && !m.quitArmed {
					m.quitArmed = true
					m.quitMsg = "The invoice form has unsaved changes. Press q again to quit."
					return m, nil
				}
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Form):
				return m, m.switchTo(ScreenInvoiceForm)

			case key.Matches(msg, DefaultKeyMap.Clients):
				return m, m.switchTo(ScreenClients)

			case key.Matches(msg, DefaultKeyMap.Invoices):
				return m, m.switchTo(ScreenInvoices)

			case key.Matches(msg, DefaultKeyMap.Settings):
				return m, m.switchTo(ScreenSettings)
			}
		}
		m.quitArmed = false

	case firstRunCheckMsg:
		if !m.checkedFirstRun && !msg.hasClients {
			m.checkedFirstRun = true
			initCmd := m.switchTo(ScreenClients)
			openFormCmd := func() tea.Msg { return OpenNewClientFormMsg{} }
			return m, tea.Sequence(initCmd, openFormCmd)
		}
		m.checkedFirstRun = true
		return m, nil

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	if screen := m.screen(m.currentScreen); screen != nil {
		screen, cmd = screen.Update(msg)
		m.setScreen(m.currentScreen, screen)
	}

	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("%s - %s", m.app.Config.Invoice.Title, m.currentScreen.String()))
	footer := footerStyle.Render("[F]orm  [C]lients  [I]nvoices  [,] Settings  [Q]uit")

	content := "Loading..."
	if screen := m.screen(m.currentScreen); screen != nil {
		content = screen.View()
	}

	// Error/warning display
	errorDisplay := ""
	if m.quitMsg != "" {
		errorDisplay = lipgloss.NewStyle().
			Foreground(warningColor).
			Render(fmt.Sprintf("\n%s", m.quitMsg))
	} else if m.err != nil {
		errorDisplay = errorStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
