package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/orionledger/internal/app"
	"github.com/andy/orionledger/internal/config"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldPrefix = iota
	settingsFieldCurrency
	settingsFieldOutputDir
	settingsFieldCount
)

type settingsSavedMsg struct {
	cfg *config.Config
	err error
}

// SettingsModel manages the settings screen
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() {
	m.fields = make([]textinput.Model, settingsFieldCount)
	cfg := m.app.Config.Invoice

	// Order id prefix
	m.fields[settingsFieldPrefix] = textinput.New()
	m.fields[settingsFieldPrefix].Placeholder = "BCMP-25"
	m.fields[settingsFieldPrefix].CharLimit = 20
	m.fields[settingsFieldPrefix].Width = 20
	m.fields[settingsFieldPrefix].SetValue(cfg.NumberPrefix)

	// Default currency for new invoices
	m.fields[settingsFieldCurrency] = textinput.New()
	m.fields[settingsFieldCurrency].Placeholder = "INR"
	m.fields[settingsFieldCurrency].CharLimit = 8
	m.fields[settingsFieldCurrency].Width = 10
	m.fields[settingsFieldCurrency].SetValue(cfg.Currency)

	// Output directory
	m.fields[settingsFieldOutputDir] = textinput.New()
	m.fields[settingsFieldOutputDir].Placeholder = "/path/to/invoices"
	m.fields[settingsFieldOutputDir].CharLimit = 256
	m.fields[settingsFieldOutputDir].Width = 60
	m.fields[settingsFieldOutputDir].SetValue(cfg.OutputDir)

	m.fieldFocus = settingsFieldPrefix
	m.fields[settingsFieldPrefix].Focus()
}

// saveSettings writes a copy of the config from the cmd goroutine. The app
// only switches to it in Update.
func (m *SettingsModel) saveSettings() tea.Cmd {
	cfg := *m.app.Config
	cfg.Invoice.NumberPrefix = strings.TrimSpace(m.fields[settingsFieldPrefix].Value())
	cfg.Invoice.Currency = strings.TrimSpace(m.fields[settingsFieldCurrency].Value())
	cfg.Invoice.OutputDir = strings.TrimSpace(m.fields[settingsFieldOutputDir].Value())
	a := m.app

	return func() tea.Msg {
		if cfg.Invoice.NumberPrefix == "" {
			return settingsSavedMsg{err: fmt.Errorf("invoice prefix is required")}
		}
		if cfg.Invoice.OutputDir == "" {
			return settingsSavedMsg{err: fmt.Errorf("output directory is required")}
		}

		if err := a.WriteConfig(&cfg); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
		}
		return settingsSavedMsg{cfg: &cfg}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(settingsSavedMsg); ok {
		return m.applySaved(msg)
	}
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch {
		case msg.String() == "enter":
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()
		}
	}

	return m, nil
}

// applySaved switches the app to a config the save cmd wrote
func (m *SettingsModel) applySaved(msg settingsSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		return m, nil
	}
	m.app.ApplyConfig(msg.cfg)
	m.mode = settingsModeView
	m.err = nil
	m.statusMsg = "Settings saved. New invoices use them from now on."
	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	cfg := m.app.Config.Invoice

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)

	s += subtitleStyle.Render("  Invoice Settings") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Order ID Prefix:"), valueStyle.Render(cfg.NumberPrefix))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Currency:"), valueStyle.Render(cfg.Currency))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Output Directory:"), valueStyle.Render(cfg.OutputDir))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Database:"), valueStyle.Render(m.app.Config.Database.Path))

	s += "\n" + helpStyle.Render("  enter: edit settings")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	labels := []string{"Order ID Prefix:", "Currency:", "Output Directory:"}
	for i, label := range labels {
		indicator := "  "
		if i == m.fieldFocus {
			indicator = "> "
		}
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
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
