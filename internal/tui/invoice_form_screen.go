package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/orionledger/internal/app"
	"github.com/andy/orionledger/internal/domain"
	"github.com/andy/orionledger/internal/service"
)

// form field indices; item fields follow, three per row
const (
	invFieldClient = iota
	invFieldCurrency
	invFieldPayment
	invFieldItems
)

// item columns
const (
	itemColDescription = iota
	itemColQuantity
	itemColPrice
	itemColCount
)

type itemInputs [itemColCount]textinput.Model

// InvoiceFormModel is the invoice composer: client selector, payment
// details, item rows with live totals, and save.
type InvoiceFormModel struct {
	app     *app.App
	session *service.Session
	clients []*domain.Client

	currency textinput.Model
	payment  textarea.Model
	items    []itemInputs

	focus     int
	editing   bool
	dirty     bool
	saving    bool
	loading   bool
	err       error
	statusMsg string
}

type sessionReadyMsg struct {
	session *service.Session
	clients []*domain.Client
	err     error
}

type formClientsMsg struct {
	clients []*domain.Client
	preview string
	err     error
}

type invoiceSavedMsg struct {
	result *service.CommitResult
	err    error
}

// NewInvoiceFormModel creates the invoice form screen
func NewInvoiceFormModel(a *app.App) tea.Model {
	m := &InvoiceFormModel{
		app:     a,
		loading: true,
	}

	m.currency = textinput.New()
	m.currency.Placeholder = "INR"
	m.currency.CharLimit = 8
	m.currency.Width = 8

	m.payment = textarea.New()
	m.payment.Placeholder = "Bank / UPI details"
	m.payment.ShowLineNumbers = false
	m.payment.SetWidth(50)
	m.payment.SetHeight(3)

	return m
}

// IsCapturingInput returns true while a field is being edited
func (m *InvoiceFormModel) IsCapturingInput() bool {
	return m.editing
}

// IsDirty reports edits made since the last save or reset
func (m *InvoiceFormModel) IsDirty() bool {
	return m.dirty
}

func (m *InvoiceFormModel) Init() tea.Cmd {
	return m.newSession()
}

func (m *InvoiceFormModel) newSession() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		session, err := m.app.NewSession(ctx)
		if err != nil {
			return sessionReadyMsg{err: err}
		}

		clients, err := m.app.Clients.List(ctx)
		return sessionReadyMsg{session: session, clients: clients, err: err}
	}
}

func (m *InvoiceFormModel) reloadClients() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		clients, err := m.app.Clients.List(ctx)
		if err != nil {
			return formClientsMsg{err: err}
		}

		preview, err := m.app.Sequence.PeekNext(ctx)
		return formClientsMsg{clients: clients, preview: preview, err: err}
	}
}

func (m *InvoiceFormModel) save() tea.Cmd {
	m.saving = true
	m.err = nil
	m.statusMsg = ""
	session := m.session
	persister := m.app.Persister
	return func() tea.Msg {
		result, err := persister.Commit(context.Background(), session)
		return invoiceSavedMsg{result: result, err: err}
	}
}

// loadSession rebuilds the inputs from the session state
func (m *InvoiceFormModel) loadSession(s *service.Session) {
	m.session = s
	m.currency.SetValue(s.Currency)
	m.payment.SetValue(s.PaymentDetails)

	m.items = nil
	for _, row := range s.Composer.Rows() {
		m.items = append(m.items, newItemInputs(row))
	}

	m.focus = invFieldClient
	m.dirty = false
	m.blurAll()
	if m.editing {
		m.focusField()
	}
}

func newItemInputs(row service.ItemRow) itemInputs {
	var in itemInputs

	in[itemColDescription] = textinput.New()
	in[itemColDescription].Placeholder = "Description"
	in[itemColDescription].CharLimit = 120
	in[itemColDescription].Width = 30
	in[itemColDescription].SetValue(row.Description)

	in[itemColQuantity] = textinput.New()
	in[itemColQuantity].Placeholder = "1"
	in[itemColQuantity].CharLimit = 12
	in[itemColQuantity].Width = 8
	in[itemColQuantity].SetValue(row.Quantity)

	in[itemColPrice] = textinput.New()
	in[itemColPrice].Placeholder = "0.00"
	in[itemColPrice].CharLimit = 16
	in[itemColPrice].Width = 12
	in[itemColPrice].SetValue(row.UnitPrice)

	return in
}

func (m *InvoiceFormModel) fieldCount() int {
	return invFieldItems + len(m.items)*itemColCount
}

// itemAt maps a focus index to an item row and column
func itemAt(focus int) (row, col int, ok bool) {
	if focus < invFieldItems {
		return 0, 0, false
	}
	i := focus - invFieldItems
	return i / itemColCount, i % itemColCount, true
}

func (m *InvoiceFormModel) blurAll() {
	m.currency.Blur()
	m.payment.Blur()
	for r := range m.items {
		for c := range m.items[r] {
			m.items[r][c].Blur()
		}
	}
}

func (m *InvoiceFormModel) focusField() tea.Cmd {
	m.blurAll()
	switch m.focus {
	case invFieldClient:
		return nil
	case invFieldCurrency:
		return m.currency.Focus()
	case invFieldPayment:
		return m.payment.Focus()
	}
	if r, c, ok := itemAt(m.focus); ok && r < len(m.items) {
		return m.items[r][c].Focus()
	}
	return nil
}

func (m *InvoiceFormModel) moveFocus(delta int) tea.Cmd {
	n := m.fieldCount()
	m.focus = (m.focus + delta + n) % n
	return m.focusField()
}

// selectedIndex is the position of the selected client in the list, or -1
func (m *InvoiceFormModel) selectedIndex() int {
	if m.session == nil {
		return -1
	}
	for i, c := range m.clients {
		if strconv.FormatInt(c.ID, 10) == m.session.ClientID {
			return i
		}
	}
	return -1
}

func (m *InvoiceFormModel) cycleClient(delta int) {
	if len(m.clients) == 0 {
		return
	}
	i := m.selectedIndex()
	if i < 0 {
		if delta > 0 {
			i = 0
		} else {
			i = len(m.clients) - 1
		}
	} else {
		i = (i + delta + len(m.clients)) % len(m.clients)
	}
	m.session.ClientID = strconv.FormatInt(m.clients[i].ID, 10)
	m.dirty = true
}

func (m *InvoiceFormModel) addItem() tea.Cmd {
	m.session.Composer.AddItem()
	m.items = append(m.items, newItemInputs(service.ItemRow{}))
	m.focus = invFieldItems + (len(m.items)-1)*itemColCount
	m.dirty = true
	return m.focusField()
}

func (m *InvoiceFormModel) removeItem() tea.Cmd {
	r, _, ok := itemAt(m.focus)
	if !ok || !m.session.Composer.RemoveItem(r) {
		return nil
	}
	m.items = append(m.items[:r], m.items[r+1:]...)
	m.dirty = true
	if m.focus >= m.fieldCount() {
		m.focus = m.fieldCount() - 1
	}
	return m.focusField()
}

// syncField copies the focused input into the session
func (m *InvoiceFormModel) syncField() {
	switch m.focus {
	case invFieldCurrency:
		m.session.Currency = strings.TrimSpace(m.currency.Value())
		return
	case invFieldPayment:
		m.session.PaymentDetails = m.payment.Value()
		return
	}

	r, c, ok := itemAt(m.focus)
	if !ok || r >= len(m.items) {
		return
	}
	v := m.items[r][c].Value()
	switch c {
	case itemColDescription:
		m.session.Composer.SetDescription(r, v)
	case itemColQuantity:
		m.session.Composer.SetQuantity(r, v)
	case itemColPrice:
		m.session.Composer.SetUnitPrice(r, v)
	}
}

func (m *InvoiceFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionReadyMsg:
		m.loading = false
		m.err = msg.err
		if msg.session != nil {
			m.clients = msg.clients
			m.loadSession(msg.session)
		}
		return m, m.focusField()

	case RefreshDataMsg:
		return m, m.reloadClients()

	case formClientsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.clients = msg.clients
		if m.session != nil && !m.saving {
			m.session.Preview = msg.preview
		}
		return m, nil

	case invoiceSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		inv := msg.result.Invoice
		if msg.result.NextPreview != "" {
			m.session.Preview = msg.result.NextPreview
		}
		m.dirty = false
		if msg.result.ExportErr != nil {
			m.err = fmt.Errorf("invoice %s saved, but the PDF was not written: %w", inv.OrderID, msg.result.ExportErr)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Invoice %s saved to %s", inv.OrderID, msg.result.DocumentPath)
		return m, nil

	case tea.KeyMsg:
		if m.loading || m.session == nil {
			return m, nil
		}
		if m.saving {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *InvoiceFormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Save):
		return m, m.save()

	case key.Matches(msg, DefaultKeyMap.NewInvoice):
		m.err = nil
		m.statusMsg = ""
		if err := m.session.Reset(context.Background(), m.app.Sequence, timeNow()); err != nil {
			m.err = err
			return m, nil
		}
		m.loadSession(m.session)
		return m, m.focusField()
	}

	if !m.editing {
		switch {
		case key.Matches(msg, DefaultKeyMap.Select), key.Matches(msg, DefaultKeyMap.Edit):
			m.editing = true
			m.statusMsg = ""
			return m, m.focusField()
		case key.Matches(msg, DefaultKeyMap.AddItem):
			m.editing = true
			return m, m.addItem()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.editing = false
		m.blurAll()
		return m, nil

	case key.Matches(msg, DefaultKeyMap.NextField):
		return m, m.moveFocus(1)

	case key.Matches(msg, DefaultKeyMap.PrevField):
		return m, m.moveFocus(-1)

	case key.Matches(msg, DefaultKeyMap.AddItem):
		return m, m.addItem()

	case key.Matches(msg, DefaultKeyMap.RemoveItem):
		return m, m.removeItem()
	}

	if m.focus == invFieldClient {
		switch msg.String() {
		case "left", "up":
			m.cycleClient(-1)
		case "right", "down", " ":
			m.cycleClient(1)
		case "enter":
			return m, m.moveFocus(1)
		}
		return m, nil
	}

	// Enter moves on, except inside the multi-line payment field
	if msg.String() == "enter" && m.focus != invFieldPayment {
		return m, m.moveFocus(1)
	}

	var cmd tea.Cmd
	switch m.focus {
	case invFieldCurrency:
		m.currency, cmd = m.currency.Update(msg)
	case invFieldPayment:
		m.payment, cmd = m.payment.Update(msg)
	default:
		if r, c, ok := itemAt(m.focus); ok && r < len(m.items) {
			m.items[r][c], cmd = m.items[r][c].Update(msg)
		}
	}
	m.syncField()
	m.dirty = true
	return m, cmd
}

func (m *InvoiceFormModel) selectedClient() *domain.Client {
	if i := m.selectedIndex(); i >= 0 {
		return m.clients[i]
	}
	return nil
}

func (m *InvoiceFormModel) label(field int, text string) string {
	if m.editing && m.focus == field {
		return "> " + focusedLabel.Render(text)
	}
	return "  " + subtitleStyle.Render(text)
}

func (m *InvoiceFormModel) View() string {
	if m.loading {
		return "Preparing invoice form..."
	}
	if m.session == nil {
		if m.err != nil {
			return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
		}
		return "No invoice session"
	}

	var b strings.Builder
	s := m.session

	fmt.Fprintf(&b, "%s %s    %s %s\n\n",
		subtitleStyle.Render("Order ID:"), orderIDStyle.Render(s.Preview),
		subtitleStyle.Render("Date:"), s.Date)

	// Client selector
	clientName := "Select a client"
	if c := m.selectedClient(); c != nil {
		clientName = c.Name
	} else if s.ClientID != "" {
		clientName = "Client #" + s.ClientID
	}
	if len(m.clients) == 0 {
		clientName = "No clients yet, press c to add one"
	}
	fmt.Fprintf(&b, "%s\n    ◀ %s ▶\n", m.label(invFieldClient, "Client:"), clientName)
	if details := clientDetails(m.selectedClient(), s.ClientID != ""); len(details) > 0 {
		b.WriteString(boxStyle.Render(strings.Join(details, "\n")) + "\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s\n  %s\n\n", m.label(invFieldCurrency, "Currency:"), m.currency.View())
	fmt.Fprintf(&b, "%s\n%s\n\n", m.label(invFieldPayment, "Payment Details:"), m.payment.View())

	// Items
	b.WriteString(titleStyle.Render("Items") + "\n")
	fmt.Fprintf(&b, "    %-32s %-10s %-14s %12s\n", "Description", "Qty", "Unit Price", "Line Total")
	if len(m.items) == 0 {
		b.WriteString(subtitleStyle.Render("    No items. Press ctrl+a to add one.") + "\n")
	}
	for r, in := range m.items {
		indicator := "  "
		if row, _, ok := itemAt(m.focus); ok && m.editing && row == r {
			indicator = "> "
		}
		fmt.Fprintf(&b, "%s%d %s %s %s %12s\n",
			indicator, r+1,
			in[itemColDescription].View(),
			in[itemColQuantity].View(),
			in[itemColPrice].View(),
			domain.FormatAmount(s.Composer.LineTotal(r)),
		)
	}

	fmt.Fprintf(&b, "\n  %s %s\n", subtitleStyle.Render("Total Due:"),
		totalStyle.Render(formatMoney(s.Currency, s.Composer.RecomputeTotal())))

	if m.saving {
		b.WriteString("\n  Saving...\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n" + statusStyle.Render("  ✓ "+m.statusMsg) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("  "+m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	if m.editing {
		b.WriteString(helpStyle.Render("  tab/shift+tab: fields  ←/→: client  ctrl+a: add item  ctrl+d: remove item  ctrl+s: save  esc: done"))
	} else {
		b.WriteString(helpStyle.Render("  enter: edit  ctrl+a: add item  ctrl+s: save  ctrl+n: new invoice"))
	}

	return b.String()
}
