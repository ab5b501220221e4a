package view

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/birr/internal/transaction"
)

type Transactions interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Record, error)
	SettleWithdrawal(ctx context.Context, transactionID string) (*transaction.Record, error)
}

type listState int

const (
	listStateBrowse listState = iota
	listStateSettle
)

var (
	statusFilters = []transaction.Status{"", transaction.StatusPendingWithdrawal, transaction.StatusSuccess, transaction.StatusCompleted, transaction.StatusFailed}
	statusLabels  = []string{"All", "Pending Withdrawal", "Success", "Completed", "Failed"}
	typeFilters   = []transaction.Type{"", transaction.TypeDeposit, transaction.TypeWithdrawal, transaction.TypeTransfer}
	typeLabels    = []string{"All", "Deposit", "Withdrawal", "Transfer"}
)

// TransactionsModel browses the ledger and settles pending withdrawals.
type TransactionsModel struct {
	CommonModel
	txService Transactions

	state   listState
	table   table.Model
	records []*transaction.Record
	form    *huh.Form
	confirm *bool

	statusFilterIdx int
	typeFilterIdx   int

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string
}

func NewTransactionsModel(txSvc Transactions) TransactionsModel {
	columns := []table.Column{
		{Title: "Created", Width: 17},
		{Title: "Reference", Width: 28},
		{Title: "Type", Width: 10},
		{Title: "Status", Width: 18},
		{Title: "Chat", Width: 12},
		{Title: "Amount", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	// Opens on the payout queue.
	m := TransactionsModel{txService: txSvc, table: t, statusFilterIdx: 1, typeFilterIdx: 2, loading: true}
	m.applyFilter()

	return m
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	if m.state == listStateSettle {
		return "Confirm settlement | Esc: cancel"
	}

	return "Esc: back | Enter: settle withdrawal | f: status filter | t: type filter | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.records = msg.records
		m.refreshTable()

		return m, nil

	case settleMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error settling: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Settled %s", msg.transactionID)
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateSettle:
		return m.updateSettle(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "enter":
			return m.enterSettleMode()
		case "f":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.applyFilter()

			return m, m.loadCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilters)
			m.applyFilter()

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) selected() *transaction.Record {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return nil
	}

	return m.records[idx]
}

func (m TransactionsModel) enterSettleMode() (tea.Model, tea.Cmd) {
	r := m.selected()
	if r == nil {
		return m, nil
	}

	if r.Type != transaction.TypeWithdrawal || r.Status != transaction.StatusPendingWithdrawal {
		m.status = "Only pending withdrawals can be settled"
		return m, nil
	}

	m.confirm = new(true)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Paid %s to %s %s?", FormatAmount(r.Amount), r.BankType, r.BankNumber)).
				Affirmative("Settle").
				Negative("Cancel").
				Value(m.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateSettle
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateSettle(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.cancelSettle(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirm {
		return m.cancelSettle(), nil
	}

	return m, m.settleCmd(m.selected())
}

func (m TransactionsModel) cancelSettle() TransactionsModel {
	m.state = listStateBrowse
	m.form = nil
	m.table.Focus()

	return m
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [f] Status: %s | [t] Type: %s | %d shown",
		activeStyle(statusLabels[m.statusFilterIdx]),
		activeStyle(typeLabels[m.typeFilterIdx]),
		len(m.records),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateSettle && m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel("Settle Withdrawal", m.form.View()))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *TransactionsModel) applyFilter() {
	m.filter = transaction.ListFilter{Limit: 500}

	if s := statusFilters[m.statusFilterIdx]; s != "" {
		m.filter.Status = &s
	}

	if t := typeFilters[m.typeFilterIdx]; t != "" {
		m.filter.Type = &t
	}
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, table.Row{
			FormatDate(r.CreatedAt),
			r.TransactionID,
			string(r.Type),
			string(r.Status),
			strconv.FormatInt(r.ChatID, 10),
			FormatAmount(r.Amount),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	records []*transaction.Record
	err     error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := m.txService.List(ctx, filter)

		return loadListMsg{records: records, err: err}
	}
}

type settleMsg struct {
	transactionID string
	err           error
}

func (m TransactionsModel) settleCmd(r *transaction.Record) tea.Cmd {
	if r == nil {
		return nil
	}

	id := r.TransactionID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.txService.SettleWithdrawal(ctx, id)

		return settleMsg{transactionID: id, err: err}
	}
}
