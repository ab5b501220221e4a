package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/birr/internal/receipt"
	"github.com/MrJamesThe3rd/birr/internal/verify"
)

type Verifier interface {
	VerifyDeposit(ctx context.Context, transactionID string, chatID int64) (*verify.Confirmation, error)
}

type depositState int

const (
	depositStateForm depositState = iota
	depositStateVerifying
	depositStateResult
)

// DepositModel verifies a receipt on behalf of a customer.
type DepositModel struct {
	CommonModel
	verifier Verifier

	state  depositState
	form   *huh.Form
	result string
	failed bool

	in *depositInput
}

type depositInput struct {
	transactionID string
	chatID        string
}

func NewDepositModel(v Verifier) DepositModel {
	m := DepositModel{verifier: v}
	m.form, m.in = newDepositForm()

	return m
}

func newDepositForm() (*huh.Form, *depositInput) {
	in := &depositInput{}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("transaction_id").
				Title("Transaction ID").
				Placeholder("FT24...").
				Value(&in.transactionID).
				Validate(func(s string) error {
					return receipt.ValidateReference(receipt.NormalizeReference(s))
				}),

			huh.NewInput().
				Key("chat_id").
				Title("Chat ID").
				Value(&in.chatID).
				Validate(validateChatID),
		),
	).WithWidth(50).WithShowHelp(false)

	return form, in
}

func (m DepositModel) Title() string { return "Verify Deposit" }

func (m DepositModel) ShortHelp() string {
	if m.state == depositStateResult {
		return "Enter: verify another | Esc: back"
	}

	return "Enter: next | Esc: back"
}

func (m DepositModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m DepositModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == depositStateResult && msg.Type == tea.KeyEnter {
			m.form, m.in = newDepositForm()
			m.state = depositStateForm

			return m, m.form.Init()
		}

	case depositResultMsg:
		m.state = depositStateResult
		m.failed = msg.err != nil

		if msg.err != nil {
			m.result = verify.Message(msg.err)
			return m, nil
		}

		m.result = fmt.Sprintf("%s\n\nReceipt: %s\nPaid: %s",
			msg.confirmation.Message, msg.confirmation.TransactionID, FormatDate(msg.confirmation.PaymentDate))

		return m, nil
	}

	if m.state != depositStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = depositStateVerifying

	return m, m.verifyCmd()
}

func (m DepositModel) View() string {
	switch m.state {
	case depositStateVerifying:
		return lipgloss.NewStyle().Padding(2).Render("Fetching and checking receipt...")
	case depositStateResult:
		body := m.result
		if m.failed {
			body = errorStyle(body)
		}

		return lipgloss.NewStyle().Padding(1).Render(panel("Deposit", body))
	}

	return lipgloss.NewStyle().Padding(1).Render(panel("Verify Deposit", m.form.View()))
}

type depositResultMsg struct {
	confirmation *verify.Confirmation
	err          error
}

func (m DepositModel) verifyCmd() tea.Cmd {
	id := strings.TrimSpace(m.in.transactionID)
	chatID, _ := strconv.ParseInt(strings.TrimSpace(m.in.chatID), 10, 64)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()

		c, err := m.verifier.VerifyDeposit(ctx, id, chatID)

		return depositResultMsg{confirmation: c, err: err}
	}
}

func validateChatID(s string) error {
	if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
		return fmt.Errorf("chat id must be a number")
	}

	return nil
}
