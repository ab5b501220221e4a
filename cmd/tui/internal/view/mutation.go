package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/birr/internal/account"
	"github.com/MrJamesThe3rd/birr/internal/ledger"
	"github.com/MrJamesThe3rd/birr/internal/transaction"
)

type Ledger interface {
	Withdraw(ctx context.Context, params ledger.WithdrawParams) (*ledger.WithdrawalReceipt, error)
	Transfer(ctx context.Context, params ledger.TransferParams) (*ledger.TransferReceipt, error)
}

const (
	opWithdraw = "withdraw"
	opTransfer = "transfer"
)

type mutationState int

const (
	mutationStateForm mutationState = iota
	mutationStateSubmitting
	mutationStateResult
)

// MutationModel submits withdrawals and transfers for a customer.
type MutationModel struct {
	CommonModel
	ledger Ledger

	state  mutationState
	form   *huh.Form
	result string
	failed bool

	// in is shared by every copy of the model so the form bindings stay valid.
	in *mutationInput
}

type mutationInput struct {
	op             string
	chatID         string
	amount         string
	bankType       string
	bankNumber     string
	recipientPhone string
}

func NewMutationModel(l Ledger) MutationModel {
	m := MutationModel{ledger: l}
	m.form, m.in = newMutationForm()

	return m
}

func newMutationForm() (*huh.Form, *mutationInput) {
	in := &mutationInput{op: opWithdraw, bankType: transaction.BankCBE}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Operation").
				Options(
					huh.NewOption("Withdraw to bank", opWithdraw),
					huh.NewOption("Transfer to customer", opTransfer),
				).
				Value(&in.op),

			huh.NewInput().
				Title("Chat ID").
				Value(&in.chatID).
				Validate(validateChatID),

			huh.NewInput().
				Title("Amount (ETB)").
				Value(&in.amount).
				Validate(validateAmount),
		),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Bank").
				Options(
					huh.NewOption("CBE", transaction.BankCBE),
					huh.NewOption("CBE Birr wallet", transaction.BankCBEBirrWallet),
				).
				Value(&in.bankType),

			huh.NewInput().
				Title("Account or wallet number").
				Value(&in.bankNumber).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("number cannot be empty")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return in.op != opWithdraw }),

		huh.NewGroup(
			huh.NewInput().
				Title("Recipient phone").
				Placeholder("09XXXXXXXX").
				Value(&in.recipientPhone).
				Validate(func(s string) error {
					if !account.ValidPhone(strings.TrimSpace(s)) {
						return account.ErrInvalidPhone
					}
					return nil
				}),
		).WithHideFunc(func() bool { return in.op != opTransfer }),
	).WithWidth(50).WithShowHelp(false)

	return form, in
}

func (m MutationModel) Title() string { return "Withdraw / Transfer" }

func (m MutationModel) ShortHelp() string {
	if m.state == mutationStateResult {
		return "Enter: new operation | Esc: back"
	}

	return "Enter: next | Esc: back"
}

func (m MutationModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m MutationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == mutationStateResult && msg.Type == tea.KeyEnter {
			m.form, m.in = newMutationForm()
			m.state = mutationStateForm

			return m, m.form.Init()
		}

	case mutationResultMsg:
		m.state = mutationStateResult
		m.failed = msg.err != nil

		if msg.err != nil {
			m.result = msg.err.Error()
		} else {
			m.result = msg.summary
		}

		return m, nil
	}

	if m.state != mutationStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = mutationStateSubmitting

	return m, m.submitCmd()
}

func (m MutationModel) View() string {
	switch m.state {
	case mutationStateSubmitting:
		return lipgloss.NewStyle().Padding(2).Render("Submitting...")
	case mutationStateResult:
		body := m.result
		if m.failed {
			body = errorStyle(body)
		}

		return lipgloss.NewStyle().Padding(1).Render(panel(m.Title(), body))
	}

	return lipgloss.NewStyle().Padding(1).Render(panel(m.Title(), m.form.View()))
}

type mutationResultMsg struct {
	summary string
	err     error
}

func (m MutationModel) submitCmd() tea.Cmd {
	in := *m.in
	chatID, _ := strconv.ParseInt(strings.TrimSpace(in.chatID), 10, 64)
	amount, _ := decimal.NewFromString(strings.TrimSpace(in.amount))

	withdraw := ledger.WithdrawParams{
		ChatID:     chatID,
		Amount:     amount,
		BankType:   in.bankType,
		BankNumber: strings.TrimSpace(in.bankNumber),
	}
	transfer := ledger.TransferParams{
		ChatID:         chatID,
		Amount:         amount,
		RecipientPhone: strings.TrimSpace(in.recipientPhone),
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if in.op == opTransfer {
			r, err := m.ledger.Transfer(ctx, transfer)
			if err != nil {
				return mutationResultMsg{err: err}
			}

			return mutationResultMsg{summary: fmt.Sprintf(
				"Sent %s to %s (%s).\nReference: %s\nRemaining balance: %s",
				FormatAmount(r.Amount), r.RecipientName, r.RecipientPhone, r.TransactionID, FormatAmount(r.Balance),
			)}
		}

		r, err := m.ledger.Withdraw(ctx, withdraw)
		if err != nil {
			return mutationResultMsg{err: err}
		}

		return mutationResultMsg{summary: fmt.Sprintf(
			"Withdrawal of %s to %s %s is %s.\nReference: %s\nRemaining balance: %s",
			FormatAmount(r.Amount), r.BankType, r.BankNumber, r.Status, r.TransactionID, FormatAmount(r.Balance),
		)}
	}
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("amount must be a number")
	}

	if !d.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}

	return nil
}
