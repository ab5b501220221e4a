package main

import (
	"context"
	"log/slog"
	"os"
	_ "time/tzdata"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/birr/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/birr/internal/app"
	"github.com/MrJamesThe3rd/birr/internal/config"
)

type model struct {
	app *app.App

	currentView View

	depositView      view.DepositModel
	mutationView     view.MutationModel
	transactionsView view.TransactionsModel
}

type View int

const (
	ViewMenu         View = 0
	ViewDeposit      View = 1
	ViewMutation     View = 2
	ViewTransactions View = 3
)

func initialModel(a *app.App) model {
	return model{
		app:              a,
		currentView:      ViewMenu,
		depositView:      view.NewDepositModel(a.Verifier),
		mutationView:     view.NewMutationModel(a.Ledger),
		transactionsView: view.NewTransactionsModel(a.Transactions),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDeposit
				m.depositView = view.NewDepositModel(m.app.Verifier)

				return m, m.depositView.Init()
			case "2":
				m.currentView = ViewMutation
				m.mutationView = view.NewMutationModel(m.app.Ledger)

				return m, m.mutationView.Init()
			case "3":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.app.Transactions)

				return m, m.transactionsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDeposit:
		var newModel tea.Model
		newModel, cmd = m.depositView.Update(msg)
		m.depositView = newModel.(view.DepositModel)
	case ViewMutation:
		var newModel tea.Model
		newModel, cmd = m.mutationView.Update(msg)
		m.mutationView = newModel.(view.MutationModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Birr Operator Console\n\n" +
				"1. Verify Deposit\n" +
				"2. Withdraw / Transfer\n" +
				"3. Transactions & Payouts\n\n" +
				"q. Quit",
		)
	case ViewDeposit:
		return m.footer(m.depositView)
	case ViewMutation:
		return m.footer(m.mutationView)
	case ViewTransactions:
		return m.footer(m.transactionsView)
	}

	return "Unknown View"
}

func (m model) footer(v view.View) string {
	return v.View() + "\n" + lipgloss.NewStyle().Faint(true).PaddingLeft(2).Render(v.ShortHelp())
}

func main() {
	_ = godotenv.Load()

	// The terminal belongs to the TUI; logs go to a file instead.
	logFile, err := tea.LogToFile("birr-tui.log", "birr")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, nil)))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(a))
	_, err = p.Run()

	a.Close()

	if err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
