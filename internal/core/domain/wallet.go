package domain

import (
	"github.com/shopspring/decimal"
)

// EmptyWalletID is the sentinel identity of a wallet that does not exist yet.
const EmptyWalletID = ""

// Expense is a hold placed against wallet funds by a successful charge,
// released by a refund.
type Expense struct {
	ExpenseID string          `json:"expense_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// Wallet is the event-sourced aggregate state. It is a value: Decide never
// mutates it and Apply returns a new Wallet, copying the expense and
// command-id containers instead of aliasing them.
type Wallet struct {
	ID         string              `json:"id"`
	Balance    decimal.Decimal     `json:"balance"`
	Expenses   map[string]Expense  `json:"expenses"`
	CommandIDs map[string]struct{} `json:"command_ids"`
}

// EmptyWallet returns the not-yet-created wallet state.
func EmptyWallet() Wallet {
	return Wallet{
		ID:         EmptyWalletID,
		Balance:    decimal.Zero,
		Expenses:   map[string]Expense{},
		CommandIDs: map[string]struct{}{},
	}
}

// Exists reports whether the wallet has been created.
func (w Wallet) Exists() bool {
	return w.ID != EmptyWalletID
}

// Decide evaluates a command against the current state and returns either the
// event to append or a CommandError. Pure: no side effects, no I/O.
//
// The dedup check runs before any other rule, so a replayed command is
// rejected even when the wallet does not exist.
func (w Wallet) Decide(cmd WalletCommand) (WalletEvent, error) {
	if w.isDuplicate(cmd) {
		return nil, ErrDuplicatedCommand
	}

	switch c := cmd.(type) {
	case CreateWallet:
		return w.decideCreate(c)
	case ChargeWallet:
		return w.ifExists(func() (WalletEvent, error) { return w.decideCharge(c) })
	case Refund:
		return w.ifExists(func() (WalletEvent, error) { return w.decideRefund(c) })
	case DepositFunds:
		return w.ifExists(func() (WalletEvent, error) { return w.decideDeposit(c) })
	default:
		return nil, ErrUnknownCommand
	}
}

func (w Wallet) isDuplicate(cmd WalletCommand) bool {
	d, ok := cmd.(Deduplicated)
	if !ok {
		return false
	}
	_, seen := w.CommandIDs[d.DedupID()]
	return seen
}

func (w Wallet) ifExists(decide func() (WalletEvent, error)) (WalletEvent, error) {
	if !w.Exists() {
		return nil, ErrWalletNotExists
	}
	return decide()
}

func (w Wallet) decideCreate(c CreateWallet) (WalletEvent, error) {
	if w.Exists() {
		return nil, ErrWalletAlreadyExists
	}
	return WalletCreated{WalletID: c.WalletID, InitialAmount: c.InitialAmount}, nil
}

func (w Wallet) decideDeposit(c DepositFunds) (WalletEvent, error) {
	if c.Amount.Cmp(decimal.Zero) <= 0 {
		return nil, ErrDepositLEZero
	}
	return FundsDeposited{WalletID: w.ID, Amount: c.Amount, CommandID: c.CommandID}, nil
}

func (w Wallet) decideCharge(c ChargeWallet) (WalletEvent, error) {
	if w.Balance.Cmp(c.Amount) < 0 {
		// Insufficient funds is a business-negative outcome, not an error:
		// the saga needs the rejection event to run its compensation.
		return WalletChargeRejected{WalletID: w.ID, ExpenseID: c.ExpenseID, CommandID: c.CommandID}, nil
	}
	return WalletCharged{WalletID: w.ID, Amount: c.Amount, ExpenseID: c.ExpenseID, CommandID: c.CommandID}, nil
}

func (w Wallet) decideRefund(c Refund) (WalletEvent, error) {
	expense, ok := w.Expenses[c.ExpenseID]
	if !ok {
		return nil, ErrExpenseNotExists
	}
	// Refund amount comes from the stored expense, never from the request,
	// so a refund always matches the original charge.
	return WalletRefunded{WalletID: w.ID, Amount: expense.Amount, ExpenseID: expense.ExpenseID, CommandID: c.CommandID}, nil
}

// Apply folds an event into the state and returns the next state.
// Deterministic replay only: applying the same event twice is not a no-op;
// double-application is prevented upstream by Decide's dedup check.
func (w Wallet) Apply(event WalletEvent) Wallet {
	switch e := event.(type) {
	case WalletCreated:
		return Wallet{ID: e.WalletID, Balance: e.InitialAmount, Expenses: w.copyExpenses(), CommandIDs: w.copyCommandIDs()}
	case WalletCharged:
		expenses := w.copyExpenses()
		expenses[e.ExpenseID] = Expense{ExpenseID: e.ExpenseID, Amount: e.Amount}
		ids := w.copyCommandIDs()
		ids[e.CommandID] = struct{}{}
		return Wallet{ID: w.ID, Balance: w.Balance.Sub(e.Amount), Expenses: expenses, CommandIDs: ids}
	case WalletRefunded:
		expenses := w.copyExpenses()
		delete(expenses, e.ExpenseID)
		ids := w.copyCommandIDs()
		ids[e.CommandID] = struct{}{}
		return Wallet{ID: w.ID, Balance: w.Balance.Add(e.Amount), Expenses: expenses, CommandIDs: ids}
	case FundsDeposited:
		ids := w.copyCommandIDs()
		ids[e.CommandID] = struct{}{}
		return Wallet{ID: w.ID, Balance: w.Balance.Add(e.Amount), Expenses: w.copyExpenses(), CommandIDs: ids}
	case WalletChargeRejected:
		// A rejection leaves the state untouched. Its commandId is NOT
		// recorded and may be re-evaluated on resubmission.
		return w
	default:
		return w
	}
}

// Replay folds an event sequence onto the empty state.
func Replay(events []WalletEvent) Wallet {
	w := EmptyWallet()
	for _, e := range events {
		w = w.Apply(e)
	}
	return w
}

func (w Wallet) copyExpenses() map[string]Expense {
	out := make(map[string]Expense, len(w.Expenses))
	for k, v := range w.Expenses {
		out[k] = v
	}
	return out
}

func (w Wallet) copyCommandIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(w.CommandIDs))
	for k := range w.CommandIDs {
		out[k] = struct{}{}
	}
	return out
}
