package domain

import "github.com/shopspring/decimal"

// Wire names of wallet event variants, used in the event store and on the bus.
const (
	EventTypeWalletCreated        = "wallet-created"
	EventTypeWalletCharged        = "wallet-charged"
	EventTypeWalletRefunded       = "wallet-refunded"
	EventTypeFundsDeposited       = "funds-deposited"
	EventTypeWalletChargeRejected = "wallet-charge-rejected"
)

// WalletEvent is the closed set of facts a wallet can emit. Events are
// immutable once emitted; they are the unit of persistence and replay.
type WalletEvent interface {
	EventType() string
	AggregateID() string
	isWalletEvent()
}

// WalletCreated records the one-time creation of a wallet.
type WalletCreated struct {
	WalletID      string          `json:"wallet_id"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
}

// WalletCharged records a successful charge: an expense hold was placed and
// the balance reduced.
type WalletCharged struct {
	WalletID  string          `json:"wallet_id"`
	Amount    decimal.Decimal `json:"amount"`
	ExpenseID string          `json:"expense_id"`
	CommandID string          `json:"command_id"`
}

// WalletRefunded records the release of an expense hold back to the balance.
type WalletRefunded struct {
	WalletID  string          `json:"wallet_id"`
	Amount    decimal.Decimal `json:"amount"`
	ExpenseID string          `json:"expense_id"`
	CommandID string          `json:"command_id"`
}

// FundsDeposited records a deposit.
type FundsDeposited struct {
	WalletID  string          `json:"wallet_id"`
	Amount    decimal.Decimal `json:"amount"`
	CommandID string          `json:"command_id"`
}

// WalletChargeRejected records a charge that was declined for insufficient
// balance. It is a successful decision outcome, emitted so the saga can
// compensate the reservation side.
type WalletChargeRejected struct {
	WalletID  string `json:"wallet_id"`
	ExpenseID string `json:"expense_id"`
	CommandID string `json:"command_id"`
}

func (WalletCreated) isWalletEvent()        {}
func (WalletCharged) isWalletEvent()        {}
func (WalletRefunded) isWalletEvent()       {}
func (FundsDeposited) isWalletEvent()       {}
func (WalletChargeRejected) isWalletEvent() {}

func (WalletCreated) EventType() string        { return EventTypeWalletCreated }
func (WalletCharged) EventType() string        { return EventTypeWalletCharged }
func (WalletRefunded) EventType() string       { return EventTypeWalletRefunded }
func (FundsDeposited) EventType() string       { return EventTypeFundsDeposited }
func (WalletChargeRejected) EventType() string { return EventTypeWalletChargeRejected }

func (e WalletCreated) AggregateID() string        { return e.WalletID }
func (e WalletCharged) AggregateID() string        { return e.WalletID }
func (e WalletRefunded) AggregateID() string       { return e.WalletID }
func (e FundsDeposited) AggregateID() string       { return e.WalletID }
func (e WalletChargeRejected) AggregateID() string { return e.WalletID }
