package domain

import "github.com/shopspring/decimal"

// WalletCommand is the closed set of requests a wallet can process.
// The unexported marker keeps the variant set sealed to this package.
type WalletCommand interface {
	isWalletCommand()
}

// Deduplicated is implemented by command variants that carry an idempotency
// identifier. CreateWallet deliberately does not: creation is guarded by the
// existence check instead.
type Deduplicated interface {
	DedupID() string
}

// CreateWallet creates a new wallet with an initial balance.
type CreateWallet struct {
	WalletID      string          `json:"wallet_id"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
}

// ChargeWallet places a hold (expense) against the balance.
type ChargeWallet struct {
	CommandID string          `json:"command_id"`
	Amount    decimal.Decimal `json:"amount"`
	ExpenseID string          `json:"expense_id"`
}

// Refund releases a previously charged expense back to the balance.
type Refund struct {
	CommandID string `json:"command_id"`
	ExpenseID string `json:"expense_id"`
}

// DepositFunds adds funds to the balance.
type DepositFunds struct {
	CommandID string          `json:"command_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func (CreateWallet) isWalletCommand() {}
func (ChargeWallet) isWalletCommand() {}
func (Refund) isWalletCommand()       {}
func (DepositFunds) isWalletCommand() {}

func (c ChargeWallet) DedupID() string { return c.CommandID }
func (c Refund) DedupID() string       { return c.CommandID }
func (c DepositFunds) DedupID() string { return c.CommandID }
