package dto

import "github.com/shopspring/decimal"

// CreateWalletRequest is the request body for wallet creation.
type CreateWalletRequest struct {
	WalletID      string          `json:"wallet_id" binding:"required,max=64,safe_id"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
}

// DepositRequest is the request body for a deposit.
type DepositRequest struct {
	CommandID string          `json:"command_id" binding:"required,max=100,safe_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// ChargeRequest is the request body for a charge.
type ChargeRequest struct {
	CommandID string          `json:"command_id" binding:"required,max=100,safe_id"`
	ExpenseID string          `json:"expense_id" binding:"required,max=100,safe_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// RefundRequest is the request body for a refund.
type RefundRequest struct {
	CommandID string `json:"command_id" binding:"required,max=100,safe_id"`
	ExpenseID string `json:"expense_id" binding:"required,max=100,safe_id"`
}

// CommandOutcomeResponse reports the event emitted for an accepted command.
// A charge against insufficient funds is still an accepted command; its
// outcome is "wallet-charge-rejected".
type CommandOutcomeResponse struct {
	WalletID  string `json:"wallet_id"`
	EventType string `json:"event_type"`
	ExpenseID string `json:"expense_id,omitempty"`
	Amount    string `json:"amount,omitempty"`
}

// ExpenseResponse is one hold on the wallet balance.
type ExpenseResponse struct {
	ExpenseID string `json:"expense_id"`
	Amount    string `json:"amount"`
}

// WalletResponse is the response for a wallet state query.
type WalletResponse struct {
	WalletID string            `json:"wallet_id"`
	Balance  string            `json:"balance"`
	Expenses []ExpenseResponse `json:"expenses"`
}

// ReservationResponse is the response for a reservation query.
type ReservationResponse struct {
	ReservationID string `json:"reservation_id"`
	ShowID        string `json:"show_id"`
	WalletID      string `json:"wallet_id"`
	Amount        string `json:"amount"`
}
