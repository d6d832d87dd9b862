package domain

import "github.com/shopspring/decimal"

// Reservation is the read-model record folded from show and wallet events,
// keyed by reservation identity. Readers observe eventual consistency: a
// query right after a reservation command may return not-found.
type Reservation struct {
	ReservationID string          `json:"reservation_id"`
	ShowID        string          `json:"show_id"`
	WalletID      string          `json:"wallet_id"`
	Amount        decimal.Decimal `json:"amount"`
}
