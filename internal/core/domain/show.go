package domain

import "github.com/shopspring/decimal"

// Wire names of show-originated events consumed by the saga coordinator.
const (
	EventTypeSeatReservationRequested = "seat-reservation-requested"
	EventTypeSeatReservationCancelled = "seat-reservation-cancelled"
)

// ShowEvent is the message contract the cinema-show service publishes.
// The show aggregate itself is an external collaborator; only the shapes it
// exchanges with the wallet matter here.
type ShowEvent interface {
	EventType() string
	Reservation() string
	isShowEvent()
}

// SeatReservationRequested asks the wallet side to place a charge for a seat.
type SeatReservationRequested struct {
	ShowID        string          `json:"show_id"`
	WalletID      string          `json:"wallet_id"`
	ReservationID string          `json:"reservation_id"`
	SeatNumber    int             `json:"seat_number"`
	Price         decimal.Decimal `json:"price"`
}

// SeatReservationCancelled announces a cancelled reservation; the wallet side
// responds with a refund of the matching expense.
type SeatReservationCancelled struct {
	ShowID        string `json:"show_id"`
	ReservationID string `json:"reservation_id"`
	SeatNumber    int    `json:"seat_number"`
}

func (SeatReservationRequested) isShowEvent() {}
func (SeatReservationCancelled) isShowEvent() {}

func (SeatReservationRequested) EventType() string { return EventTypeSeatReservationRequested }
func (SeatReservationCancelled) EventType() string { return EventTypeSeatReservationCancelled }

func (e SeatReservationRequested) Reservation() string { return e.ReservationID }
func (e SeatReservationCancelled) Reservation() string { return e.ReservationID }
