package ports

import (
	"context"

	"cinema-wallet/internal/core/domain"
)

// WalletService processes commands against wallet aggregates. Commands for
// the same wallet are serialized; different wallets proceed in parallel.
type WalletService interface {
	// Execute decides and applies one command. A domain.CommandError means a
	// definitive rejection (no event, no state change); any other error is an
	// infrastructure failure and retryable.
	Execute(ctx context.Context, walletID string, cmd domain.WalletCommand) (domain.WalletEvent, error)
	// GetWallet returns the replayed aggregate state.
	GetWallet(ctx context.Context, walletID string) (domain.Wallet, error)
}

// ReservationQueries serves reservation read-model lookups.
type ReservationQueries interface {
	// GetReservation returns nil, nil when unknown (possibly not yet folded).
	GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error)
}

// ShowGateway is the outbound boundary to the cinema-show service, used by
// the saga coordinator for confirmations and compensations.
type ShowGateway interface {
	ConfirmReservation(ctx context.Context, showID, reservationID string) error
	CancelReservation(ctx context.Context, showID, reservationID string) error
}

// WalletEventPublisher publishes accepted wallet events for downstream
// consumers (saga coordinator, projection).
type WalletEventPublisher interface {
	PublishWalletEvent(ctx context.Context, event domain.WalletEvent) error
}
