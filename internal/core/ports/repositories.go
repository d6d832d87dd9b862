package ports

import (
	"context"
	"errors"
	"time"

	"cinema-wallet/internal/core/domain"
)

// ErrVersionConflict is returned by EventStore.Append when the expected
// version no longer matches the stream head (a concurrent append won).
var ErrVersionConflict = errors.New("event store version conflict")

// EventStore persists wallet event streams. The store must be append-only and
// per-wallet ordered; Load replays in append order.
type EventStore interface {
	// Load returns the wallet's events in order plus the current stream
	// version (0 for an unknown wallet).
	Load(ctx context.Context, walletID string) ([]domain.WalletEvent, int64, error)
	// Append writes one event at version expectedVersion+1.
	// Returns ErrVersionConflict if the stream has moved.
	Append(ctx context.Context, walletID string, expectedVersion int64, event domain.WalletEvent) error
}

// ReservationRepository is the system of record for the reservation read
// model. Upsert and Delete are idempotent by reservation identity.
type ReservationRepository interface {
	Upsert(ctx context.Context, r domain.Reservation) error
	Delete(ctx context.Context, reservationID string) error
	// GetByID returns nil, nil when the reservation is unknown.
	GetByID(ctx context.Context, reservationID string) (*domain.Reservation, error)
}

// ReservationCache is a best-effort read cache in front of the repository.
type ReservationCache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, reservationID string) (*domain.Reservation, error)
	Set(ctx context.Context, r domain.Reservation, ttl time.Duration) error
	Delete(ctx context.Context, reservationID string) error
}
