package service

import (
	"context"
	"fmt"
	"time"

	"cinema-wallet/internal/core/domain"
	"cinema-wallet/internal/core/ports"

	"github.com/rs/zerolog"
)

const reservationCacheTTL = 15 * time.Minute

// ReservationProjection folds show and wallet events into the reservation
// read model. Every fold operation is idempotent by reservation identity, so
// redelivered events converge on the same record.
type ReservationProjection struct {
	repo  ports.ReservationRepository
	cache ports.ReservationCache // nil = caching disabled
	log   zerolog.Logger
}

// NewReservationProjection creates a new ReservationProjection.
func NewReservationProjection(repo ports.ReservationRepository, cache ports.ReservationCache, log zerolog.Logger) *ReservationProjection {
	return &ReservationProjection{repo: repo, cache: cache, log: log}
}

// FoldRequested upserts the record for a requested seat reservation.
func (p *ReservationProjection) FoldRequested(ctx context.Context, e domain.SeatReservationRequested) error {
	r := domain.Reservation{
		ReservationID: e.ReservationID,
		ShowID:        e.ShowID,
		WalletID:      e.WalletID,
		Amount:        e.Price,
	}
	if err := p.repo.Upsert(ctx, r); err != nil {
		return fmt.Errorf("upsert reservation %s: %w", e.ReservationID, err)
	}
	p.invalidate(ctx, e.ReservationID)
	return nil
}

// FoldRemoved deletes the record for a cancelled or charge-rejected
// reservation. Deleting an already-absent record is a no-op.
func (p *ReservationProjection) FoldRemoved(ctx context.Context, reservationID string) error {
	if err := p.repo.Delete(ctx, reservationID); err != nil {
		return fmt.Errorf("delete reservation %s: %w", reservationID, err)
	}
	p.invalidate(ctx, reservationID)
	return nil
}

// GetReservation implements ports.ReservationQueries with a read-through
// cache. Cache failures degrade to the repository.
func (p *ReservationProjection) GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	if p.cache != nil {
		cached, err := p.cache.Get(ctx, reservationID)
		if err != nil {
			p.log.Warn().Err(err).Str("reservation_id", reservationID).Msg("reservation cache read failed")
		}
		if cached != nil {
			return cached, nil
		}
	}

	r, err := p.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("get reservation %s: %w", reservationID, err)
	}
	if r == nil {
		return nil, nil
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, *r, reservationCacheTTL); err != nil {
			p.log.Warn().Err(err).Str("reservation_id", reservationID).Msg("reservation cache write failed")
		}
	}
	return r, nil
}

func (p *ReservationProjection) invalidate(ctx context.Context, reservationID string) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Delete(ctx, reservationID); err != nil {
		p.log.Warn().Err(err).Str("reservation_id", reservationID).Msg("reservation cache invalidation failed")
	}
}
