package postgres

import (
	"context"
	"errors"
	"fmt"

	"cinema-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ReservationRepo implements ports.ReservationRepository.
// Amounts are stored as text to keep decimal precision exact.
type ReservationRepo struct {
	pool Pool
}

// NewReservationRepo creates a new ReservationRepo.
func NewReservationRepo(pool Pool) *ReservationRepo {
	return &ReservationRepo{pool: pool}
}

// Upsert inserts or replaces the reservation record.
func (r *ReservationRepo) Upsert(ctx context.Context, res domain.Reservation) error {
	query := `INSERT INTO reservations (reservation_id, show_id, wallet_id, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (reservation_id)
		DO UPDATE SET show_id = EXCLUDED.show_id, wallet_id = EXCLUDED.wallet_id, amount = EXCLUDED.amount`

	_, err := r.pool.Exec(ctx, query, res.ReservationID, res.ShowID, res.WalletID, res.Amount.String())
	if err != nil {
		return fmt.Errorf("upsert reservation: %w", err)
	}
	return nil
}

// Delete removes the reservation record. Deleting an absent record is a no-op.
func (r *ReservationRepo) Delete(ctx context.Context, reservationID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE reservation_id = $1`, reservationID)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	return nil
}

// GetByID fetches a reservation; returns nil, nil when unknown.
func (r *ReservationRepo) GetByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	query := `SELECT reservation_id, show_id, wallet_id, amount FROM reservations
		WHERE reservation_id = $1`

	var (
		res       domain.Reservation
		amountStr string
	)
	err := r.pool.QueryRow(ctx, query, reservationID).Scan(
		&res.ReservationID, &res.ShowID, &res.WalletID, &amountStr,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}

	res.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse reservation amount: %w", err)
	}
	return &res, nil
}
