package service

import (
	"context"
	"errors"
	"fmt"

	"cinema-wallet/internal/core/domain"
	"cinema-wallet/internal/core/ports"

	"github.com/rs/zerolog"
)

// SagaCoordinator keeps the wallet and the external cinema-show service
// eventually consistent through choreography: it reacts to show events with
// wallet commands and to wallet outcomes with show confirmations or
// compensations. It holds no durable dedup state of its own — idempotency
// identifiers are derived from the reservation identity, so redelivery is
// absorbed by the wallet's own command deduplication.
//
// Handler contract: a nil return acks the message; an error nacks it for
// at-least-once redelivery. Definitive command rejections therefore map to
// nil, infrastructure failures to an error.
type SagaCoordinator struct {
	wallets    ports.WalletService
	projection *ReservationProjection
	shows      ports.ShowGateway
	log        zerolog.Logger
}

// NewSagaCoordinator creates a new SagaCoordinator.
func NewSagaCoordinator(wallets ports.WalletService, projection *ReservationProjection, shows ports.ShowGateway, log zerolog.Logger) *SagaCoordinator {
	return &SagaCoordinator{wallets: wallets, projection: projection, shows: shows, log: log}
}

// RefundCommandID derives the refund idempotency identifier for a reservation.
func RefundCommandID(reservationID string) string {
	return "refund-" + reservationID
}

// HandleShowEvent processes one show-side event: folds the projection, then
// issues the wallet command for it.
func (c *SagaCoordinator) HandleShowEvent(ctx context.Context, event domain.ShowEvent) error {
	switch e := event.(type) {
	case domain.SeatReservationRequested:
		return c.onReservationRequested(ctx, e)
	case domain.SeatReservationCancelled:
		return c.onReservationCancelled(ctx, e)
	default:
		c.log.Warn().Str("event_type", event.EventType()).Msg("ignoring unknown show event")
		return nil
	}
}

func (c *SagaCoordinator) onReservationRequested(ctx context.Context, e domain.SeatReservationRequested) error {
	if err := c.projection.FoldRequested(ctx, e); err != nil {
		return err
	}

	// The reservation identity doubles as charge commandId and expenseId:
	// that is what makes redelivery and the later refund idempotent.
	cmd := domain.ChargeWallet{
		CommandID: e.ReservationID,
		Amount:    e.Price,
		ExpenseID: e.ReservationID,
	}

	_, err := c.wallets.Execute(ctx, e.WalletID, cmd)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDuplicatedCommand):
		// Redelivered request; the charge already went through.
		return nil
	case errors.Is(err, domain.ErrWalletNotExists):
		// No wallet to charge: compensate the reservation immediately.
		c.log.Warn().
			Str("wallet_id", e.WalletID).
			Str("reservation_id", e.ReservationID).
			Msg("charge for unknown wallet, cancelling reservation")
		if err := c.shows.CancelReservation(ctx, e.ShowID, e.ReservationID); err != nil {
			return fmt.Errorf("cancel reservation %s: %w", e.ReservationID, err)
		}
		return c.projection.FoldRemoved(ctx, e.ReservationID)
	default:
		return fmt.Errorf("charge wallet %s for reservation %s: %w", e.WalletID, e.ReservationID, err)
	}
}

func (c *SagaCoordinator) onReservationCancelled(ctx context.Context, e domain.SeatReservationCancelled) error {
	reservation, err := c.projection.GetReservation(ctx, e.ReservationID)
	if err != nil {
		return err
	}
	if reservation == nil {
		// Nothing folded (or already removed): the refund, if any, has been
		// issued on a previous delivery.
		return nil
	}

	// Refund first, remove the record after. The record is what lets a
	// redelivered cancellation retry the refund, so it must survive until
	// the refund has gone through; the derived commandId keeps the retry
	// idempotent.
	cmd := domain.Refund{
		CommandID: RefundCommandID(e.ReservationID),
		ExpenseID: e.ReservationID,
	}

	_, err = c.wallets.Execute(ctx, reservation.WalletID, cmd)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrExpenseNotExists):
		// Already refunded, or the charge was rejected and no hold exists.
		// The effect the saga wants is already achieved.
	case errors.Is(err, domain.ErrDuplicatedCommand):
	case errors.Is(err, domain.ErrWalletNotExists):
		c.log.Warn().
			Str("wallet_id", reservation.WalletID).
			Str("reservation_id", e.ReservationID).
			Msg("refund for unknown wallet, nothing to compensate")
	default:
		return fmt.Errorf("refund reservation %s: %w", e.ReservationID, err)
	}

	return c.projection.FoldRemoved(ctx, e.ReservationID)
}

// HandleWalletEvent processes one wallet outcome: confirms the seat on a
// successful charge, compensates the show side on a rejected one.
func (c *SagaCoordinator) HandleWalletEvent(ctx context.Context, event domain.WalletEvent) error {
	switch e := event.(type) {
	case domain.WalletCharged:
		return c.onCharged(ctx, e)
	case domain.WalletChargeRejected:
		return c.onChargeRejected(ctx, e)
	default:
		// Created, deposited and refunded outcomes are terminal for the saga.
		return nil
	}
}

func (c *SagaCoordinator) onCharged(ctx context.Context, e domain.WalletCharged) error {
	reservation, err := c.projection.GetReservation(ctx, e.ExpenseID)
	if err != nil {
		return err
	}
	if reservation == nil {
		// The fold precedes the charge on the show-event path, so a charged
		// outcome without a record is an ad-hoc charge through the API (or a
		// reservation already compensated). Nothing to confirm; nacking here
		// would wedge the subscription on a message that can never resolve.
		c.log.Debug().
			Str("expense_id", e.ExpenseID).
			Str("wallet_id", e.WalletID).
			Msg("charged outcome without reservation record, ignoring")
		return nil
	}

	if err := c.shows.ConfirmReservation(ctx, reservation.ShowID, reservation.ReservationID); err != nil {
		return fmt.Errorf("confirm reservation %s: %w", e.ExpenseID, err)
	}
	c.log.Info().
		Str("reservation_id", e.ExpenseID).
		Str("wallet_id", e.WalletID).
		Msg("seat reservation confirmed")
	return nil
}

func (c *SagaCoordinator) onChargeRejected(ctx context.Context, e domain.WalletChargeRejected) error {
	reservation, err := c.projection.GetReservation(ctx, e.ExpenseID)
	if err != nil {
		return err
	}
	if reservation == nil {
		// Already compensated on a previous delivery.
		return nil
	}

	if err := c.shows.CancelReservation(ctx, reservation.ShowID, reservation.ReservationID); err != nil {
		return fmt.Errorf("cancel rejected reservation %s: %w", e.ExpenseID, err)
	}
	if err := c.projection.FoldRemoved(ctx, e.ExpenseID); err != nil {
		return err
	}
	c.log.Info().
		Str("reservation_id", e.ExpenseID).
		Str("wallet_id", e.WalletID).
		Msg("seat reservation cancelled after rejected charge")
	return nil
}
