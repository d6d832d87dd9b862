package service

import (
	"context"
	"sync"

	"cinema-wallet/internal/core/domain"
	"cinema-wallet/internal/core/ports"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// memEventStore is an in-memory ports.EventStore with optional failure
// injection.
type memEventStore struct {
	mu      sync.Mutex
	streams map[string][]domain.WalletEvent

	loadErr   error
	appendErr error
}

func newMemEventStore() *memEventStore {
	return &memEventStore{streams: map[string][]domain.WalletEvent{}}
}

func (s *memEventStore) Load(_ context.Context, walletID string) ([]domain.WalletEvent, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, 0, s.loadErr
	}
	events := s.streams[walletID]
	out := make([]domain.WalletEvent, len(events))
	copy(out, events)
	return out, int64(len(events)), nil
}

func (s *memEventStore) Append(_ context.Context, walletID string, expectedVersion int64, event domain.WalletEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	if int64(len(s.streams[walletID])) != expectedVersion {
		return ports.ErrVersionConflict
	}
	s.streams[walletID] = append(s.streams[walletID], event)
	return nil
}

func (s *memEventStore) events(walletID string) []domain.WalletEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WalletEvent(nil), s.streams[walletID]...)
}

// capturePublisher records published wallet events.
type capturePublisher struct {
	mu     sync.Mutex
	events []domain.WalletEvent
	err    error
}

func (p *capturePublisher) PublishWalletEvent(_ context.Context, event domain.WalletEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) published() []domain.WalletEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.WalletEvent(nil), p.events...)
}

// memReservationRepo is an in-memory ports.ReservationRepository.
type memReservationRepo struct {
	mu           sync.Mutex
	reservations map[string]domain.Reservation

	err error
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{reservations: map[string]domain.Reservation{}}
}

func (r *memReservationRepo) Upsert(_ context.Context, res domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.reservations[res.ReservationID] = res
	return nil
}

func (r *memReservationRepo) Delete(_ context.Context, reservationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.reservations, reservationID)
	return nil
}

func (r *memReservationRepo) GetByID(_ context.Context, reservationID string) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	res, ok := r.reservations[reservationID]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (r *memReservationRepo) has(reservationID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.reservations[reservationID]
	return ok
}

// fakeShowGateway records confirmations and cancellations.
type fakeShowGateway struct {
	mu         sync.Mutex
	confirmed  []string
	cancelled  []string
	confirmErr error
	cancelErr  error
}

func (g *fakeShowGateway) ConfirmReservation(_ context.Context, _, reservationID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.confirmErr != nil {
		return g.confirmErr
	}
	g.confirmed = append(g.confirmed, reservationID)
	return nil
}

func (g *fakeShowGateway) CancelReservation(_ context.Context, _, reservationID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancelErr != nil {
		return g.cancelErr
	}
	g.cancelled = append(g.cancelled, reservationID)
	return nil
}

func (g *fakeShowGateway) confirmations() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.confirmed...)
}

func (g *fakeShowGateway) cancellations() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.cancelled...)
}
