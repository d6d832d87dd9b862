package integration

import (
	"context"
	"sync"

	"cinema-wallet/internal/core/domain"
	"cinema-wallet/internal/core/ports"
)

// --- In-Memory Event Store ---

type inMemoryEventStore struct {
	mu      sync.RWMutex
	streams map[string][]domain.WalletEvent
}

func newInMemoryEventStore() *inMemoryEventStore {
	return &inMemoryEventStore{streams: make(map[string][]domain.WalletEvent)}
}

func (s *inMemoryEventStore) Load(_ context.Context, walletID string) ([]domain.WalletEvent, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := s.streams[walletID]
	out := make([]domain.WalletEvent, len(events))
	copy(out, events)
	return out, int64(len(events)), nil
}

func (s *inMemoryEventStore) Append(_ context.Context, walletID string, expectedVersion int64, event domain.WalletEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if int64(len(s.streams[walletID])) != expectedVersion {
		return ports.ErrVersionConflict
	}
	s.streams[walletID] = append(s.streams[walletID], event)
	return nil
}

// --- In-Memory Reservation Repo ---

type inMemoryReservationRepo struct {
	mu           sync.RWMutex
	reservations map[string]domain.Reservation
}

func newInMemoryReservationRepo() *inMemoryReservationRepo {
	return &inMemoryReservationRepo{reservations: make(map[string]domain.Reservation)}
}

func (r *inMemoryReservationRepo) Upsert(_ context.Context, res domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations[res.ReservationID] = res
	return nil
}

func (r *inMemoryReservationRepo) Delete(_ context.Context, reservationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reservations, reservationID)
	return nil
}

func (r *inMemoryReservationRepo) GetByID(_ context.Context, reservationID string) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.reservations[reservationID]
	if !ok {
		return nil, nil
	}
	return &res, nil
}
