package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cinema-wallet/internal/core/domain"
	"cinema-wallet/internal/core/ports"

	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService.
//
// It is the impure shell around the pure Decide/Apply core: it owns the
// per-wallet single-writer discipline (one command decided and applied at a
// time per identity) and all I/O. Wallet state itself is never cached across
// calls; it is replayed from the event store under the identity's lock.
type WalletServiceImpl struct {
	store     ports.EventStore
	publisher ports.WalletEventPublisher
	log       zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(store ports.EventStore, publisher ports.WalletEventPublisher, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{
		store:     store,
		publisher: publisher,
		log:       log,
		locks:     map[string]*sync.Mutex{},
	}
}

// lockFor returns the serialization mutex for a wallet identity.
func (s *WalletServiceImpl) lockFor(walletID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[walletID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[walletID] = l
	}
	return l
}

// Execute loads the wallet, decides the command, appends the resulting event
// and publishes it. A domain.CommandError is a definitive rejection: no event
// was emitted and nothing changed.
func (s *WalletServiceImpl) Execute(ctx context.Context, walletID string, cmd domain.WalletCommand) (domain.WalletEvent, error) {
	l := s.lockFor(walletID)
	l.Lock()
	defer l.Unlock()

	events, version, err := s.store.Load(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("load wallet %s: %w", walletID, err)
	}
	wallet := domain.Replay(events)

	event, err := wallet.Decide(cmd)
	if err != nil {
		var cmdErr domain.CommandError
		if errors.As(err, &cmdErr) {
			s.log.Debug().
				Str("wallet_id", walletID).
				Str("rejection", string(cmdErr)).
				Msg("command rejected")
		}
		return nil, err
	}

	if err := s.store.Append(ctx, walletID, version, event); err != nil {
		if errors.Is(err, ports.ErrVersionConflict) {
			// Another writer appended between load and append (e.g. a second
			// service instance). The command was not applied.
			return nil, fmt.Errorf("wallet %s moved concurrently: %w", walletID, err)
		}
		return nil, fmt.Errorf("append event for wallet %s: %w", walletID, err)
	}

	// Publish after the append is durable. Delivery is at-least-once; a
	// publish failure is logged and the event remains replayable from the
	// store.
	if err := s.publisher.PublishWalletEvent(ctx, event); err != nil {
		s.log.Error().Err(err).
			Str("wallet_id", walletID).
			Str("event_type", event.EventType()).
			Msg("failed to publish wallet event")
	} else {
		s.log.Info().
			Str("wallet_id", walletID).
			Str("event_type", event.EventType()).
			Int64("version", version+1).
			Msg("wallet event appended")
	}

	return event, nil
}

// GetWallet replays and returns the aggregate state.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, walletID string) (domain.Wallet, error) {
	events, _, err := s.store.Load(ctx, walletID)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("load wallet %s: %w", walletID, err)
	}
	wallet := domain.Replay(events)
	if !wallet.Exists() {
		return domain.Wallet{}, domain.ErrWalletNotExists
	}
	return wallet, nil
}
