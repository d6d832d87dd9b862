package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cinema-wallet/internal/core/domain"
	"cinema-wallet/internal/core/ports"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// EventStore implements ports.EventStore on an append-only wallet_events
// table. The (wallet_id, sequence) primary key gives per-wallet ordering and
// turns a lost optimistic append into a unique violation.
//
// Schema:
//
//	CREATE TABLE wallet_events (
//	    wallet_id  TEXT        NOT NULL,
//	    sequence   BIGINT      NOT NULL,
//	    event_type TEXT        NOT NULL,
//	    payload    JSONB       NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    PRIMARY KEY (wallet_id, sequence)
//	);
type EventStore struct {
	pool Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Load returns the wallet's events in append order and the current version.
func (s *EventStore) Load(ctx context.Context, walletID string) ([]domain.WalletEvent, int64, error) {
	query := `SELECT sequence, event_type, payload FROM wallet_events
		WHERE wallet_id = $1 ORDER BY sequence`

	rows, err := s.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, 0, fmt.Errorf("query wallet events: %w", err)
	}
	defer rows.Close()

	var (
		events  []domain.WalletEvent
		version int64
	)
	for rows.Next() {
		var (
			sequence  int64
			eventType string
			payload   []byte
		)
		if err := rows.Scan(&sequence, &eventType, &payload); err != nil {
			return nil, 0, fmt.Errorf("scan wallet event: %w", err)
		}
		event, err := domain.UnmarshalWalletEventPayload(eventType, payload)
		if err != nil {
			return nil, 0, fmt.Errorf("decode wallet event seq %d: %w", sequence, err)
		}
		events = append(events, event)
		version = sequence
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate wallet events: %w", err)
	}
	return events, version, nil
}

// Append writes one event at expectedVersion+1.
func (s *EventStore) Append(ctx context.Context, walletID string, expectedVersion int64, event domain.WalletEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.EventType(), err)
	}

	query := `INSERT INTO wallet_events (wallet_id, sequence, event_type, payload)
		VALUES ($1, $2, $3, $4)`

	_, err = s.pool.Exec(ctx, query, walletID, expectedVersion+1, event.EventType(), payload)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ports.ErrVersionConflict
		}
		return fmt.Errorf("insert wallet event: %w", err)
	}
	return nil
}
