package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinema-wallet/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// ReservationCache implements ports.ReservationCache using Redis.
type ReservationCache struct {
	client *goredis.Client
	prefix string
}

// NewReservationCache creates a new Redis-backed reservation cache.
func NewReservationCache(client *goredis.Client) *ReservationCache {
	return &ReservationCache{
		client: client,
		prefix: "reservation:",
	}
}

// Get retrieves a cached reservation. Returns nil, nil on a miss.
func (c *ReservationCache) Get(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	val, err := c.client.Get(ctx, c.prefix+reservationID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis reservation get: %w", err)
	}

	var r domain.Reservation
	if err := json.Unmarshal(val, &r); err != nil {
		return nil, fmt.Errorf("decode cached reservation: %w", err)
	}
	return &r, nil
}

// Set stores a reservation with TTL.
func (c *ReservationCache) Set(ctx context.Context, r domain.Reservation, ttl time.Duration) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode reservation: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+r.ReservationID, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis reservation set: %w", err)
	}
	return nil
}

// Delete removes a cached reservation.
func (c *ReservationCache) Delete(ctx context.Context, reservationID string) error {
	if err := c.client.Del(ctx, c.prefix+reservationID).Err(); err != nil {
		return fmt.Errorf("redis reservation del: %w", err)
	}
	return nil
}
