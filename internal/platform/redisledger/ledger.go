// Package redisledger implements the notification ledger on Redis for
// deployments that prefer TTL-based pruning over a relational table.
// SetNX provides the atomic check-and-insert the ledger contract
// requires.
package redisledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/store"
)

// entry is the JSON value stored per notification key.
type entry struct {
	Outcome   domain.Outcome `json:"outcome"`
	MessageID string         `json:"message_id,omitempty"`
	Detail    string         `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Ledger stores issued-notification records in Redis so all engine
// instances share one dedup view.
type Ledger struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a ledger using the provided Redis client and TTL.
// A zero TTL keeps entries indefinitely.
func New(client *redis.Client, ttl time.Duration) *Ledger {
	return &Ledger{client: client, ttl: ttl}
}

// Ensure Ledger implements store.NotificationLedger
var _ store.NotificationLedger = (*Ledger)(nil)

func (l *Ledger) key(k domain.NotificationKey) string {
	return fmt.Sprintf("notification:%s:%s:%s:%s", k.SubjectType, k.SubjectID, k.Condition, k.RecipientID)
}

// TryReserve implements store.NotificationLedger.TryReserve. SetNX
// records the key only when absent, so of any number of concurrent
// reservation attempts exactly one returns true.
func (l *Ledger) TryReserve(ctx context.Context, key domain.NotificationKey, now time.Time) (bool, error) {
	if err := key.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	val, err := json.Marshal(entry{
		Outcome:   domain.OutcomePending,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("encoding ledger entry: %w", err)
	}

	reserved, err := l.client.SetNX(ctx, l.key(key), val, l.ttl).Result()
	if err != nil {
		return false, store.NewStoreError("notification", "reserve", "redis error", err)
	}
	return reserved, nil
}

// RecordOutcome implements store.NotificationLedger.RecordOutcome. The
// existing entry is overwritten with the terminal outcome; KeepTTL
// preserves whatever expiry the reservation set.
func (l *Ledger) RecordOutcome(ctx context.Context, key domain.NotificationKey, result domain.DispatchResult) error {
	if !result.Outcome.IsValid() {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrInvalidOutcome)
	}

	k := l.key(key)

	raw, err := l.client.Get(ctx, k).Bytes()
	if err != nil {
		if err == redis.Nil {
			return store.ErrNotificationNotFound
		}
		return store.NewStoreError("notification", "record_outcome", "redis error", err)
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return store.NewStoreError("notification", "record_outcome", "corrupt ledger entry", err)
	}

	e.Outcome = result.Outcome
	e.MessageID = result.MessageID
	e.Detail = result.Detail
	e.UpdatedAt = time.Now().UTC()

	val, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding ledger entry: %w", err)
	}

	if err := l.client.Set(ctx, k, val, redis.KeepTTL).Err(); err != nil {
		return store.NewStoreError("notification", "record_outcome", "redis error", err)
	}
	return nil
}
