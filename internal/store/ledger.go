package store

import (
	"context"
	"time"

	"github.com/mwhitlock/taskping/internal/domain"
)

// NotificationLedger is the durable record of notifications already
// issued, keyed by (subject type, subject id, condition, recipient id).
// It is what makes re-scans idempotent: a key reserved by an earlier run
// is never dispatched again.
type NotificationLedger interface {
	// TryReserve atomically records the intent to notify for a key.
	// It returns true when the key was newly reserved and the caller
	// should dispatch, false when an entry already exists and the caller
	// must not dispatch. Concurrent reservations of the same key resolve
	// so that exactly one caller sees true; this is the only operation
	// in the engine that requires an atomic check-and-insert from the
	// backing store.
	TryReserve(ctx context.Context, key domain.NotificationKey, now time.Time) (bool, error)

	// RecordOutcome updates the reserved entry with its terminal
	// delivery result. Entries are never mutated in any other way.
	// Returns ErrNotificationNotFound if no entry exists for the key.
	RecordOutcome(ctx context.Context, key domain.NotificationKey, result domain.DispatchResult) error
}
