package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/store"
)

// PostgresNotificationLedger implements the store.NotificationLedger
// interface using PostgreSQL. The unique index over
// (subject_type, subject_id, condition, recipient_id) is what makes
// TryReserve first-writer-wins.
type PostgresNotificationLedger struct {
	db store.DBTX
}

// NewPostgresNotificationLedger creates a new PostgresNotificationLedger.
func NewPostgresNotificationLedger(db store.DBTX) *PostgresNotificationLedger {
	return &PostgresNotificationLedger{
		db: db,
	}
}

// Ensure PostgresNotificationLedger implements store.NotificationLedger
var _ store.NotificationLedger = (*PostgresNotificationLedger)(nil)

// TryReserve implements store.NotificationLedger.TryReserve.
//
// ON CONFLICT DO NOTHING makes the check-and-insert a single atomic
// statement: of any number of concurrent attempts on the same key,
// exactly one inserts a row and sees RowsAffected() == 1.
func (l *PostgresNotificationLedger) TryReserve(
	ctx context.Context,
	key domain.NotificationKey,
	now time.Time,
) (bool, error) {
	entry, err := domain.NewNotification(key, now)
	if err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO notifications
			(id, subject_type, subject_id, condition, recipient_id, outcome, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (subject_type, subject_id, condition, recipient_id) DO NOTHING
	`

	result, err := l.db.ExecContext(ctx, query,
		entry.ID,
		entry.Key.SubjectType,
		entry.Key.SubjectID,
		entry.Key.Condition,
		entry.Key.RecipientID,
		entry.Outcome,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return false, NewStoreErrorFromDB("notification", "reserve", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, NewStoreErrorFromDB("notification", "reserve", err)
	}

	return affected == 1, nil
}

// RecordOutcome implements store.NotificationLedger.RecordOutcome.
func (l *PostgresNotificationLedger) RecordOutcome(
	ctx context.Context,
	key domain.NotificationKey,
	result domain.DispatchResult,
) error {
	if !result.Outcome.IsValid() {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrInvalidOutcome)
	}

	query := `
		UPDATE notifications
		SET outcome = $1, message_id = $2, error_detail = $3, updated_at = $4
		WHERE subject_type = $5 AND subject_id = $6 AND condition = $7 AND recipient_id = $8
	`

	res, err := l.db.ExecContext(ctx, query,
		result.Outcome,
		nullIfEmpty(result.MessageID),
		nullIfEmpty(result.Detail),
		time.Now().UTC(),
		key.SubjectType,
		key.SubjectID,
		key.Condition,
		key.RecipientID,
	)
	if err != nil {
		return NewStoreErrorFromDB("notification", "record_outcome", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return NewStoreErrorFromDB("notification", "record_outcome", err)
	}
	if affected == 0 {
		return store.ErrNotificationNotFound
	}

	return nil
}

// nullIfEmpty converts an empty string to a SQL NULL.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// NewStoreErrorFromDB wraps a database error as a StoreError after
// mapping it to the store sentinels.
func NewStoreErrorFromDB(entity, operation string, err error) error {
	return store.NewStoreError(entity, operation, "database error", MapError(err))
}
