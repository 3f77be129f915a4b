package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubjectType identifies the kind of work item a notification is about.
type SubjectType string

const (
	SubjectTask    SubjectType = "task"
	SubjectSubtask SubjectType = "subtask"
)

// Condition is the logical event a notification reports.
type Condition string

const (
	ConditionDueSoon  Condition = "due_soon"
	ConditionOverdue  Condition = "overdue"
	ConditionAssigned Condition = "assigned"
)

// Outcome is the terminal delivery outcome of a notification.
type Outcome string

const (
	// OutcomePending marks a notification that has been reserved in the
	// ledger but whose dispatch has not completed yet. Reservation
	// happens immediately before dispatch, so this state is short-lived.
	OutcomePending Outcome = "pending"

	// OutcomeSent means the delivery channel accepted the notification.
	OutcomeSent Outcome = "sent"

	// OutcomeSkippedNoAddress means the recipient has no email address on
	// file. Counted, never retried.
	OutcomeSkippedNoAddress Outcome = "skipped-no-address"

	// OutcomeSkippedSelf means the recipient is the user who performed
	// the triggering mutation. Assignment notifications suppress
	// self-notification.
	OutcomeSkippedSelf Outcome = "skipped-self"

	// OutcomeFailed means the delivery channel rejected the notification
	// or timed out. Terminal for the notification key; a later scan will
	// not silently re-attempt it.
	OutcomeFailed Outcome = "failed"
)

// validOutcomes enumerates every accepted Outcome value.
var validOutcomes = map[Outcome]bool{
	OutcomePending:          true,
	OutcomeSent:             true,
	OutcomeSkippedNoAddress: true,
	OutcomeSkippedSelf:      true,
	OutcomeFailed:           true,
}

// IsValid reports whether o is a known outcome value.
func (o Outcome) IsValid() bool {
	return validOutcomes[o]
}

// NotificationKey is the composite identity of a logical notification:
// one (subject, condition, recipient) triple is issued at most once.
// The ledger enforces this with a unique constraint; the key is the
// engine's sole linearization point.
type NotificationKey struct {
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   uuid.UUID   `json:"subject_id"`
	Condition   Condition   `json:"condition"`
	RecipientID uuid.UUID   `json:"recipient_id"`
}

// Validate checks that the key is complete and uses known enum values.
func (k NotificationKey) Validate() error {
	switch k.SubjectType {
	case SubjectTask, SubjectSubtask:
	default:
		return ErrInvalidSubjectType
	}
	switch k.Condition {
	case ConditionDueSoon, ConditionOverdue, ConditionAssigned:
	default:
		return ErrInvalidCondition
	}
	if k.SubjectID == uuid.Nil {
		return ErrEmptySubjectID
	}
	if k.RecipientID == uuid.Nil {
		return ErrEmptyRecipientID
	}
	return nil
}

// Notification is a ledger entry: the durable record that a notification
// was issued for a key. Created exactly once per key, then updated only
// to set the terminal outcome.
type Notification struct {
	ID          uuid.UUID       `json:"id"`
	Key         NotificationKey `json:"key"`
	Outcome     Outcome         `json:"outcome"`
	MessageID   string          `json:"message_id,omitempty"`
	ErrorDetail string          `json:"error_detail,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewNotification creates a pending ledger entry for the given key.
// Returns an error if the key fails validation.
func NewNotification(key NotificationKey, now time.Time) (*Notification, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return &Notification{
		ID:        uuid.New(),
		Key:       key,
		Outcome:   OutcomePending,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// DispatchResult is the outcome of one delivery attempt for one
// recipient. Dispatch never fails past its boundary: callers always get
// a result, even when the channel errored.
type DispatchResult struct {
	Outcome   Outcome `json:"outcome"`
	MessageID string  `json:"message_id,omitempty"`
	Detail    string  `json:"detail,omitempty"`
}
