package domain

import (
	"fmt"
	"time"
)

// Urgency is a task's derived due-date class. It is computed per scan
// from the due timestamp and the caller-supplied current time; it is
// never stored authoritatively.
type Urgency string

const (
	// UrgencyNormal means no due date, or a due date beyond the lookahead
	// window.
	UrgencyNormal Urgency = "normal"

	// UrgencyDueSoon means the due date falls within the lookahead window.
	UrgencyDueSoon Urgency = "due_soon"

	// UrgencyOverdue means the due date is in the past.
	UrgencyOverdue Urgency = "overdue"
)

// DefaultDueSoonWindow is the lookahead boundary for due_soon
// classification when no window is configured.
const DefaultDueSoonWindow = 24 * time.Hour

// ClassifyDue computes the urgency class for a due timestamp.
//
// The classification is exhaustive and mutually exclusive:
//   - overdue  iff dueAt is present and dueAt < now
//   - due_soon iff dueAt is present and now <= dueAt <= now + window
//   - normal   otherwise (empty dueAt, or due date beyond the window)
//
// dueAt is RFC 3339 text; an empty string means the task has no due date.
// A non-empty string that does not parse returns ErrInvalidTimestamp, the
// only failure mode. Pure function, no side effects.
func ClassifyDue(dueAt string, now time.Time, window time.Duration) (Urgency, error) {
	if dueAt == "" {
		return UrgencyNormal, nil
	}

	due, err := time.Parse(time.RFC3339, dueAt)
	if err != nil {
		return UrgencyNormal, fmt.Errorf("%w: %q", ErrInvalidTimestamp, dueAt)
	}

	if due.Before(now) {
		return UrgencyOverdue, nil
	}
	if due.Sub(now) <= window {
		return UrgencyDueSoon, nil
	}
	return UrgencyNormal, nil
}

// Condition returns the notification condition corresponding to this
// urgency class. Only due_soon and overdue map to a condition; a normal
// task produces no notifications.
func (u Urgency) Condition() (Condition, bool) {
	switch u {
	case UrgencyDueSoon:
		return ConditionDueSoon, true
	case UrgencyOverdue:
		return ConditionOverdue, true
	default:
		return "", false
	}
}
