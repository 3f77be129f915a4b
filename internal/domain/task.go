package domain

import (
	"github.com/google/uuid"
)

// Task is the engine's read model of a work item. It is owned by the
// task-management subsystem; the engine never writes it.
//
// DueAt is carried as RFC 3339 text rather than time.Time because the
// legacy schema stores due dates as free text and individual rows can be
// malformed. A bad timestamp must exclude only that task from a scan, so
// parsing is deferred to classification time (see ClassifyDue).
type Task struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	DueAt     string        `json:"due_at,omitempty"`
	Assignees []AssigneeRef `json:"-"`
}

// HasDueDate reports whether the task carries a due timestamp at all.
// It says nothing about whether that timestamp parses.
func (t *Task) HasDueDate() bool {
	return t.DueAt != ""
}
