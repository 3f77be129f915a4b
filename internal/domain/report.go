package domain

import "time"

// RunReport aggregates the counts of one scan cycle. It is ephemeral:
// the engine returns it to the trigger caller and does not persist it.
type RunReport struct {
	// EvaluatedAt is the "current time" the scan was evaluated against,
	// supplied by the caller.
	EvaluatedAt time.Time `json:"evaluated_at"`

	// TasksExamined counts every candidate task the scan looked at,
	// including ones classified normal or excluded for a bad timestamp.
	TasksExamined int `json:"tasks_examined"`

	// DueSoon and Overdue count tasks per urgency class.
	DueSoon int `json:"due_soon"`
	Overdue int `json:"overdue"`

	// Sent, SkippedNoAddress and Failed count dispatch outcomes.
	Sent             int `json:"sent"`
	SkippedNoAddress int `json:"skipped_no_address"`
	Failed           int `json:"failed"`

	// Deduplicated counts (subject, condition, recipient) keys that were
	// already reserved by an earlier run and therefore not re-dispatched.
	Deduplicated int `json:"deduplicated"`

	// ResolutionMisses counts recipients that could not be resolved to a
	// user (unknown id, name not found, ambiguous name, or a lookup
	// error).
	ResolutionMisses int `json:"resolution_misses"`

	// InvalidTimestamps counts tasks excluded because their due timestamp
	// did not parse.
	InvalidTimestamps int `json:"invalid_timestamps"`
}
