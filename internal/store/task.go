package store

import (
	"context"

	"github.com/mwhitlock/taskping/internal/domain"
)

// TaskReader defines read access to the task model for scan cycles.
type TaskReader interface {
	// ListDueCandidates returns every task that has a due timestamp and
	// is not in a terminal completion state, with its assignee
	// references attached. The due timestamp is returned as stored; rows
	// with malformed timestamps are included and excluded later, at
	// classification time.
	ListDueCandidates(ctx context.Context) ([]*domain.Task, error)
}
