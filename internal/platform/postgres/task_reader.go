package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/store"
)

// PostgresTaskReader implements the store.TaskReader interface over the
// task-management subsystem's tables.
type PostgresTaskReader struct {
	db store.DBTX
}

// NewPostgresTaskReader creates a new PostgresTaskReader.
func NewPostgresTaskReader(db store.DBTX) *PostgresTaskReader {
	return &PostgresTaskReader{
		db: db,
	}
}

// Ensure PostgresTaskReader implements store.TaskReader interface
var _ store.TaskReader = (*PostgresTaskReader)(nil)

// ListDueCandidates implements store.TaskReader.ListDueCandidates.
//
// The due timestamp column is legacy text, so it is scanned as-is and
// left for classification to parse. Assignments join in both reference
// forms: assignee_id for the current flow and assignee_name for the
// legacy subtask flow.
func (r *PostgresTaskReader) ListDueCandidates(ctx context.Context) ([]*domain.Task, error) {
	query := `
		SELECT t.id, t.title, t.due_at, a.assignee_id, a.assignee_name
		FROM tasks t
		LEFT JOIN task_assignments a ON a.task_id = t.id
		WHERE t.due_at IS NOT NULL AND t.due_at <> ''
		  AND t.completed_at IS NULL
		ORDER BY t.id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	byID := make(map[uuid.UUID]*domain.Task)

	for rows.Next() {
		var (
			id           uuid.UUID
			title        string
			dueAt        string
			assigneeID   uuid.NullUUID
			assigneeName sql.NullString
		)
		if err := rows.Scan(&id, &title, &dueAt, &assigneeID, &assigneeName); err != nil {
			return nil, MapError(err)
		}

		task, ok := byID[id]
		if !ok {
			task = &domain.Task{
				ID:    id,
				Title: title,
				DueAt: dueAt,
			}
			byID[id] = task
			tasks = append(tasks, task)
		}

		switch {
		case assigneeID.Valid:
			task.Assignees = append(task.Assignees, domain.AssigneeByID(assigneeID.UUID))
		case assigneeName.Valid && assigneeName.String != "":
			task.Assignees = append(task.Assignees, domain.AssigneeByName(assigneeName.String))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}
