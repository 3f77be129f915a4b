package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mwhitlock/taskping/internal/domain"
	"github.com/mwhitlock/taskping/internal/store"
)

// PostgresUserStore implements the store.UserStore interface using a
// PostgreSQL database as the storage backend. The engine only reads
// users; writes stay with the account subsystem.
type PostgresUserStore struct {
	db store.DBTX
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection that should be
// initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX) *PostgresUserStore {
	return &PostgresUserStore{
		db: db,
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, display_name, email, created_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	var email sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&email,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
		}
		return nil, MapError(err)
	}

	user.Email = email.String
	return &user, nil
}

// FindByName implements store.UserStore.FindByName. The comparison is
// case-insensitive and ignores whitespace around the stored name; the
// caller trims its own input.
func (s *PostgresUserStore) FindByName(ctx context.Context, name string) ([]*domain.User, error) {
	query := `
		SELECT id, display_name, email, created_at
		FROM users
		WHERE LOWER(TRIM(display_name)) = LOWER($1)
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		var email sql.NullString
		if err := rows.Scan(&user.ID, &user.DisplayName, &email, &user.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		user.Email = email.String
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return users, nil
}
