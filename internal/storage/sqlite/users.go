package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/divvyup/divvy/internal/models"
	"github.com/divvyup/divvy/internal/storage"
)

const userColumns = "id, email, username, password_hash, is_active, created_at, updated_at"

// CreateUser inserts a new user. Unique constraint violations on email or
// username are translated to the corresponding storage sentinel errors so
// concurrent signups racing past the service-level checks still fail cleanly.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.Username),
		user.PasswordHash,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if mapped := mapUserConstraint(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = ? COLLATE NOCASE", email)
}

// GetUserByUsername retrieves a user by username, case-insensitively.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = ? COLLATE NOCASE", username)
}

// UpdateUser persists profile and password changes.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = ?, username = ?, password_hash = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		user.Email,
		nullableString(user.Username),
		user.PasswordHash,
		user.IsActive,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if mapped := mapUserConstraint(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *SQLiteStore) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	var username sql.NullString

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&username,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Username = username.String
	return user, nil
}

// mapUserConstraint converts unique violations on the users table to
// storage sentinel errors. Returns nil if err is not one of them.
func mapUserConstraint(err error) error {
	switch {
	case isUniqueViolation(err, "users.email"):
		return storage.ErrDuplicateEmail
	case isUniqueViolation(err, "users.username"):
		return storage.ErrDuplicateUsername
	default:
		return nil
	}
}

// nullableString stores the empty string as NULL so the partial unique
// index on username only applies to users who actually set one.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
