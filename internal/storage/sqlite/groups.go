package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/divvyup/divvy/internal/models"
	"github.com/divvyup/divvy/internal/storage"
)

// CreateGroup inserts the group and the creator's membership in a single
// transaction, so a group without its creator is never observable.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, description, created_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		group.ID, group.Name, nullableString(group.Description), group.CreatedBy, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
		group.ID, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group := &models.Group{}
	var description sql.NullString

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_by, created_at, updated_at FROM groups WHERE id = ?",
		id,
	).Scan(&group.ID, &group.Name, &description, &group.CreatedBy, &group.CreatedAt, &group.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.Description = description.String
	return group, nil
}

// DeleteGroup removes the group. Memberships and expenses are removed by
// the ON DELETE CASCADE constraints.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ListGroupsByUser returns the groups the user is a member of, oldest
// membership first.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ?
		ORDER BY m.joined_at, m.rowid
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var description sql.NullString
		if err := rows.Scan(&group.ID, &group.Name, &description, &group.CreatedBy, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.Description = description.String
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// AddMember inserts a membership row. The (group_id, user_id) primary key
// turns a concurrent duplicate add into ErrDuplicateMembership.
func (s *SQLiteStore) AddMember(ctx context.Context, membership *models.GroupMembership) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
		membership.GroupID, membership.UserID, membership.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "group_members.") {
			return storage.ErrDuplicateMembership
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// IsMember reports whether the user has a membership row for the group.
func (s *SQLiteStore) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	return true, nil
}

// ListMembers returns the group's members in join order. joined_at has
// second granularity, so the membership rowid breaks ties in insertion
// order; the creator always sorts before members added in the same second.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.username, u.password_hash, u.is_active, u.created_at, u.updated_at
		FROM users u
		JOIN group_members m ON m.user_id = u.id
		WHERE m.group_id = ?
		ORDER BY m.joined_at, m.rowid
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.User
	for rows.Next() {
		user := &models.User{}
		var username sql.NullString
		if err := rows.Scan(&user.ID, &user.Email, &username, &user.PasswordHash, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		user.Username = username.String
		members = append(members, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// CountMembers returns the number of members in the group.
func (s *SQLiteStore) CountMembers(ctx context.Context, groupID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM group_members WHERE group_id = ?",
		groupID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}

	return count, nil
}
