// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/divvyup/divvy/internal/models"
)

// Sentinel errors returned by store implementations. Constraint violations
// raised by the underlying database are translated to these before they
// reach the service layer, so services never see driver-specific failures.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an insert or update would
	// violate the case-insensitive unique email constraint.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicateUsername is returned when an insert or update would
	// violate the case-insensitive unique username constraint.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateMembership is returned when a (group, user) membership
	// already exists.
	ErrDuplicateMembership = errors.New("membership already exists")
)

// UserStore persists user accounts. Email and username lookups are
// case-insensitive; stored values keep their original casing.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID returns ErrNotFound if no user has the given ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail performs a case-insensitive lookup.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUsername performs a case-insensitive lookup.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateUser persists changes to an existing user.
	UpdateUser(ctx context.Context, user *models.User) error
}

// GroupStore persists groups.
type GroupStore interface {
	// CreateGroup inserts the group and the creator's membership in a
	// single transaction. A group with zero members is never observable.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns ErrNotFound if no group has the given ID.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// DeleteGroup removes the group. Memberships and expenses cascade.
	DeleteGroup(ctx context.Context, id string) error

	// ListGroupsByUser returns the distinct groups the user belongs to.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)
}

// MembershipStore persists group memberships.
type MembershipStore interface {
	// AddMember returns ErrDuplicateMembership if the (group, user) pair
	// already exists. The uniqueness guarantee comes from the database
	// constraint, not a pre-check, so concurrent adds are safe.
	AddMember(ctx context.Context, membership *models.GroupMembership) error

	// IsMember reports whether the user has a membership in the group.
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	// ListMembers returns the group's members ordered by join time.
	ListMembers(ctx context.Context, groupID string) ([]*models.User, error)

	// CountMembers returns the number of members in the group.
	CountMembers(ctx context.Context, groupID string) (int, error)
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByGroup returns the group's expenses newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
}

// TokenStore persists revoked token identifiers for the blacklist.
type TokenStore interface {
	// RevokeToken records the token ID as revoked. Revoking an already
	// revoked ID is a no-op.
	RevokeToken(ctx context.Context, jti string) error

	// IsTokenRevoked reports whether the token ID has been revoked.
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Store is the full persistence surface the service layer depends on.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	MembershipStore
	ExpenseStore
	TokenStore

	// Close releases any resources held by the store.
	Close() error
}
