package models

import (
	"time"

	"github.com/google/uuid"
)

// Group represents a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name, non-empty after trimming.
	Name string

	// Description is optional free text. Empty string means no description.
	Description string

	// CreatedBy is the ID of the owning user. Immutable after creation;
	// only this user may delete the group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64
}

// NewGroup builds a Group with a fresh ID and timestamps.
func NewGroup(name, description, createdBy string) *Group {
	now := time.Now().Unix()
	return &Group{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// GroupMembership links one user to one group. At most one membership
// exists per (group, user) pair; a duplicate insert is a conflict.
type GroupMembership struct {
	GroupID string
	UserID  string

	// JoinedAt is the Unix timestamp when the membership was created.
	JoinedAt int64
}
