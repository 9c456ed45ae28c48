// Package service implements the business rules for users, groups and
// expenses on top of the storage interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/divvyup/divvy/internal/models"
	"github.com/divvyup/divvy/internal/storage"
)

// GroupService implements group lifecycle and membership management.
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a GroupService backed by the given store.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

// CreateGroup creates a group and joins the creator as its first member.
// Both writes happen in one storage transaction, so a group with zero
// members is never observable.
func (s *GroupService) CreateGroup(ctx context.Context, name, description, createdBy string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	group := models.NewGroup(name, strings.TrimSpace(description), createdBy)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info("group created", "group_id", group.ID, "created_by", createdBy)
	return group, nil
}

// AddMember adds a user to a group. The duplicate check is backed by the
// membership primary key, so a racing concurrent add fails with
// ErrAlreadyMember rather than creating a second row.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID string) (*models.GroupMembership, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	membership := &models.GroupMembership{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now().Unix(),
	}
	if err := s.store.AddMember(ctx, membership); err != nil {
		if errors.Is(err, storage.ErrDuplicateMembership) {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.logger.Info("member added", "group_id", groupID, "user_id", userID)
	return membership, nil
}

// GetUserGroups returns the distinct groups the user belongs to.
func (s *GroupService) GetUserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	groups, err := s.store.ListGroupsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// GetGroupMembers returns the group's members in join order.
func (s *GroupService) GetGroupMembers(ctx context.Context, groupID string) ([]*models.User, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// GetGroup fetches a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// MemberCount returns the number of members in the group.
func (s *GroupService) MemberCount(ctx context.Context, groupID string) (int, error) {
	count, err := s.store.CountMembers(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

// DeleteGroup removes a group. Only the creator may delete; memberships
// and expenses go with it.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, userID string) error {
	group, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if group.CreatedBy != userID {
		return ErrNotGroupCreator
	}

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to delete group: %w", err)
	}

	s.logger.Info("group deleted", "group_id", groupID, "deleted_by", userID)
	return nil
}

// IsMember is the authorization predicate for all group-scoped endpoints:
// membership row lookup, no role flags.
func (s *GroupService) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	member, err := s.store.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return member, nil
}
