package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/divvyup/divvy/internal/auth"
	"github.com/divvyup/divvy/internal/models"
	"github.com/divvyup/divvy/internal/storage"
)

const minPasswordLength = 8

// Pragmatic format check; real validation happens when mail bounces.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserService implements signup, login, profile and password business rules.
type UserService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewUserService creates a UserService backed by the given store.
func NewUserService(store storage.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// Signup registers a new user. Email and username uniqueness is checked
// case-insensitively; the stored values keep their original casing. The
// pre-checks race with concurrent signups, so constraint violations from
// the store are re-mapped to the same conflict errors.
func (s *UserService) Signup(ctx context.Context, email, password, username string) (*models.User, error) {
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if username != "" {
		if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
			return nil, ErrUsernameExists
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(email, username, hash)
	if err := s.store.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateEmail):
			return nil, ErrEmailExists
		case errors.Is(err, storage.ErrDuplicateUsername):
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login authenticates by email and password. Unknown email, wrong password
// and deactivated accounts all yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// GetUser fetches a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes email and/or username. A nil field means
// unchanged. A user may "change" a field to the value they already have
// without a conflict; uniqueness checks exclude the user themselves.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, email, username *string) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != nil {
		if !emailPattern.MatchString(*email) {
			return nil, ErrInvalidEmail
		}
		if existing, err := s.store.GetUserByEmail(ctx, *email); err == nil {
			if existing.ID != user.ID {
				return nil, ErrEmailExists
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = *email
	}

	if username != nil {
		if *username != "" {
			if existing, err := s.store.GetUserByUsername(ctx, *username); err == nil {
				if existing.ID != user.ID {
					return nil, ErrUsernameExists
				}
			} else if !errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
		}
		user.Username = *username
	}

	user.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateEmail):
			return nil, ErrEmailExists
		case errors.Is(err, storage.ErrDuplicateUsername):
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return ErrInvalidPassword
	}
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", "user_id", user.ID)
	return nil
}
