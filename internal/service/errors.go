package service

import "errors"

// Domain errors raised by the services. The HTTP layer is the only place
// these are mapped to status codes; nothing here knows about transport.
var (
	// Validation errors.
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrWeakPassword  = errors.New("password must be at least 8 characters long")
	ErrEmptyName     = errors.New("group name is required")
	ErrInvalidAmount = errors.New("amount must be positive with at most two decimal places")
	ErrInvalidPayer  = errors.New("payer is not a member of this group")

	// Conflict errors.
	ErrEmailExists    = errors.New("a user with this email already exists")
	ErrUsernameExists = errors.New("a user with this username already exists")
	ErrAlreadyMember  = errors.New("user is already a member of this group")

	// Not-found errors.
	ErrUserNotFound  = errors.New("user not found")
	ErrGroupNotFound = errors.New("group not found")

	// Unauthorized errors. Bad email and bad password deliberately share
	// one error so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPassword    = errors.New("current password is incorrect")

	// Forbidden errors.
	ErrNotGroupMember  = errors.New("user is not a member of this group")
	ErrNotGroupCreator = errors.New("only the group creator can delete the group")
)
