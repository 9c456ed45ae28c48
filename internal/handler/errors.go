package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/divvyup/divvy/internal/auth"
	"github.com/divvyup/divvy/internal/service"
)

// writeServiceError maps domain errors to transport status codes. This is
// the only place HTTP semantics meet the error taxonomy; the services
// themselves never encode status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidPayer):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrUsernameExists),
		errors.Is(err, service.ErrAlreadyMember):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrRevokedToken),
		errors.Is(err, auth.ErrMissingToken):
		writeError(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrNotGroupMember),
		errors.Is(err, service.ErrNotGroupCreator):
		writeError(w, http.StatusForbidden, err.Error())

	default:
		// Unrecognized failures are faults, not domain outcomes. Log the
		// detail, return a generic message.
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
