package handler

import (
	"encoding/json"
	"net/http"

	"github.com/divvyup/divvy/internal/middleware"
)

// updateProfileRequest uses pointers so an absent field means "unchanged"
// while an explicit empty username clears it.
type updateProfileRequest struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// updateProfile serves both PUT and PATCH; with pointer fields the two
// behave identically.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), req.Email, req.Username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "old_password and new_password are required")
		return
	}

	if err := h.users.ChangePassword(r.Context(), middleware.GetUserID(r.Context()), req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}
