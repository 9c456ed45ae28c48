package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/divvyup/divvy/internal/middleware"
	"github.com/divvyup/divvy/internal/models"
	"github.com/divvyup/divvy/internal/service"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type addMemberRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) toGroupResponse(ctx context.Context, group *models.Group) (groupResponse, error) {
	count, err := h.groups.MemberCount(ctx, group.ID)
	if err != nil {
		return groupResponse{}, err
	}
	return groupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		CreatedBy:   group.CreatedBy,
		MemberCount: count,
		CreatedAt:   group.CreatedAt,
	}, nil
}

// requireMember resolves the group (404 if absent) and checks that the
// requester is a member (403 if not). Every group-scoped endpoint runs
// through this predicate; non-members get the same answer whether or not
// the group holds data.
func (h *Handler) requireMember(w http.ResponseWriter, r *http.Request, groupID string) (string, bool) {
	userID := middleware.GetUserID(r.Context())

	if _, err := h.groups.GetGroup(r.Context(), groupID); err != nil {
		writeServiceError(w, err)
		return "", false
	}

	member, err := h.groups.IsMember(r.Context(), groupID, userID)
	if err != nil {
		writeServiceError(w, err)
		return "", false
	}
	if !member {
		writeServiceError(w, service.ErrNotGroupMember)
		return "", false
	}

	return userID, true
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.GetUserGroups(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		resp, err := h.toGroupResponse(r.Context(), g)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out = append(out, resp)
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), req.Name, req.Description, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp, err := h.toGroupResponse(r.Context(), group)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID); !ok {
		return
	}

	group, err := h.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp, err := h.toGroupResponse(r.Context(), group)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	err := h.groups.DeleteGroup(r.Context(), groupID, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID); !ok {
		return
	}

	members, err := h.groups.GetGroupMembers(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]userResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toUserResponse(m))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID); !ok {
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	membership, err := h.groups.AddMember(r.Context(), groupID, req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, membershipResponse{
		GroupID:  membership.GroupID,
		UserID:   membership.UserID,
		JoinedAt: membership.JoinedAt,
	})
}
