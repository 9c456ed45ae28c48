package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/divvyup/divvy/internal/models"
)

// userResponse is the wire shape for users. The password hash never
// leaves the service.
type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type groupResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedBy   string `json:"created_by"`
	MemberCount int    `json:"member_count"`
	CreatedAt   int64  `json:"created_at"`
}

type membershipResponse struct {
	GroupID  string `json:"group_id"`
	UserID   string `json:"user_id"`
	JoinedAt int64  `json:"joined_at"`
}

// expenseResponse serializes amounts as fixed two-fraction-digit strings
// ("100.00"), never as JSON numbers.
type expenseResponse struct {
	ID          string `json:"id"`
	GroupID     string `json:"group_id"`
	PaidBy      string `json:"paid_by"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

type balanceResponse struct {
	User       userResponse `json:"user"`
	TotalPaid  string       `json:"total_paid"`
	TotalOwed  string       `json:"total_owed"`
	NetBalance string       `json:"net_balance"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PaidBy:      e.PaidBy,
		Amount:      e.Amount.StringFixed(2),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

func toBalanceResponse(b models.BalanceSummary) balanceResponse {
	return balanceResponse{
		User:       toUserResponse(b.User),
		TotalPaid:  b.TotalPaid.StringFixed(2),
		TotalOwed:  b.TotalOwed.StringFixed(2),
		NetBalance: b.NetBalance.StringFixed(2),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
