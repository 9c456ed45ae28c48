package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// createExpenseRequest accepts the amount as a JSON string ("100.00") or
// number; decimal.Decimal parses both without going through a float.
type createExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	Description string          `json:"description,omitempty"`
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID); !ok {
		return
	}

	expenses, err := h.expenses.GetGroupExpenses(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID); !ok {
		return
	}

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.PaidBy == "" {
		writeError(w, http.StatusBadRequest, "paid_by is required")
		return
	}

	expense, err := h.expenses.CreateExpense(r.Context(), groupID, req.Amount, req.PaidBy, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (h *Handler) balanceSummary(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if _, ok := h.requireMember(w, r, groupID); !ok {
		return
	}

	summaries, err := h.expenses.CalculateBalanceSummary(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]balanceResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toBalanceResponse(s))
	}

	writeJSON(w, http.StatusOK, out)
}
