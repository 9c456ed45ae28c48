package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/calculator"
	"github.com/divvyup/divvy/internal/models"
	"github.com/divvyup/divvy/internal/storage"
)

// ExpenseService implements expense recording and the balance-summary
// computation.
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates an ExpenseService backed by the given store.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// CreateExpense records an expense against a group. The payer must
// resolve to an existing user (ErrUserNotFound otherwise) and must be a
// current member of the group (ErrInvalidPayer — a validation failure,
// not a not-found). Amounts must be positive with at most two fraction
// digits.
func (s *ExpenseService) CreateExpense(ctx context.Context, groupID string, amount decimal.Decimal, paidByID, description string) (*models.Expense, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if !amount.IsPositive() || amount.Exponent() < -2 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.store.GetUserByID(ctx, paidByID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get payer: %w", err)
	}

	member, err := s.store.IsMember(ctx, groupID, paidByID)
	if err != nil {
		return nil, fmt.Errorf("failed to check payer membership: %w", err)
	}
	if !member {
		return nil, ErrInvalidPayer
	}

	expense := models.NewExpense(groupID, paidByID, amount, strings.TrimSpace(description))
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("expense recorded",
		"expense_id", expense.ID,
		"group_id", groupID,
		"paid_by", paidByID,
		"amount", expense.Amount.StringFixed(2),
	)
	return expense, nil
}

// GetGroupExpenses returns the group's expenses newest first.
func (s *ExpenseService) GetGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// CalculateBalanceSummary recomputes each current member's position from
// the latest committed memberships and expenses. Nothing is cached.
// Results come back in membership join order.
func (s *ExpenseService) CalculateBalanceSummary(ctx context.Context, groupID string) ([]models.BalanceSummary, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	memberIDs := make([]string, len(members))
	for i, m := range members {
		memberIDs[i] = m.ID
	}
	calcExpenses := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		calcExpenses[i] = calculator.ExpenseForBalance{PaidBy: e.PaidBy, Amount: e.Amount}
	}

	balances := calculator.GroupBalances(memberIDs, calcExpenses)

	summaries := make([]models.BalanceSummary, len(balances))
	for i, b := range balances {
		summaries[i] = models.BalanceSummary{
			User:       members[i],
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
			NetBalance: b.NetBalance,
		}
	}

	return summaries, nil
}
