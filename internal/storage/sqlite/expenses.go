package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/models"
)

// CreateExpense inserts a new expense. Amounts are stored as fixed
// two-fraction-digit decimal strings, never as REAL.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (id, group_id, paid_by, amount, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		expense.ID,
		expense.GroupID,
		expense.PaidBy,
		expense.Amount.StringFixed(2),
		nullableString(expense.Description),
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// ListExpensesByGroup returns the group's expenses newest first. The rowid
// tiebreak keeps insertion order when timestamps collide within a second.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, paid_by, amount, description, created_at, updated_at
		FROM expenses
		WHERE group_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var amount string
		var description sql.NullString
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.PaidBy,
			&amount,
			&description,
			&expense.CreatedAt,
			&expense.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}

		expense.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored amount %q: %w", amount, err)
		}
		expense.Description = description.String
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}
