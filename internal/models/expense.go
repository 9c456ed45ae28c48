package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense represents a single shared cost recorded against a group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to. Expenses are owned
	// by their group and removed when the group is deleted.
	GroupID string

	// PaidBy is the ID of the member who paid. The payer must be a
	// member of the group at creation time.
	PaidBy string

	// Amount is the positive expense amount with two fraction digits.
	Amount decimal.Decimal

	// Description is optional free text.
	Description string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64
}

// NewExpense builds an Expense with a fresh ID and timestamps.
func NewExpense(groupID, paidBy string, amount decimal.Decimal, description string) *Expense {
	now := time.Now().Unix()
	return &Expense{
		ID:          uuid.New().String(),
		GroupID:     groupID,
		PaidBy:      paidBy,
		Amount:      amount,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
