package models

import "github.com/shopspring/decimal"

// BalanceSummary is one member's position within a group. It is derived
// from current memberships and expenses on every query and never persisted.
type BalanceSummary struct {
	// User is the member this summary describes.
	User *User

	// TotalPaid is the sum of expense amounts this member paid.
	TotalPaid decimal.Decimal

	// TotalOwed is the member's equal share of the group total,
	// independent of whether they paid anything.
	TotalOwed decimal.Decimal

	// NetBalance is TotalPaid minus TotalOwed. Positive means the group
	// owes this member money, negative means they owe the group.
	NetBalance decimal.Decimal
}
