// Package calculator implements the equal-split balance arithmetic.
//
// All math is done with decimal.Decimal at two fraction digits. The
// per-member share is the group total divided by the member count, rounded
// half away from zero (ordinary decimal rounding, not banker's). When the
// total does not divide evenly the rounded shares may not sum back to the
// total (100.00 across 3 members yields 33.33 each, 99.99 in all); the
// remainder is an accepted approximation and is not redistributed.
package calculator

import "github.com/shopspring/decimal"

// ExpenseForBalance carries the minimal expense information needed for
// balance calculations.
type ExpenseForBalance struct {
	PaidBy string
	Amount decimal.Decimal
}

// MemberBalance is one member's computed position within a group.
type MemberBalance struct {
	UserID     string
	TotalPaid  decimal.Decimal
	TotalOwed  decimal.Decimal
	NetBalance decimal.Decimal // TotalPaid - TotalOwed
}

// EqualShare returns total split evenly across members, rounded to two
// fraction digits. Zero members yields zero.
func EqualShare(total decimal.Decimal, members int) decimal.Decimal {
	if members <= 0 {
		return decimal.Zero.Round(2)
	}
	return total.Div(decimal.NewFromInt(int64(members))).Round(2)
}

// GroupBalances computes one MemberBalance per member, in the order the
// member IDs are given.
//
// Every member owes the same flat share of the group total regardless of
// what they paid. A member who paid nothing still owes the full share; a
// payer's position improves by exactly what they paid.
func GroupBalances(memberIDs []string, expenses []ExpenseForBalance) []MemberBalance {
	balances := make([]MemberBalance, 0, len(memberIDs))
	if len(memberIDs) == 0 {
		return balances
	}

	paid := make(map[string]decimal.Decimal, len(memberIDs))
	for _, id := range memberIDs {
		paid[id] = decimal.Zero
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
		if current, ok := paid[e.PaidBy]; ok {
			paid[e.PaidBy] = current.Add(e.Amount)
		}
	}

	share := EqualShare(total, len(memberIDs))
	for _, id := range memberIDs {
		totalPaid := paid[id].Round(2)
		balances = append(balances, MemberBalance{
			UserID:     id,
			TotalPaid:  totalPaid,
			TotalOwed:  share,
			NetBalance: totalPaid.Sub(share),
		})
	}

	return balances
}
