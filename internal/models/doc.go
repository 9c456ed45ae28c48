// Package models defines the core domain types for Divvy.
//
// The persisted entities are User, Group, GroupMembership and Expense.
// BalanceSummary is derived on every query and never stored.
//
// Relationships are expressed as ID strings rather than pointers so the
// models stay free of lazy loading; the storage layer returns materialized
// collections.
//
// Monetary amounts are decimal.Decimal values with two fraction digits.
// Nothing in the expense or balance paths touches floating point.
package models
