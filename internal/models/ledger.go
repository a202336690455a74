// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one normalized accounting movement from the payroll export.
//
// Amount keeps its sign until assembly: positive means debit-leaning,
// negative means credit-leaning. A zero Date is the unknown-date marker.
// Zero Account/Project/VATCode/ExternalID mean "no value".
type LedgerEntry struct {
	Account    int
	VATCode    int
	Department string
	Project    int
	Task       string
	Employee   string
	ExternalID int64
	Date       time.Time
	Amount     decimal.Decimal
	Text       string
}

// HasProject reports whether the entry carries a cost-object project.
func (e *LedgerEntry) HasProject() bool {
	return e.Project > 0
}

// AggregationKey identifies entries that are fragments of the same real
// transaction. The payroll system occasionally splits one movement across
// multiple physical lines; fragments share everything but the amount.
type AggregationKey struct {
	Account    int
	Department string
	Project    int
	Employee   string
	VATCode    int
	ExternalID int64
	Date       time.Time
}

// Key returns the entry's aggregation tuple.
func (e *LedgerEntry) Key() AggregationKey {
	return AggregationKey{
		Account:    e.Account,
		Department: e.Department,
		Project:    e.Project,
		Employee:   e.Employee,
		VATCode:    e.VATCode,
		ExternalID: e.ExternalID,
		Date:       e.Date,
	}
}
