package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHasProject(t *testing.T) {
	e := LedgerEntry{Project: 40000}
	assert.True(t, e.HasProject())

	e.Project = 0
	assert.False(t, e.HasProject())
}

func TestAggregationKey(t *testing.T) {
	date := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	a := LedgerEntry{
		Account: 7140, Department: "200", Project: 40000, Employee: "118",
		VATCode: 1, ExternalID: 42, Date: date,
		Amount: decimal.RequireFromString("100.00"),
	}
	b := a
	b.Amount = decimal.RequireFromString("-40.00")
	b.Text = "different text"
	b.Task = "different task"

	// Fragments differ only in amount (and derived fields); same key.
	assert.Equal(t, a.Key(), b.Key())

	c := a
	c.ExternalID = 43
	assert.NotEqual(t, a.Key(), c.Key())
}
