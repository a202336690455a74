// Package dateutils provides the date layouts and parsing helpers used
// throughout the application.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date layout constants for the formats this converter deals with.
const (
	// LayoutLedger is the compact ddmmyyyy format of the payroll export.
	LayoutLedger = "02012006"
	// LayoutISO is used in synthesized entry texts.
	LayoutISO = "2006-01-02"
	// LayoutImport is the dd/mm/yyyy format required by the import document.
	LayoutImport = "02/01/2006"
	// LayoutPeriod is the yyyymm accounting period used in file names.
	LayoutPeriod = "200601"
)

// ParseLedgerDate parses a ddmmyyyy ledger date. The zero time is the
// "unknown date" marker used downstream for rows whose date field is
// malformed.
func ParseLedgerDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := time.Parse(LayoutLedger, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse ledger date %q: %w", value, err)
	}
	return t, nil
}

// FormatISO renders a date as yyyy-mm-dd, or "" for the unknown-date marker.
func FormatISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LayoutISO)
}

// FormatImport renders a date as dd/mm/yyyy, or "" for the unknown-date marker.
func FormatImport(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LayoutImport)
}

// CurrentPeriod returns the yyyymm period for the given time.
func CurrentPeriod(now time.Time) string {
	return now.Format(LayoutPeriod)
}
