package models

import (
	"strconv"
	"strings"
)

// Number is a tagged optional integer for the export's string-typed numeric
// columns. The distinction between "absent" and "numeric(N)" is resolved once
// at parse time; downstream logic never re-parses field text.
type Number struct {
	value int64
	valid bool
}

// NumberOf returns a present Number.
func NumberOf(v int64) Number {
	return Number{value: v, valid: true}
}

// NoNumber returns the absent Number.
func NoNumber() Number {
	return Number{}
}

// ParseNumber coerces a raw field to a Number. Non-numeric text and zero both
// mean "no value" in the export, so both come back absent. A trailing ".0"
// spreadsheet artifact is tolerated.
func ParseNumber(raw string) Number {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NoNumber()
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v == 0 {
		return NoNumber()
	}
	return NumberOf(v)
}

// Present reports whether the Number carries a value.
func (n Number) Present() bool {
	return n.valid
}

// Value returns the numeric value, or 0 when absent.
func (n Number) Value() int64 {
	if !n.valid {
		return 0
	}
	return n.value
}

// Int returns the value as int, or 0 when absent.
func (n Number) Int() int {
	return int(n.Value())
}

// String renders the value, or "" when absent.
func (n Number) String() string {
	if !n.valid {
		return ""
	}
	return strconv.FormatInt(n.value, 10)
}
