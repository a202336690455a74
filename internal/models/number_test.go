package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		present bool
		value   int64
	}{
		{"plain", "42", true, 42},
		{"padded", "  42  ", true, 42},
		{"negative", "-7", true, -7},
		{"decimal tail", "42.0", true, 42},
		{"decimal tail trimmed", "987654.00", true, 987654},
		{"zero means absent", "0", false, 0},
		{"zero with tail", "0.0", false, 0},
		{"empty", "", false, 0},
		{"blank", "   ", false, 0},
		{"non-numeric", "n/a", false, 0},
		{"mixed", "42x", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ParseNumber(tt.raw)
			assert.Equal(t, tt.present, n.Present())
			assert.Equal(t, tt.value, n.Value())
		})
	}
}

func TestNumberString(t *testing.T) {
	assert.Equal(t, "42", NumberOf(42).String())
	assert.Equal(t, "", NoNumber().String())
	assert.Equal(t, int64(0), NoNumber().Value())
	assert.Equal(t, 42, NumberOf(42).Int())
}
