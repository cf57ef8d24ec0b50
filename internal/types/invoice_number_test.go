package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceNumberPeriodKey(t *testing.T) {
	tests := []struct {
		name     string
		instant  time.Time
		expected string
	}{
		{name: "September2026", instant: time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC), expected: "2609"},
		{name: "January", instant: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), expected: "2501"},
		{name: "December", instant: time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC), expected: "2512"},
		{
			name: "NonUTCNormalized",
			// 23:30 on Jan 31 in UTC-5 is already February in UTC.
			instant:  time.Date(2026, 1, 31, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			expected: "2602",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InvoiceNumberPeriodKey(tt.instant))
		})
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		name         string
		seq          int
		suffixLength int
		expected     string
	}{
		{name: "First", seq: 1, suffixLength: 3, expected: "INV-2609-001"},
		{name: "Padded", seq: 42, suffixLength: 3, expected: "INV-2609-042"},
		{name: "AtWidth", seq: 999, suffixLength: 3, expected: "INV-2609-999"},
		{name: "OverflowNotTruncated", seq: 1234, suffixLength: 3, expected: "INV-2609-1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatInvoiceNumber("INV", "-", "2609", tt.seq, tt.suffixLength))
		})
	}
}
