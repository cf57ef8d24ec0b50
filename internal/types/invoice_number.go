package types

import (
	"fmt"
	"time"
)

// InvoiceNumberPeriodKey returns the "YYMM" key namespacing the per-user
// invoice sequence, ex: 2609 for September 2026.
func InvoiceNumberPeriodKey(t time.Time) string {
	return t.UTC().Format("0601")
}

// FormatInvoiceNumber renders an invoice number from its parts,
// ex: FormatInvoiceNumber("INV", "-", "2609", 7, 3) -> "INV-2609-007".
// Sequences wider than suffixLength are never truncated.
func FormatInvoiceNumber(prefix, separator, periodKey string, seq, suffixLength int) string {
	return fmt.Sprintf("%s%s%s%s%0*d", prefix, separator, periodKey, separator, suffixLength, seq)
}
