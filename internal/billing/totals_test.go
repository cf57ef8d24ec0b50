package billing

import (
	"testing"

	"github.com/billkazi/billkazi/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(qty, price string, taxable bool) LineItem {
	return LineItem{
		Description: "item",
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
		Taxable:     taxable,
	}
}

func percentDiscount(value string) DiscountSpec {
	return DiscountSpec{Enabled: true, Type: types.DiscountTypePercentage, Value: decimal.RequireFromString(value)}
}

func fixedDiscount(value string) DiscountSpec {
	return DiscountSpec{Enabled: true, Type: types.DiscountTypeFixed, Value: decimal.RequireFromString(value)}
}

// tolerance for expectations written as truncated repeating decimals
var epsilon = decimal.New(1, -9)

func assertDecimalNear(t *testing.T, want string, got decimal.Decimal, label string) {
	t.Helper()
	expected := decimal.RequireFromString(want)
	assert.True(t, expected.Sub(got).Abs().LessThan(epsilon),
		"%s = %s, want %s", label, got.String(), expected.String())
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []LineItem
		taxRate      string
		discount     DiscountSpec
		wantSubtotal string
		wantDiscount string
		wantTotal    string
		wantTaxable  string
		wantTax      string
		wantNet      string
	}{
		{
			name:         "single taxable item no discount",
			items:        []LineItem{item("2", "50", true)},
			taxRate:      "18",
			wantSubtotal: "100",
			wantDiscount: "0",
			wantTotal:    "100",
			wantTaxable:  "100",
			wantTax:      "15.254237288", // 100 × 18/118
			wantNet:      "84.745762712",
		},
		{
			name:         "percentage discount",
			items:        []LineItem{item("1", "200", true)},
			taxRate:      "16",
			discount:     percentDiscount("10"),
			wantSubtotal: "200",
			wantDiscount: "20",
			wantTotal:    "180",
			wantTaxable:  "200",
			wantTax:      "24.827586207", // (200−20) × 16/116
			wantNet:      "155.172413793",
		},
		{
			name:         "mixed taxable and non-taxable",
			items:        []LineItem{item("3", "10", true), item("1", "50", false)},
			taxRate:      "18",
			wantSubtotal: "80",
			wantDiscount: "0",
			wantTotal:    "80",
			wantTaxable:  "30",
			wantTax:      "4.576271186", // 30 × 18/118
			wantNet:      "75.423728814",
		},
		{
			name:         "fixed discount apportioned to taxable portion",
			items:        []LineItem{item("3", "10", true), item("1", "50", false)},
			taxRate:      "18",
			discount:     fixedDiscount("15"),
			wantSubtotal: "80",
			wantDiscount: "15",
			wantTotal:    "65",
			wantTaxable:  "30",
			wantTax:      "3.718220339", // (30 − 15×30/80) × 18/118 = 24.375 × 18/118
			wantNet:      "61.281779661",
		},
		{
			name:         "zero tax rate",
			items:        []LineItem{item("4", "25", true)},
			taxRate:      "0",
			discount:     percentDiscount("50"),
			wantSubtotal: "100",
			wantDiscount: "50",
			wantTotal:    "50",
			wantTaxable:  "100",
			wantTax:      "0",
			wantNet:      "50",
		},
		{
			name:         "all items non-taxable",
			items:        []LineItem{item("2", "40", false), item("1", "20", false)},
			taxRate:      "18",
			wantSubtotal: "100",
			wantDiscount: "0",
			wantTotal:    "100",
			wantTaxable:  "0",
			wantTax:      "0",
			wantNet:      "100",
		},
		{
			name:         "disabled discount spec is ignored",
			items:        []LineItem{item("1", "118", true)},
			taxRate:      "18",
			discount:     DiscountSpec{Enabled: false, Type: types.DiscountTypePercentage, Value: decimal.RequireFromString("50")},
			wantSubtotal: "118",
			wantDiscount: "0",
			wantTotal:    "118",
			wantTaxable:  "118",
			wantTax:      "18",
			wantNet:      "100",
		},
		{
			name:         "fractional quantities",
			items:        []LineItem{item("1.5", "33.33", true)},
			taxRate:      "18",
			wantSubtotal: "49.995",
			wantDiscount: "0",
			wantTotal:    "49.995",
			wantTaxable:  "49.995",
			wantTax:      "7.626355932",
			wantNet:      "42.368644068",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taxRate := decimal.RequireFromString(tt.taxRate)
			got := ComputeTotals(tt.items, taxRate, tt.discount)

			assertDecimalNear(t, tt.wantSubtotal, got.Subtotal, "Subtotal")
			assertDecimalNear(t, tt.wantDiscount, got.Discount, "Discount")
			assertDecimalNear(t, tt.wantTotal, got.Total, "Total")
			assertDecimalNear(t, tt.wantTaxable, got.TaxableSubtotal, "TaxableSubtotal")
			assertDecimalNear(t, tt.wantTax, got.Tax, "Tax")
			assertDecimalNear(t, tt.wantNet, got.NetAmount, "NetAmount")

			// Reconciliation identities hold exactly, not just within
			// tolerance.
			assert.True(t, got.Total.Equal(got.Subtotal.Sub(got.Discount)),
				"Total must equal Subtotal − Discount")
			assert.True(t, got.NetAmount.Add(got.Tax).Equal(got.Total),
				"NetAmount + Tax must equal Total")
			assert.False(t, got.Discount.IsNegative(), "Discount must be ≥ 0")
		})
	}
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []LineItem{item("3", "10", true), item("1", "50", false)}
	taxRate := decimal.RequireFromString("18")
	discount := fixedDiscount("15")

	first := ComputeTotals(items, taxRate, discount)
	second := ComputeTotals(items, taxRate, discount)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Discount.Equal(second.Discount))
	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.TaxableSubtotal.Equal(second.TaxableSubtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.NetAmount.Equal(second.NetAmount))
}

func TestComputeTotals_NegativeDiscountClamped(t *testing.T) {
	// A negative value is a caller contract violation, but the clamp keeps
	// the invariants intact instead of producing a negative discount.
	items := []LineItem{item("1", "100", true)}
	got := ComputeTotals(items, decimal.RequireFromString("18"), fixedDiscount("-10"))

	assert.True(t, got.Discount.IsZero())
	assert.True(t, got.Total.Equal(got.Subtotal))
}

func TestComputeTotals_ZeroSubtotalGuard(t *testing.T) {
	// Zero-priced items are rejected upstream, yet the formula stays
	// defined: no division by zero, everything comes out zero.
	items := []LineItem{item("1", "0", true)}
	got := ComputeTotals(items, decimal.RequireFromString("18"), percentDiscount("10"))

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.IsZero())
	assert.True(t, got.NetAmount.IsZero())
}

func TestTotals_RoundToCurrency(t *testing.T) {
	items := []LineItem{item("2", "50", true)}
	got := ComputeTotals(items, decimal.RequireFromString("18"), DiscountSpec{}).RoundToCurrency("usd")

	assert.Equal(t, "15.25", got.Tax.StringFixed(2))
	assert.Equal(t, "84.75", got.NetAmount.StringFixed(2))
	assert.Equal(t, "100.00", got.Total.StringFixed(2))

	// The reconciliation identity survives rounding.
	assert.True(t, got.NetAmount.Add(got.Tax).Equal(got.Total))

	// Zero-decimal currency.
	jpy := ComputeTotals(items, decimal.RequireFromString("18"), DiscountSpec{}).RoundToCurrency("jpy")
	assert.Equal(t, "15", jpy.Tax.String())
	assert.True(t, jpy.NetAmount.Add(jpy.Tax).Equal(jpy.Total))
}
