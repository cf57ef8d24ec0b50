// Package billing holds the invoice financial calculation engine. It is the
// single implementation of the subtotal/discount/tax math: invoice
// persistence, PDF rendering and email rendering all consume the values
// computed here, never their own arithmetic.
package billing

import (
	"github.com/billkazi/billkazi/internal/types"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// LineItem is a single invoice position. Unit prices are entered
// tax-inclusive; the tax portion is backed out when computing totals.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Taxable     bool
}

// Amount returns quantity × unit price.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// DiscountSpec describes the optional invoice-level discount.
type DiscountSpec struct {
	Enabled bool
	Type    types.DiscountType
	Value   decimal.Decimal
}

// Totals is the consistent set of derived monetary fields for an invoice.
// Invariants: Total = Subtotal − Discount and NetAmount + Tax = Total.
type Totals struct {
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	TaxableSubtotal decimal.Decimal
	Tax             decimal.Decimal
	NetAmount       decimal.Decimal
}

// ComputeTotals derives the invoice totals from its line items, a tax rate
// percentage (ex: 18 meaning 18%) and a discount spec.
//
// Prices are tax-inclusive, so the tax amount is backed out of the taxable
// portion with amount × rate/(100+rate) rather than applied on top. The
// discount is apportioned pro-rata to the taxable items before the back-out
// so tax is only computed on the taxable, post-discount portion.
//
// The function is pure arithmetic over pre-validated inputs: quantity > 0,
// unit price ≥ 0 and discount value ≥ 0 are enforced by the caller's
// validation layer. It never returns an error and performs no rounding;
// round once with RoundToCurrency at persistence or display time.
func ComputeTotals(items []LineItem, taxRatePercent decimal.Decimal, discount DiscountSpec) Totals {
	subtotal := decimal.Zero
	taxableSubtotal := decimal.Zero
	for _, item := range items {
		amount := item.Amount()
		subtotal = subtotal.Add(amount)
		if item.Taxable {
			taxableSubtotal = taxableSubtotal.Add(amount)
		}
	}

	discountAmount := decimal.Zero
	if discount.Enabled {
		if discount.Type == types.DiscountTypePercentage {
			discountAmount = subtotal.Mul(discount.Value).Div(oneHundred)
		} else {
			discountAmount = discount.Value
		}
	}
	if discountAmount.IsNegative() {
		discountAmount = decimal.Zero
	}

	total := subtotal.Sub(discountAmount)

	// Apportion the discount to the taxable items. The guard keeps the
	// formula defined for the degenerate zero-subtotal case even though
	// validation rejects it upstream.
	taxableDiscount := taxableSubtotal
	if subtotal.IsPositive() {
		taxableDiscount = discountAmount.Mul(taxableSubtotal).Div(subtotal)
	}

	// VAT-inclusive back-out: tax = taxable × rate/(100+rate).
	tax := taxableSubtotal.Sub(taxableDiscount).
		Mul(taxRatePercent).
		Div(oneHundred.Add(taxRatePercent))

	return Totals{
		Subtotal:        subtotal,
		Discount:        discountAmount,
		Total:           total,
		TaxableSubtotal: taxableSubtotal,
		Tax:             tax,
		NetAmount:       total.Sub(tax),
	}
}

// RoundToCurrency rounds the totals to the currency's precision. NetAmount is
// re-derived from the rounded total and tax so NetAmount + Tax = Total holds
// exactly after rounding.
func (t Totals) RoundToCurrency(currency string) Totals {
	rounded := Totals{
		Subtotal:        types.RoundToCurrencyPrecision(t.Subtotal, currency),
		Discount:        types.RoundToCurrencyPrecision(t.Discount, currency),
		Total:           types.RoundToCurrencyPrecision(t.Total, currency),
		TaxableSubtotal: types.RoundToCurrencyPrecision(t.TaxableSubtotal, currency),
		Tax:             types.RoundToCurrencyPrecision(t.Tax, currency),
	}
	rounded.NetAmount = rounded.Total.Sub(rounded.Tax)
	return rounded
}
