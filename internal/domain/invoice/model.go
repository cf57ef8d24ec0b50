package invoice

import (
	"time"

	"github.com/billkazi/billkazi/internal/billing"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LineItem is a single invoice position. Quantities and unit prices are
// decimals; unit prices are tax-inclusive.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Taxable     bool            `json:"taxable"`
	// ProductID links back to the catalog item the line was pulled from,
	// empty for free-form lines.
	ProductID string `json:"product_id,omitempty"`
}

// Amount returns quantity × unit price.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

func (li LineItem) Validate() error {
	if li.Description == "" {
		return ierr.NewError("line item description is required").
			WithHint("Each line item needs a description").
			Mark(ierr.ErrValidation)
	}
	if !li.Quantity.IsPositive() {
		return ierr.NewError("line item quantity must be positive").
			WithHint("Quantity must be greater than zero").
			WithReportableDetails(map[string]any{"quantity": li.Quantity.String()}).
			Mark(ierr.ErrValidation)
	}
	if li.UnitPrice.IsNegative() {
		return ierr.NewError("line item unit price cannot be negative").
			WithHint("Unit price must be zero or greater").
			WithReportableDetails(map[string]any{"unit_price": li.UnitPrice.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ClientSnapshot freezes the billed party's details onto the invoice so a
// later client edit does not rewrite history.
type ClientSnapshot struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	TaxID    string `json:"tax_id"`
}

// Discount is the discount input as entered, not the derived amount.
type Discount struct {
	Enabled bool               `json:"enabled"`
	Type    types.DiscountType `json:"type"`
	Value   decimal.Decimal    `json:"value"`
}

// Invoice is an issued invoice with its persisted derived totals. The totals
// are computed once by the billing engine at create/update time; PDF and
// email rendering read them back rather than recomputing.
type Invoice struct {
	ID     string `json:"id"`
	Number string `json:"number"`

	Client ClientSnapshot `json:"client"`
	Items  []LineItem     `json:"items"`

	Currency string          `json:"currency"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
	Discount Discount        `json:"discount"`

	// Derived fields, rounded to currency precision.
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxableSubtotal decimal.Decimal `json:"taxable_subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	Total           decimal.Decimal `json:"total"`

	PaymentStatus types.PaymentStatus `json:"payment_status"`
	IssueDate     time.Time           `json:"issue_date"`
	DueDate       time.Time           `json:"due_date"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`

	Notes string `json:"notes,omitempty"`

	// ShareToken enables the unauthenticated public view when set.
	ShareToken string `json:"share_token,omitempty"`

	// LastReminderAt is the last time a payment reminder was sent.
	LastReminderAt *time.Time `json:"last_reminder_at,omitempty"`

	types.BaseModel
}

func (i *Invoice) Validate() error {
	if len(i.Items) == 0 {
		return ierr.NewError("invoice must have at least one line item").
			WithHint("Add at least one line item").
			Mark(ierr.ErrValidation)
	}
	for idx, item := range i.Items {
		if err := item.Validate(); err != nil {
			return ierr.WithError(err).
				WithHintf("Line item %d is invalid", idx+1).
				Mark(ierr.ErrValidation)
		}
	}
	if err := types.ValidateCurrencyCode(i.Currency); err != nil {
		return err
	}
	if i.TaxRate.IsNegative() {
		return ierr.NewError("tax rate cannot be negative").
			WithHint("Tax rate must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	if i.Discount.Enabled {
		if err := i.Discount.Type.Validate(); err != nil {
			return err
		}
		if i.Discount.Value.IsNegative() {
			return ierr.NewError("discount value cannot be negative").
				WithHint("Discount value must be zero or greater").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// RecomputeTotals runs the billing engine over the current items, tax rate
// and discount and persists the result onto the invoice, rounded to the
// invoice currency. Must be called whenever items, discount or tax rate
// change.
func (i *Invoice) RecomputeTotals() {
	items := lo.Map(i.Items, func(li LineItem, _ int) billing.LineItem {
		return billing.LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Taxable:     li.Taxable,
		}
	})

	totals := billing.ComputeTotals(items, i.TaxRate, billing.DiscountSpec{
		Enabled: i.Discount.Enabled,
		Type:    i.Discount.Type,
		Value:   i.Discount.Value,
	}).RoundToCurrency(i.Currency)

	i.Subtotal = totals.Subtotal
	i.DiscountAmount = totals.Discount
	i.TaxableSubtotal = totals.TaxableSubtotal
	i.Tax = totals.Tax
	i.NetAmount = totals.NetAmount
	i.Total = totals.Total
}

// IsOverdue reports whether an unpaid invoice is past its due date.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.PaymentStatus == types.PaymentStatusUnpaid && now.After(i.DueDate)
}
