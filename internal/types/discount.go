package types

import ierr "github.com/billkazi/billkazi/internal/errors"

// DiscountType selects how an invoice discount value is interpreted.
type DiscountType string

const (
	// DiscountTypePercentage treats the discount value as a percentage of
	// the invoice subtotal.
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeFixed treats the discount value as an absolute amount in
	// the invoice currency.
	DiscountTypeFixed DiscountType = "fixed"
)

func (d DiscountType) Validate() error {
	switch d {
	case DiscountTypePercentage, DiscountTypeFixed:
		return nil
	}
	return ierr.NewError("invalid discount type").
		WithHintf("Discount type must be %s or %s", DiscountTypePercentage, DiscountTypeFixed).
		Mark(ierr.ErrValidation)
}
