package types

import ierr "github.com/billkazi/billkazi/internal/errors"

// Status is the lifecycle status carried by every persisted record.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

func (s Status) Validate() error {
	switch s {
	case StatusPublished, StatusArchived, StatusDeleted:
		return nil
	}
	return ierr.NewError("invalid status").
		WithHintf("Status must be one of: %s, %s, %s", StatusPublished, StatusArchived, StatusDeleted).
		Mark(ierr.ErrValidation)
}

// PaymentStatus is the payment state of an invoice.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid:
		return nil
	}
	return ierr.NewError("invalid payment status").
		WithHintf("Payment status must be %s or %s", PaymentStatusUnpaid, PaymentStatusPaid).
		Mark(ierr.ErrValidation)
}
