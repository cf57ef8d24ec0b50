package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	domainInvoice "github.com/billkazi/billkazi/internal/domain/invoice"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/types"
	"github.com/billkazi/billkazi/internal/validator"
)

// InvoiceLineItemRequest is a single line on an invoice create/update
// request. Quantity and unit price are decimal strings; the unit price is
// tax-inclusive. When ProductID is set, description, price and taxability
// default from the catalog item.
type InvoiceLineItemRequest struct {
	ProductID   string `json:"product_id,omitempty"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
	Quantity    string `json:"quantity" validate:"required"`
	UnitPrice   string `json:"unit_price,omitempty"`
	Taxable     *bool  `json:"taxable,omitempty"`
}

func (r *InvoiceLineItemRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	qty, err := decimal.NewFromString(r.Quantity)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Quantity must be a decimal number").
			WithReportableDetails(map[string]any{"quantity": r.Quantity}).
			Mark(ierr.ErrValidation)
	}
	if !qty.IsPositive() {
		return ierr.NewError("quantity must be positive").
			WithHint("Quantity must be greater than zero").
			WithReportableDetails(map[string]any{"quantity": r.Quantity}).
			Mark(ierr.ErrValidation)
	}
	if r.ProductID == "" && r.Description == "" {
		return ierr.NewError("line item description is required").
			WithHint("Provide a description or reference a product").
			Mark(ierr.ErrValidation)
	}
	if r.UnitPrice != "" {
		if _, err := parseAmount(r.UnitPrice, "unit_price"); err != nil {
			return err
		}
	} else if r.ProductID == "" {
		return ierr.NewError("line item unit price is required").
			WithHint("Provide a unit price or reference a product").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DiscountRequest is the discount input as entered.
type DiscountRequest struct {
	Type  types.DiscountType `json:"type" validate:"required"`
	Value string             `json:"value" validate:"required"`
}

func (r *DiscountRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if _, err := parseAmount(r.Value, "discount value"); err != nil {
		return err
	}
	return nil
}

func (r *DiscountRequest) ToDiscount() domainInvoice.Discount {
	value, _ := decimal.NewFromString(r.Value)
	return domainInvoice.Discount{
		Enabled: true,
		Type:    r.Type,
		Value:   value,
	}
}

// CreateInvoiceRequest represents the request to issue a new invoice.
// Currency and tax rate fall back to the account's business profile
// defaults; the due date falls back to the configured payment term.
type CreateInvoiceRequest struct {
	ClientID  string                   `json:"client_id" validate:"required"`
	Items     []InvoiceLineItemRequest `json:"items" validate:"required,min=1"`
	Currency  string                   `json:"currency,omitempty"`
	TaxRate   *string                  `json:"tax_rate,omitempty"`
	Discount  *DiscountRequest         `json:"discount,omitempty"`
	IssueDate *time.Time               `json:"issue_date,omitempty"`
	DueDate   *time.Time               `json:"due_date,omitempty"`
	Notes     string                   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for idx := range r.Items {
		if err := r.Items[idx].Validate(); err != nil {
			return ierr.WithError(err).
				WithHintf("Line item %d is invalid", idx+1).
				Mark(ierr.ErrValidation)
		}
	}
	if r.Currency != "" {
		if err := types.ValidateCurrencyCode(r.Currency); err != nil {
			return err
		}
	}
	if r.TaxRate != nil {
		if err := validateTaxRate(*r.TaxRate); err != nil {
			return err
		}
	}
	if r.Discount != nil {
		if err := r.Discount.Validate(); err != nil {
			return err
		}
	}
	if r.IssueDate != nil && r.DueDate != nil && r.DueDate.Before(*r.IssueDate) {
		return ierr.NewError("due date cannot be before issue date").
			WithHint("Due date must be on or after the issue date").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// UpdateInvoiceRequest edits an existing invoice. Nil fields are left
// untouched; replacing items or the discount triggers a totals recompute.
type UpdateInvoiceRequest struct {
	Items     []InvoiceLineItemRequest `json:"items,omitempty"`
	TaxRate   *string                  `json:"tax_rate,omitempty"`
	Discount  *DiscountRequest         `json:"discount,omitempty"`
	// ClearDiscount removes an existing discount; ignored when Discount is set.
	ClearDiscount bool       `json:"clear_discount,omitempty"`
	IssueDate     *time.Time `json:"issue_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for idx := range r.Items {
		if err := r.Items[idx].Validate(); err != nil {
			return ierr.WithError(err).
				WithHintf("Line item %d is invalid", idx+1).
				Mark(ierr.ErrValidation)
		}
	}
	if r.TaxRate != nil {
		if err := validateTaxRate(*r.TaxRate); err != nil {
			return err
		}
	}
	if r.Discount != nil {
		if err := r.Discount.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UpdatePaymentStatusRequest flips an invoice between unpaid and paid.
type UpdatePaymentStatusRequest struct {
	PaymentStatus types.PaymentStatus `json:"payment_status" validate:"required"`
}

func (r *UpdatePaymentStatusRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.PaymentStatus.Validate()
}

// SendInvoiceRequest emails an invoice to the billed client. To overrides
// the client's email on file.
type SendInvoiceRequest struct {
	To        string `json:"to,omitempty" validate:"omitempty,email"`
	AttachPDF bool   `json:"attach_pdf,omitempty"`
	Template  string `json:"template,omitempty"`
}

func (r *SendInvoiceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// InvoiceLineItemResponse is a rendered invoice line.
type InvoiceLineItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Taxable     bool            `json:"taxable"`
	ProductID   string          `json:"product_id,omitempty"`
}

// InvoiceClientResponse is the billed party as frozen on the invoice.
type InvoiceClientResponse struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	TaxID    string `json:"tax_id"`
}

// InvoiceDiscountResponse is the discount input as entered.
type InvoiceDiscountResponse struct {
	Enabled bool               `json:"enabled"`
	Type    types.DiscountType `json:"type,omitempty"`
	Value   decimal.Decimal    `json:"value"`
}

// InvoiceResponse represents an invoice in API responses. The totals are the
// persisted values computed at create/update time.
type InvoiceResponse struct {
	ID     string                `json:"id"`
	Number string                `json:"number"`
	Client InvoiceClientResponse `json:"client"`

	Items []InvoiceLineItemResponse `json:"items"`

	Currency string                  `json:"currency"`
	TaxRate  decimal.Decimal         `json:"tax_rate"`
	Discount InvoiceDiscountResponse `json:"discount"`

	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxableSubtotal decimal.Decimal `json:"taxable_subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	NetAmount       decimal.Decimal `json:"net_amount"`
	Total           decimal.Decimal `json:"total"`

	PaymentStatus types.PaymentStatus `json:"payment_status"`
	Overdue       bool                `json:"overdue"`
	IssueDate     time.Time           `json:"issue_date"`
	DueDate       time.Time           `json:"due_date"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`

	Notes      string `json:"notes,omitempty"`
	ShareToken string `json:"share_token,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewInvoiceResponse(inv *domainInvoice.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:     inv.ID,
		Number: inv.Number,
		Client: InvoiceClientResponse{
			ClientID: inv.Client.ClientID,
			Name:     inv.Client.Name,
			Email:    inv.Client.Email,
			Address:  inv.Client.Address,
			TaxID:    inv.Client.TaxID,
		},
		Items: lo.Map(inv.Items, func(li domainInvoice.LineItem, _ int) InvoiceLineItemResponse {
			return InvoiceLineItemResponse{
				Description: li.Description,
				Quantity:    li.Quantity,
				UnitPrice:   li.UnitPrice,
				Amount:      types.RoundToCurrencyPrecision(li.Amount(), inv.Currency),
				Taxable:     li.Taxable,
				ProductID:   li.ProductID,
			}
		}),
		Currency: inv.Currency,
		TaxRate:  inv.TaxRate,
		Discount: InvoiceDiscountResponse{
			Enabled: inv.Discount.Enabled,
			Type:    inv.Discount.Type,
			Value:   inv.Discount.Value,
		},
		Subtotal:        inv.Subtotal,
		DiscountAmount:  inv.DiscountAmount,
		TaxableSubtotal: inv.TaxableSubtotal,
		Tax:             inv.Tax,
		NetAmount:       inv.NetAmount,
		Total:           inv.Total,
		PaymentStatus:   inv.PaymentStatus,
		Overdue:         inv.IsOverdue(time.Now().UTC()),
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		PaidAt:          inv.PaidAt,
		Notes:           inv.Notes,
		ShareToken:      inv.ShareToken,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}

// ListInvoicesResponse represents the response for listing invoices.
type ListInvoicesResponse struct {
	Items      []InvoiceResponse    `json:"items"`
	Pagination types.PaginationInfo `json:"pagination"`
}

// ShareInvoiceResponse carries the public link for an invoice.
type ShareInvoiceResponse struct {
	ShareToken string `json:"share_token"`
	ShareURL   string `json:"share_url"`
}

// PublicInvoiceResponse is the unauthenticated share-link view: the invoice
// plus the seller identity, with account internals stripped.
type PublicInvoiceResponse struct {
	Invoice InvoiceResponse         `json:"invoice"`
	Seller  BusinessProfileResponse `json:"seller"`
}

func validateTaxRate(raw string) error {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Tax rate must be a decimal number").
			WithReportableDetails(map[string]any{"tax_rate": raw}).
			Mark(ierr.ErrValidation)
	}
	if rate.IsNegative() {
		return ierr.NewError("tax rate cannot be negative").
			WithHint("Tax rate must be zero or greater").
			Mark(ierr.ErrValidation)
	}
	return nil
}
