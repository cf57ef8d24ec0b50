package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domainProduct "github.com/billkazi/billkazi/internal/domain/product"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/types"
	"github.com/billkazi/billkazi/internal/validator"
)

// CreateProductRequest represents the request to create a catalog item. The
// unit price is a decimal string and is tax-inclusive.
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description,omitempty" validate:"omitempty,max=1000"`
	UnitPrice   string `json:"unit_price" validate:"required"`
	Taxable     *bool  `json:"taxable,omitempty"`
}

func (r *CreateProductRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if _, err := parseAmount(r.UnitPrice, "unit_price"); err != nil {
		return err
	}
	return nil
}

func (r *CreateProductRequest) ToProduct(ctx context.Context) *domainProduct.Product {
	price, _ := decimal.NewFromString(r.UnitPrice)
	taxable := true
	if r.Taxable != nil {
		taxable = *r.Taxable
	}
	return &domainProduct.Product{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT),
		Name:        r.Name,
		Description: r.Description,
		UnitPrice:   price,
		Taxable:     taxable,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

// UpdateProductRequest updates an existing catalog item. Nil fields are left
// untouched.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	UnitPrice   *string `json:"unit_price,omitempty"`
	Taxable     *bool   `json:"taxable,omitempty"`
}

func (r *UpdateProductRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.UnitPrice != nil {
		if _, err := parseAmount(*r.UnitPrice, "unit_price"); err != nil {
			return err
		}
	}
	return nil
}

func (r *UpdateProductRequest) Apply(p *domainProduct.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.UnitPrice != nil {
		p.UnitPrice, _ = decimal.NewFromString(*r.UnitPrice)
	}
	if r.Taxable != nil {
		p.Taxable = *r.Taxable
	}
}

// ProductResponse represents a catalog item in API responses.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Taxable     bool            `json:"taxable"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewProductResponse(p *domainProduct.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Taxable:     p.Taxable,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ListProductsResponse represents the response for listing catalog items.
type ListProductsResponse struct {
	Items      []ProductResponse    `json:"items"`
	Pagination types.PaginationInfo `json:"pagination"`
}

// parseAmount parses a non-negative decimal string from a request field.
func parseAmount(raw, field string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHintf("%s must be a decimal number", field).
			WithReportableDetails(map[string]any{field: raw}).
			Mark(ierr.ErrValidation)
	}
	if amount.IsNegative() {
		return decimal.Zero, ierr.NewErrorf("%s cannot be negative", field).
			WithHintf("%s must be zero or greater", field).
			WithReportableDetails(map[string]any{field: raw}).
			Mark(ierr.ErrValidation)
	}
	return amount, nil
}
