package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/billkazi/billkazi/internal/domain/user"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/types"
	"github.com/billkazi/billkazi/internal/validator"
)

// UserResponse represents the account in API responses.
type UserResponse struct {
	ID              string                  `json:"id"`
	Email           string                  `json:"email"`
	Name            string                  `json:"name"`
	BusinessProfile BusinessProfileResponse `json:"business_profile"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

type BusinessProfileResponse struct {
	CompanyName     string `json:"company_name"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	TaxID           string `json:"tax_id"`
	LogoURL         string `json:"logo_url"`
	DefaultCurrency string `json:"default_currency"`
	DefaultTaxRate  string `json:"default_tax_rate"`
}

func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		BusinessProfile: BusinessProfileResponse{
			CompanyName:     u.BusinessProfile.CompanyName,
			Address:         u.BusinessProfile.Address,
			Phone:           u.BusinessProfile.Phone,
			TaxID:           u.BusinessProfile.TaxID,
			LogoURL:         u.BusinessProfile.LogoURL,
			DefaultCurrency: u.BusinessProfile.DefaultCurrency,
			DefaultTaxRate:  u.BusinessProfile.DefaultTaxRate,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UpdateProfileRequest updates the account name and business profile. Nil
// fields are left untouched.
type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	CompanyName     *string `json:"company_name,omitempty" validate:"omitempty,max=255"`
	Address         *string `json:"address,omitempty" validate:"omitempty,max=1000"`
	Phone           *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	TaxID           *string `json:"tax_id,omitempty" validate:"omitempty,max=100"`
	DefaultCurrency *string `json:"default_currency,omitempty"`
	DefaultTaxRate  *string `json:"default_tax_rate,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.DefaultCurrency != nil {
		if err := types.ValidateCurrencyCode(*r.DefaultCurrency); err != nil {
			return err
		}
	}
	if r.DefaultTaxRate != nil {
		rate, err := decimal.NewFromString(*r.DefaultTaxRate)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Default tax rate must be a decimal number").
				WithReportableDetails(map[string]any{"default_tax_rate": *r.DefaultTaxRate}).
				Mark(ierr.ErrValidation)
		}
		if rate.IsNegative() {
			return ierr.NewError("default tax rate cannot be negative").
				WithHint("Default tax rate must be zero or greater").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// Apply copies the set fields onto the account.
func (r *UpdateProfileRequest) Apply(u *user.User) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.CompanyName != nil {
		u.BusinessProfile.CompanyName = *r.CompanyName
	}
	if r.Address != nil {
		u.BusinessProfile.Address = *r.Address
	}
	if r.Phone != nil {
		u.BusinessProfile.Phone = *r.Phone
	}
	if r.TaxID != nil {
		u.BusinessProfile.TaxID = *r.TaxID
	}
	if r.DefaultCurrency != nil {
		u.BusinessProfile.DefaultCurrency = *r.DefaultCurrency
	}
	if r.DefaultTaxRate != nil {
		u.BusinessProfile.DefaultTaxRate = *r.DefaultTaxRate
	}
}
