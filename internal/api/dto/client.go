package dto

import (
	"context"
	"time"

	domainClient "github.com/billkazi/billkazi/internal/domain/client"
	"github.com/billkazi/billkazi/internal/types"
	"github.com/billkazi/billkazi/internal/validator"
)

// CreateClientRequest represents the request to create a new client.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address string `json:"address,omitempty" validate:"omitempty,max=1000"`
	TaxID   string `json:"tax_id,omitempty" validate:"omitempty,max=100"`
}

func (r *CreateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateClientRequest) ToClient(ctx context.Context) *domainClient.Client {
	return &domainClient.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		TaxID:     r.TaxID,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// UpdateClientRequest updates an existing client. Nil fields are left
// untouched.
type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=1000"`
	TaxID   *string `json:"tax_id,omitempty" validate:"omitempty,max=100"`
}

func (r *UpdateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *UpdateClientRequest) Apply(c *domainClient.Client) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Email != nil {
		c.Email = *r.Email
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.Address != nil {
		c.Address = *r.Address
	}
	if r.TaxID != nil {
		c.TaxID = *r.TaxID
	}
}

// ClientResponse represents a client in API responses.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	TaxID     string    `json:"tax_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewClientResponse(c *domainClient.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		TaxID:     c.TaxID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ListClientsResponse represents the response for listing clients.
type ListClientsResponse struct {
	Items      []ClientResponse     `json:"items"`
	Pagination types.PaginationInfo `json:"pagination"`
}
