package dto

import (
	"context"
	"strings"

	"github.com/billkazi/billkazi/internal/domain/user"
	"github.com/billkazi/billkazi/internal/types"
	"github.com/billkazi/billkazi/internal/validator"
)

// SignupRequest registers a new account.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=255"`
}

func (r *SignupRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.ValidateRequest(r)
}

func (r *SignupRequest) ToUser(ctx context.Context, passwordHash string) *user.User {
	u := &user.User{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Email:           r.Email,
		PasswordHash:    passwordHash,
		Name:            r.Name,
		InvoiceCounters: map[string]int{},
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
	// New accounts own their own records.
	u.UserID = u.ID
	return u
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.ValidateRequest(r)
}

// AuthResponse carries the issued token and the account it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
