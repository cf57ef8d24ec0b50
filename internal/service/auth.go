package service

import (
	"context"

	"github.com/billkazi/billkazi/internal/api/dto"
	ierr "github.com/billkazi/billkazi/internal/errors"
)

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	ServiceParams
}

func NewAuthService(params ServiceParams) AuthService {
	return &authService{ServiceParams: params}
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.Auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.UserRepo.Create(ctx, req.ToUser(ctx, hash))
	if err != nil {
		return nil, err
	}

	token, err := s.Auth.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("account created", "user_id", u.ID, "email", u.Email)
	return &dto.AuthResponse{Token: token, User: dto.NewUserResponse(u)}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.UserRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if err := s.Auth.VerifyPassword(u.PasswordHash, req.Password); err != nil {
		return nil, invalidCredentials()
	}

	token, err := s.Auth.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: token, User: dto.NewUserResponse(u)}, nil
}

// invalidCredentials deliberately does not reveal whether the email exists.
func invalidCredentials() error {
	return ierr.NewError("invalid email or password").
		WithHint("Invalid email or password").
		Mark(ierr.ErrPermissionDenied)
}
