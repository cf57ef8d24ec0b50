package service

import (
	"context"

	"github.com/billkazi/billkazi/internal/api/dto"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/types"
)

// UserService manages the account profile and business settings.
type UserService interface {
	GetProfile(ctx context.Context) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	UploadLogo(ctx context.Context, data []byte, contentType string) (*dto.UserResponse, error)
}

type userService struct {
	ServiceParams
}

func NewUserService(params ServiceParams) UserService {
	return &userService{ServiceParams: params}
}

func (s *userService) GetProfile(ctx context.Context) (*dto.UserResponse, error) {
	u, err := s.UserRepo.Get(ctx, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(u)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.UserRepo.Get(ctx, types.GetUserID(ctx))
	if err != nil {
		return nil, err
	}

	req.Apply(u)
	if _, err := s.UserRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(u)
	return &resp, nil
}

func (s *userService) UploadLogo(ctx context.Context, data []byte, contentType string) (*dto.UserResponse, error) {
	if s.Storage == nil {
		return nil, ierr.NewError("object storage is not configured").
			WithHint("Logo upload is unavailable on this deployment").
			Mark(ierr.ErrSystem)
	}
	if len(data) == 0 {
		return nil, ierr.NewError("logo file is empty").
			WithHint("Upload a non-empty image file").
			Mark(ierr.ErrValidation)
	}
	if len(data) > maxLogoBytes {
		return nil, ierr.NewError("logo file is too large").
			WithHint("Logo must be 2MB or smaller").
			WithReportableDetails(map[string]any{"size_bytes": len(data)}).
			Mark(ierr.ErrValidation)
	}

	userID := types.GetUserID(ctx)
	u, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.Storage.UploadLogo(ctx, userID, data, contentType)
	if err != nil {
		return nil, err
	}

	u.BusinessProfile.LogoURL = url
	if _, err := s.UserRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(u)
	return &resp, nil
}

const maxLogoBytes = 2 << 20
