package service

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/billkazi/billkazi/internal/api/dto"
	"github.com/billkazi/billkazi/internal/auth"
	ierr "github.com/billkazi/billkazi/internal/errors"
	"github.com/billkazi/billkazi/internal/testutil"
)

type AuthServiceTestSuite struct {
	testutil.BaseServiceTestSuite
	authService AuthService
	tokens      *auth.Service
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.tokens = auth.NewService(s.GetConfig())
	s.authService = NewAuthService(ServiceParams{
		Logger:   s.GetLogger(),
		Config:   s.GetConfig(),
		UserRepo: s.GetStores().UserRepo,
		Auth:     s.tokens,
	})
}

func (s *AuthServiceTestSuite) signup() *dto.AuthResponse {
	resp, err := s.authService.Signup(s.GetContext(), &dto.SignupRequest{
		Email:    "asha@example.com",
		Password: "correct horse battery",
		Name:     "Asha Mwangi",
	})
	s.Require().NoError(err)
	return resp
}

func (s *AuthServiceTestSuite) TestSignup() {
	resp := s.signup()

	s.NotEmpty(resp.Token)
	s.Equal("asha@example.com", resp.User.Email)
	s.NotEmpty(resp.User.ID)

	claims, err := s.tokens.ValidateToken(resp.Token)
	s.Require().NoError(err)
	s.Equal(resp.User.ID, claims.UserID)
	s.Equal("asha@example.com", claims.Email)
}

func (s *AuthServiceTestSuite) TestSignup_NormalizesEmail() {
	resp, err := s.authService.Signup(s.GetContext(), &dto.SignupRequest{
		Email:    "  Asha@Example.COM ",
		Password: "correct horse battery",
		Name:     "Asha",
	})
	s.Require().NoError(err)
	s.Equal("asha@example.com", resp.User.Email)
}

func (s *AuthServiceTestSuite) TestSignup_DuplicateEmail() {
	s.signup()

	_, err := s.authService.Signup(s.GetContext(), &dto.SignupRequest{
		Email:    "asha@example.com",
		Password: "another password",
		Name:     "Impostor",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *AuthServiceTestSuite) TestSignup_ShortPassword() {
	_, err := s.authService.Signup(s.GetContext(), &dto.SignupRequest{
		Email:    "asha@example.com",
		Password: "short",
		Name:     "Asha",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *AuthServiceTestSuite) TestLogin() {
	created := s.signup()

	resp, err := s.authService.Login(s.GetContext(), &dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "correct horse battery",
	})
	s.Require().NoError(err)
	s.NotEmpty(resp.Token)
	s.Equal(created.User.ID, resp.User.ID)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	s.signup()

	_, err := s.authService.Login(s.GetContext(), &dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong password",
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	_, err := s.authService.Login(s.GetContext(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever password",
	})
	s.Error(err)
	// Unknown accounts look identical to bad passwords.
	s.True(ierr.IsPermissionDenied(err))
}
