package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/core/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/apphgio/tools_platform_app/internal/utils"
	"github.com/apphgio/tools_platform_app/pkg/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo  *MockUserRepository
	mockTokenRepo *MockRefreshTokenRepository
	mockAudit     *MockAuditService
	service       portssvc.AuthSvcFacade
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.mockTokenRepo = new(MockRefreshTokenRepository)
	s.mockAudit = new(MockAuditService)

	cfg := &config.Config{
		JWTSecret:                  "test-secret-key",
		JWTExpiryDuration:          time.Hour,
		JWTIssuer:                  "test-issuer",
		RefreshTokenExpiryDuration: 24 * time.Hour,
	}
	s.service = services.NewAuthService(cfg, s.mockUserRepo, s.mockTokenRepo, s.mockAudit)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) activeUser(password string) *domain.User {
	hash, err := utils.HashPassword(password)
	s.Require().NoError(err)
	return &domain.User{
		UserID:       "user-1",
		Email:        "ana@example.com",
		PasswordHash: hash,
		DisplayName:  "Ana",
		Role:         domain.RoleFree,
		Status:       domain.UserStatusActive,
	}
}

func (s *AuthServiceTestSuite) TestLoginSuccess() {
	ctx := context.Background()
	user := s.activeUser("correct-horse")

	s.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()
	s.mockTokenRepo.On("SaveRefreshToken", ctx, mock.MatchedBy(func(t domain.RefreshToken) bool {
		return t.UserID == user.UserID && t.TokenHash != "" && t.ExpiresAt.After(time.Now())
	})).Return(nil).Once()
	s.mockUserRepo.On("UpdateLastLogin", ctx, user.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	resp, err := s.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "correct-horse"}, "10.0.0.1")

	s.Require().NoError(err)
	s.Require().NotNil(resp)
	s.NotEmpty(resp.AccessToken)
	s.NotEmpty(resp.RefreshToken)
	s.Equal(user.UserID, resp.User.ID)
	s.Equal(int64(3600), resp.ExpiresIn)

	// The raw refresh token is never what gets stored.
	stored := s.mockTokenRepo.Calls[0].Arguments.Get(1).(domain.RefreshToken)
	s.NotEqual(resp.RefreshToken, stored.TokenHash)
	s.Equal(utils.HashRefreshToken(resp.RefreshToken), stored.TokenHash)

	s.True(s.mockAudit.hasAuditAction("LOGIN"))
	s.mockUserRepo.AssertExpectations(s.T())
	s.mockTokenRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLoginWrongPassword() {
	ctx := context.Background()
	user := s.activeUser("correct-horse")

	s.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	resp, err := s.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "battery-staple"}, "10.0.0.1")

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	s.Nil(resp)
	s.True(s.mockAudit.hasAuditAction("LOGIN_FAILED"))
	s.mockTokenRepo.AssertNotCalled(s.T(), "SaveRefreshToken")
}

func (s *AuthServiceTestSuite) TestLoginUnknownEmailIndistinguishable() {
	ctx := context.Background()

	s.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	resp, err := s.service.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"}, "10.0.0.1")

	// Same bare error as a wrong password, no detail to probe accounts with.
	s.Require().Equal(apperrors.ErrUnauthorized, err)
	s.Nil(resp)
}

func (s *AuthServiceTestSuite) TestLoginInactiveAccountRejected() {
	ctx := context.Background()
	user := s.activeUser("correct-horse")
	user.Status = domain.UserStatusSuspended

	s.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	// Correct credentials still fail while the account is not active.
	resp, err := s.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "correct-horse"}, "10.0.0.1")

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	s.Nil(resp)
	s.True(s.mockAudit.hasAuditAction("LOGIN_REJECTED"))
	s.mockTokenRepo.AssertNotCalled(s.T(), "SaveRefreshToken")
}

func (s *AuthServiceTestSuite) TestRefreshRotatesToken() {
	ctx := context.Background()
	user := s.activeUser("pw")
	raw := "0123456789abcdef0123456789abcdef"
	hash := utils.HashRefreshToken(raw)
	stored := &domain.RefreshToken{
		TokenHash: hash,
		UserID:    user.UserID,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now().Add(-time.Hour),
	}

	s.mockTokenRepo.On("FindRefreshToken", ctx, hash).Return(stored, nil).Once()
	s.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()
	// The consumed hash dies before its replacement is stored.
	s.mockTokenRepo.On("DeleteRefreshToken", ctx, hash).Return(nil).Once()
	s.mockTokenRepo.On("SaveRefreshToken", ctx, mock.AnythingOfType("domain.RefreshToken")).Return(nil).Once()

	resp, err := s.service.Refresh(ctx, raw)

	s.Require().NoError(err)
	s.Require().NotNil(resp)
	s.NotEqual(raw, resp.RefreshToken)
	s.mockTokenRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestRefreshStaleTokenFails() {
	ctx := context.Background()
	raw := "already-rotated-token"
	hash := utils.HashRefreshToken(raw)

	// After a successful rotation the old hash is gone from storage.
	s.mockTokenRepo.On("FindRefreshToken", ctx, hash).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := s.service.Refresh(ctx, raw)

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	s.Nil(resp)
	s.mockTokenRepo.AssertNotCalled(s.T(), "SaveRefreshToken")
}

func (s *AuthServiceTestSuite) TestRefreshExpiredTokenDeleted() {
	ctx := context.Background()
	raw := "expired-token"
	hash := utils.HashRefreshToken(raw)
	stored := &domain.RefreshToken{
		TokenHash: hash,
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	s.mockTokenRepo.On("FindRefreshToken", ctx, hash).Return(stored, nil).Once()
	s.mockTokenRepo.On("DeleteRefreshToken", ctx, hash).Return(nil).Once()

	resp, err := s.service.Refresh(ctx, raw)

	s.Require().ErrorIs(err, apperrors.ErrRefreshTokenExpired)
	s.Nil(resp)
	s.mockTokenRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestLogoutIsIdempotent() {
	ctx := context.Background()
	raw := "some-token"
	hash := utils.HashRefreshToken(raw)

	s.mockTokenRepo.On("FindRefreshToken", ctx, hash).Return(nil, apperrors.ErrNotFound).Once()

	err := s.service.Logout(ctx, "user-1", raw)

	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestLogoutRejectsForeignToken() {
	ctx := context.Background()
	raw := "someone-elses-token"
	hash := utils.HashRefreshToken(raw)
	stored := &domain.RefreshToken{TokenHash: hash, UserID: "user-2", ExpiresAt: time.Now().Add(time.Hour)}

	s.mockTokenRepo.On("FindRefreshToken", ctx, hash).Return(stored, nil).Once()

	err := s.service.Logout(ctx, "user-1", raw)

	s.Require().ErrorIs(err, apperrors.ErrForbidden)
	s.mockTokenRepo.AssertNotCalled(s.T(), "DeleteRefreshToken")
}

func (s *AuthServiceTestSuite) TestLogoutAllRevokesEverySession() {
	ctx := context.Background()

	s.mockTokenRepo.On("DeleteRefreshTokensForUser", ctx, "user-1").Return(nil).Once()

	err := s.service.Logout(ctx, "user-1", "")

	s.NoError(err)
	s.mockTokenRepo.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestValidateInactiveFails() {
	ctx := context.Background()
	user := s.activeUser("pw")
	user.Status = domain.UserStatusInactive

	s.mockUserRepo.On("FindUserByID", ctx, user.UserID).Return(user, nil).Once()

	got, err := s.service.Validate(ctx, user.UserID)

	s.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	s.Nil(got)
}
