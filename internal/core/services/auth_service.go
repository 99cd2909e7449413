package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/apphgio/tools_platform_app/internal/utils"
	"github.com/apphgio/tools_platform_app/pkg/config"
	"google.golang.org/api/idtoken"
)

// idTokenValidator verifies an external provider's ID token. Indirection
// exists so tests can stub the network validation.
type idTokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// authService implements AuthSvcFacade: credential verification, token
// pair issuance, refresh rotation, and revocation.
type authService struct {
	cfg       *config.Config
	userRepo  portsrepo.UserRepositoryFacade
	tokenRepo portsrepo.RefreshTokenRepositoryFacade
	audit     portssvc.AuditSvcFacade

	validateIDToken idTokenValidator
}

// NewAuthService creates a new auth service.
func NewAuthService(
	cfg *config.Config,
	userRepo portsrepo.UserRepositoryFacade,
	tokenRepo portsrepo.RefreshTokenRepositoryFacade,
	audit portssvc.AuditSvcFacade,
) portssvc.AuthSvcFacade {
	return &authService{
		cfg:             cfg,
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		audit:           audit,
		validateIDToken: idtoken.Validate,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, clientIP string) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Indistinguishable from a wrong password on the wire.
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user for login: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.recordAuthEvent(ctx, user, "LOGIN_FAILED", "Invalid password", clientIP)
		return nil, apperrors.ErrUnauthorized
	}
	if !user.IsActive() {
		s.recordAuthEvent(ctx, user, "LOGIN_REJECTED", fmt.Sprintf("Account status %s", user.Status), clientIP)
		return nil, apperrors.ErrUnauthorized
	}

	resp, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.UserID, now); err != nil {
		return nil, fmt.Errorf("failed to stamp last login: %w", err)
	}
	s.recordAuthEvent(ctx, user, "LOGIN", "Successful login", clientIP)
	return resp, nil
}

func (s *authService) LoginWithProvider(ctx context.Context, idToken string, clientIP string) (*dto.LoginResponse, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, fmt.Errorf("provider login not configured: %w", apperrors.ErrUnauthorized)
	}

	payload, err := s.validateIDToken(ctx, idToken, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("invalid provider token: %w", apperrors.ErrUnauthorized)
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("provider token carries no email: %w", apperrors.ErrUnauthorized)
	}

	// Provider login never provisions accounts; the user must already exist.
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user for provider login: %w", err)
	}
	if !user.IsActive() {
		s.recordAuthEvent(ctx, user, "LOGIN_REJECTED", fmt.Sprintf("Account status %s", user.Status), clientIP)
		return nil, apperrors.ErrUnauthorized
	}

	resp, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateLastLogin(ctx, user.UserID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to stamp last login: %w", err)
	}
	s.recordAuthEvent(ctx, user, "LOGIN_PROVIDER", "Successful provider login", clientIP)
	return resp, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	hash := utils.HashRefreshToken(refreshToken)
	stored, err := s.tokenRepo.FindRefreshToken(ctx, hash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Already rotated or never issued.
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if stored.IsExpired(time.Now()) {
		// Expired rows are garbage; remove eagerly.
		_ = s.tokenRepo.DeleteRefreshToken(ctx, hash)
		return nil, apperrors.ErrRefreshTokenExpired
	}

	user, err := s.userRepo.FindUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = s.tokenRepo.DeleteRefreshToken(ctx, hash)
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load refresh token subject: %w", err)
	}
	if !user.IsActive() {
		_ = s.tokenRepo.DeleteRefreshToken(ctx, hash)
		return nil, apperrors.ErrUnauthorized
	}

	// Rotation: the presented token dies before its replacement is stored,
	// so no two valid tokens of one chain coexist.
	if err := s.tokenRepo.DeleteRefreshToken(ctx, hash); err != nil {
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	return s.issueTokenPair(ctx, user)
}

func (s *authService) Logout(ctx context.Context, userID string, refreshToken string) error {
	if refreshToken == "" {
		if err := s.tokenRepo.DeleteRefreshTokensForUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		return nil
	}

	hash := utils.HashRefreshToken(refreshToken)
	stored, err := s.tokenRepo.FindRefreshToken(ctx, hash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil // already gone, logout is idempotent
		}
		return fmt.Errorf("failed to look up refresh token for logout: %w", err)
	}
	if stored.UserID != userID {
		return apperrors.ErrForbidden
	}
	if err := s.tokenRepo.DeleteRefreshToken(ctx, hash); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *authService) Validate(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to validate token subject: %w", err)
	}
	if !user.IsActive() {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// issueTokenPair mints a signed access token and a stored-hashed refresh token.
func (s *authService) issueTokenPair(ctx context.Context, user *domain.User) (*dto.LoginResponse, error) {
	accessToken, err := utils.GenerateAccessJWT(
		user.UserID, user.Email, string(user.Role),
		s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	rawRefresh, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	stored := domain.RefreshToken{
		TokenHash: utils.HashRefreshToken(rawRefresh),
		UserID:    user.UserID,
		ExpiresAt: now.Add(s.cfg.RefreshTokenExpiryDuration),
		CreatedAt: now,
	}
	if err := s.tokenRepo.SaveRefreshToken(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &dto.LoginResponse{
		User:         dto.ToAuthUser(user),
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		ExpiresIn:    int64(s.cfg.JWTExpiryDuration.Seconds()),
	}, nil
}

func (s *authService) recordAuthEvent(ctx context.Context, user *domain.User, action, description, clientIP string) {
	s.audit.RecordSystemLog(ctx, domain.SystemLog{
		Type:        domain.SystemLogSecurity,
		Category:    "auth",
		Action:      action,
		Description: description,
		ActorID:     user.UserID,
		ActorEmail:  user.Email,
		ActorRole:   user.Role,
		IPAddress:   clientIP,
	})
}
