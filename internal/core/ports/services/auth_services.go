package services

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	"github.com/apphgio/tools_platform_app/internal/dto"
)

// AuthSvcFacade authenticates principals and manages the token pair
// lifecycle: issue, rotate, revoke, validate.
type AuthSvcFacade interface {
	// Login verifies an email/password pair against an active account and
	// issues an access/refresh token pair.
	Login(ctx context.Context, req dto.LoginRequest, clientIP string) (*dto.LoginResponse, error)

	// LoginWithProvider accepts a verified external identity assertion
	// (Google ID token) for an existing active account.
	LoginWithProvider(ctx context.Context, idToken string, clientIP string) (*dto.LoginResponse, error)

	// Refresh rotates a refresh token: the presented token is invalidated
	// and a new pair is issued. A stale token fails with ErrUnauthorized.
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)

	// Logout revokes the given refresh token, or every token of the user
	// when none is supplied.
	Logout(ctx context.Context, userID string, refreshToken string) error

	// Validate re-fetches the token's subject and fails unless the account
	// still exists and is active. Every guarded request runs through this.
	Validate(ctx context.Context, userID string) (*domain.User, error)
}
