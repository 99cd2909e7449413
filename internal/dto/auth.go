package dto

import "github.com/apphgio/tools_platform_app/internal/core/domain"

// LoginRequest carries the credential pair.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProviderLoginRequest carries an external identity provider's ID token.
type ProviderLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// RefreshTokenRequest carries the refresh token being rotated.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest optionally names the refresh token to revoke; when empty,
// every token of the user is revoked.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthUser is the slim user snapshot embedded in a login response.
type AuthUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Avatar      string `json:"avatar,omitempty"`
}

// LoginResponse is the issued token pair plus the user snapshot.
type LoginResponse struct {
	User         AuthUser `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int64    `json:"expiresIn"` // seconds until access token expiry
}

// ToAuthUser maps a domain user to the login snapshot.
func ToAuthUser(u *domain.User) AuthUser {
	return AuthUser{
		ID:          u.UserID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Avatar:      u.Avatar,
	}
}
