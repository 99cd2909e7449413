package repositories

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// RefreshTokenRepositoryFacade stores hashed refresh tokens. Rotation is a
// delete of the consumed hash followed by a save of its replacement.
type RefreshTokenRepositoryFacade interface {
	// SaveRefreshToken stores a new hashed token.
	SaveRefreshToken(ctx context.Context, token domain.RefreshToken) error

	// FindRefreshToken looks a stored token up by its hash.
	FindRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// DeleteRefreshToken removes one stored token by hash.
	DeleteRefreshToken(ctx context.Context, tokenHash string) error

	// DeleteRefreshTokensForUser removes every stored token of a user.
	DeleteRefreshTokensForUser(ctx context.Context, userID string) error
}
