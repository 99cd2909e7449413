package redisdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const refreshTokensCollection = "refreshtokens"

type RedisRefreshTokenRepository struct {
	store *store
}

func newRedisRefreshTokenRepository(rdb *redis.Client) portsrepo.RefreshTokenRepositoryFacade {
	return &RedisRefreshTokenRepository{store: &store{rdb: rdb}}
}

var _ portsrepo.RefreshTokenRepositoryFacade = (*RedisRefreshTokenRepository)(nil)

// tokenDoc adds the hash to the stored JSON; the domain type keeps it out
// of API responses.
type tokenDoc struct {
	TokenHash string    `json:"tokenHash"`
	UserID    string    `json:"userID"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func userTokensKey(userID string) string {
	return fmt.Sprintf("%s:%s:user:%s", keyPrefix, refreshTokensCollection, userID)
}

// SaveRefreshToken stores the token with a TTL matching its expiry, so
// Redis reaps stale tokens on its own.
func (r *RedisRefreshTokenRepository) SaveRefreshToken(ctx context.Context, token domain.RefreshToken) error {
	doc := tokenDoc{
		TokenHash: token.TokenHash,
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode refresh token: %w", err)
	}

	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired: %w", apperrors.ErrValidation)
	}

	pipe := r.store.rdb.TxPipeline()
	pipe.Set(ctx, docKey(refreshTokensCollection, token.TokenHash), raw, ttl)
	pipe.SAdd(ctx, userTokensKey(token.UserID), token.TokenHash)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *RedisRefreshTokenRepository) FindRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	raw, err := r.store.rdb.Get(ctx, docKey(refreshTokensCollection, tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}
	var doc tokenDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode refresh token: %w", err)
	}
	return &domain.RefreshToken{
		TokenHash: doc.TokenHash,
		UserID:    doc.UserID,
		ExpiresAt: doc.ExpiresAt,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *RedisRefreshTokenRepository) DeleteRefreshToken(ctx context.Context, tokenHash string) error {
	token, err := r.FindRefreshToken(ctx, tokenHash)
	if err != nil {
		return err
	}
	pipe := r.store.rdb.TxPipeline()
	pipe.Del(ctx, docKey(refreshTokensCollection, tokenHash))
	pipe.SRem(ctx, userTokensKey(token.UserID), tokenHash)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func (r *RedisRefreshTokenRepository) DeleteRefreshTokensForUser(ctx context.Context, userID string) error {
	hashes, err := r.store.rdb.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list refresh tokens for user %s: %w", userID, err)
	}
	pipe := r.store.rdb.TxPipeline()
	for _, hash := range hashes {
		pipe.Del(ctx, docKey(refreshTokensCollection, hash))
	}
	pipe.Del(ctx, userTokensKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete refresh tokens for user %s: %w", userID, err)
	}
	return nil
}
