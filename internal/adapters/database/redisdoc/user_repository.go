package redisdoc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const usersCollection = "users"

type RedisUserRepository struct {
	store *store
}

func newRedisUserRepository(rdb *redis.Client) portsrepo.UserRepositoryFacade {
	return &RedisUserRepository{store: &store{rdb: rdb}}
}

var _ portsrepo.UserRepositoryFacade = (*RedisUserRepository)(nil)

// userDoc is the stored shape; the password hash needs an explicit field
// because domain.User hides it from JSON.
type userDoc struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

func toUserDoc(u domain.User) userDoc {
	return userDoc{User: u, PasswordHash: u.PasswordHash}
}

func (d userDoc) toDomain() domain.User {
	u := d.User
	u.PasswordHash = d.PasswordHash
	return u
}

func (r *RedisUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var doc userDoc
	if err := r.store.getDoc(ctx, usersCollection, userID, &doc); err != nil {
		return nil, err
	}
	user := doc.toDomain()
	return &user, nil
}

func (r *RedisUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	userID, err := r.store.resolveLookup(ctx, usersCollection, "email", strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	return r.FindUserByID(ctx, userID)
}

func matchUser(filters domain.UserFilters) func(*userDoc) bool {
	search := strings.ToLower(filters.Search)
	return func(d *userDoc) bool {
		if filters.Role != "" && d.Role != filters.Role {
			return false
		}
		if filters.Status != "" && d.Status != filters.Status {
			return false
		}
		if filters.CompanyID != "" && d.CompanyID != filters.CompanyID {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Email), search) &&
			!strings.Contains(strings.ToLower(d.DisplayName), search) {
			return false
		}
		return true
	}
}

func (r *RedisUserRepository) FindUsers(ctx context.Context, filters domain.UserFilters, opts domain.ListOptions) ([]domain.User, int64, error) {
	docs, err := listDocs(ctx, r.store, usersCollection, matchUser(filters))
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(docs))

	start := opts.Offset()
	if start >= len(docs) {
		return []domain.User{}, total, nil
	}
	end := start + opts.Limit
	if end > len(docs) {
		end = len(docs)
	}

	users := make([]domain.User, 0, end-start)
	for _, doc := range docs[start:end] {
		users = append(users, doc.toDomain())
	}
	return users, total, nil
}

func (r *RedisUserRepository) CountUsersByRole(ctx context.Context) (map[domain.UserRole]int64, error) {
	docs, err := listDocs[userDoc](ctx, r.store, usersCollection, nil)
	if err != nil {
		return nil, err
	}
	counts := map[domain.UserRole]int64{}
	for _, doc := range docs {
		counts[doc.Role]++
	}
	return counts, nil
}

func (r *RedisUserRepository) CountUsersByStatus(ctx context.Context) (map[domain.UserStatus]int64, error) {
	docs, err := listDocs[userDoc](ctx, r.store, usersCollection, nil)
	if err != nil {
		return nil, err
	}
	counts := map[domain.UserStatus]int64{}
	for _, doc := range docs {
		counts[doc.Status]++
	}
	return counts, nil
}

func (r *RedisUserRepository) FindRecentUsers(ctx context.Context, limit int) ([]domain.User, error) {
	docs, err := listDocs[userDoc](ctx, r.store, usersCollection, nil)
	if err != nil {
		return nil, err
	}
	if len(docs) > limit {
		docs = docs[:limit]
	}
	users := make([]domain.User, len(docs))
	for i, doc := range docs {
		users[i] = doc.toDomain()
	}
	return users, nil
}

func (r *RedisUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	emailKey := lookupKey(usersCollection, "email", strings.ToLower(user.Email))

	// Claim the email atomically before writing the document.
	claimed, err := r.store.rdb.SetNX(ctx, emailKey, user.UserID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim email for user %s: %w", user.UserID, err)
	}
	if !claimed {
		return apperrors.ErrDuplicate
	}

	if err := r.store.setDoc(ctx, usersCollection, user.UserID, toUserDoc(user), user.CreatedAt); err != nil {
		_ = r.store.rdb.Del(ctx, emailKey)
		return err
	}
	return nil
}

func (r *RedisUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	var existing userDoc
	if err := r.store.getDoc(ctx, usersCollection, user.UserID, &existing); err != nil {
		return err
	}
	// The email is immutable, so the lookup key stays untouched.
	return r.store.setDoc(ctx, usersCollection, user.UserID, toUserDoc(user), user.CreatedAt)
}

func (r *RedisUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	var doc userDoc
	if err := r.store.getDoc(ctx, usersCollection, userID, &doc); err != nil {
		return err
	}
	doc.LastLogin = &at
	return r.store.setDoc(ctx, usersCollection, userID, doc, doc.CreatedAt)
}

func (r *RedisUserRepository) AssignTools(ctx context.Context, userID string, toolIDs []string, updatedBy string) error {
	var doc userDoc
	if err := r.store.getDoc(ctx, usersCollection, userID, &doc); err != nil {
		return err
	}
	doc.AssignedToolIDs = toolIDs
	doc.UpdatedAt = time.Now()
	doc.UpdatedBy = updatedBy
	return r.store.setDoc(ctx, usersCollection, userID, doc, doc.CreatedAt)
}

func (r *RedisUserRepository) DeleteUser(ctx context.Context, userID string) error {
	var doc userDoc
	if err := r.store.getDoc(ctx, usersCollection, userID, &doc); err != nil {
		return err
	}
	if err := r.store.deleteDoc(ctx, usersCollection, userID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if err := r.store.rdb.Del(ctx, lookupKey(usersCollection, "email", strings.ToLower(doc.Email))).Err(); err != nil {
		return fmt.Errorf("failed to release email for user %s: %w", userID, err)
	}
	return nil
}
