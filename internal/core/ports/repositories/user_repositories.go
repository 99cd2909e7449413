package repositories

import (
	"context"
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their unique email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves one page of users matching the filters plus the total match count.
	FindUsers(ctx context.Context, filters domain.UserFilters, opts domain.ListOptions) ([]domain.User, int64, error)

	// CountUsersByRole returns the number of users per role.
	CountUsersByRole(ctx context.Context) (map[domain.UserRole]int64, error)

	// CountUsersByStatus returns the number of users per status.
	CountUsersByStatus(ctx context.Context) (map[domain.UserStatus]int64, error)

	// FindRecentUsers retrieves the most recently created users.
	FindRecentUsers(ctx context.Context, limit int) ([]domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user. Returns apperrors.ErrDuplicate when the email is taken.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates an existing user's details.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateLastLogin stamps the user's last successful login time.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// AssignTools replaces the user's assigned tool set.
	AssignTools(ctx context.Context, userID string, toolIDs []string, updatedBy string) error

	// DeleteUser hard-deletes a user.
	DeleteUser(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
