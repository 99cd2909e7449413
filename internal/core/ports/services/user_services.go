package services

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	"github.com/apphgio/tools_platform_app/internal/dto"
)

// UserReaderSvc defines read operations of the user service.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, params dto.ListUsersParams) (*domain.Page[domain.User], error)
	GetUserStats(ctx context.Context) (*domain.UserStats, error)
}

// UserWriterSvc defines mutating operations of the user service.
type UserWriterSvc interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string, deleterUserID string) error
	AssignTools(ctx context.Context, userID string, toolIDs []string, assignerUserID string) error
}

// UserSvcFacade combines all user service interfaces.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
