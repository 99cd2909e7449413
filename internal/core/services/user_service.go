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
	"github.com/google/uuid"
)

const recentUsersLimit = 5

// userService implements UserSvcFacade.
type userService struct {
	userRepo  portsrepo.UserRepositoryFacade
	toolRepo  portsrepo.ToolRepositoryFacade
	tokenRepo portsrepo.RefreshTokenRepositoryFacade
	audit     portssvc.AuditSvcFacade
}

// NewUserService creates a new user service.
func NewUserService(
	userRepo portsrepo.UserRepositoryFacade,
	toolRepo portsrepo.ToolRepositoryFacade,
	tokenRepo portsrepo.RefreshTokenRepositoryFacade,
	audit portssvc.AuditSvcFacade,
) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, toolRepo: toolRepo, tokenRepo: tokenRepo, audit: audit}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, params dto.ListUsersParams) (*domain.Page[domain.User], error) {
	opts := params.ToListOptions()
	users, total, err := s.userRepo.FindUsers(ctx, params.ToFilters(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &domain.Page[domain.User]{Items: users, Meta: domain.NewPageMeta(opts, total)}, nil
}

func (s *userService) GetUserStats(ctx context.Context) (*domain.UserStats, error) {
	byRole, err := s.userRepo.CountUsersByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	byStatus, err := s.userRepo.CountUsersByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by status: %w", err)
	}
	recent, err := s.userRepo.FindRecentUsers(ctx, recentUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent users: %w", err)
	}

	var total int64
	for _, n := range byRole {
		total += n
	}
	return &domain.UserStats{
		Total:       total,
		ByRole:      byRole,
		ByStatus:    byStatus,
		RecentUsers: recent,
	}, nil
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	role := domain.UserRole(req.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q: %w", req.Role, apperrors.ErrValidation)
	}

	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already in use: %w", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:          uuid.NewString(),
		Email:           req.Email,
		PasswordHash:    hash,
		DisplayName:     req.DisplayName,
		Role:            role,
		Status:          domain.UserStatusActive,
		CompanyID:       req.CompanyID,
		AssignedToolIDs: req.AssignedToolIDs,
		EnrolledCourses: req.EnrolledCourses,
		Restrictions:    req.Restrictions,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: creatorUserID,
			UpdatedAt: now,
			UpdatedBy: creatorUserID,
		},
	}
	if user.AssignedToolIDs == nil {
		user.AssignedToolIDs = []string{}
	}
	if user.EnrolledCourses == nil {
		user.EnrolledCourses = []string{}
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.RecordSystemLog(ctx, domain.SystemLog{
		Type:        domain.SystemLogAudit,
		Category:    "users",
		Action:      "USER_CREATED",
		Description: fmt.Sprintf("User %s created with role %s", user.Email, user.Role),
		ActorID:     creatorUserID,
		TargetType:  "user",
		TargetID:    user.UserID,
		TargetName:  user.Email,
	})

	return &user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %s for update: %w", userID, err)
	}

	prevRole, prevStatus := user.Role, user.Status

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		if !role.IsValid() {
			return nil, fmt.Errorf("invalid role %q: %w", *req.Role, apperrors.ErrValidation)
		}
		user.Role = role
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		switch status {
		case domain.UserStatusActive, domain.UserStatusInactive, domain.UserStatusSuspended, domain.UserStatusPending:
			user.Status = status
		default:
			return nil, fmt.Errorf("invalid status %q: %w", *req.Status, apperrors.ErrValidation)
		}
	}
	if req.CompanyID != nil {
		user.CompanyID = *req.CompanyID
	}
	if req.AssignedToolIDs != nil {
		user.AssignedToolIDs = *req.AssignedToolIDs
	}
	if req.EnrolledCourses != nil {
		user.EnrolledCourses = *req.EnrolledCourses
	}
	if req.Restrictions != nil {
		user.Restrictions = req.Restrictions
	}
	user.UpdatedAt = time.Now()
	user.UpdatedBy = updaterUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}

	// Demotion or deactivation cuts existing sessions off at the next refresh.
	if user.Role != prevRole || (prevStatus == domain.UserStatusActive && user.Status != domain.UserStatusActive) {
		if err := s.tokenRepo.DeleteRefreshTokensForUser(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to revoke sessions for user %s: %w", userID, err)
		}
	}

	s.audit.RecordSystemLog(ctx, domain.SystemLog{
		Type:        domain.SystemLogAudit,
		Category:    "users",
		Action:      "USER_UPDATED",
		Description: fmt.Sprintf("User %s updated", user.Email),
		ActorID:     updaterUserID,
		TargetType:  "user",
		TargetID:    user.UserID,
		TargetName:  user.Email,
	})

	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string, deleterUserID string) error {
	if userID == deleterUserID {
		return fmt.Errorf("cannot delete own account: %w", apperrors.ErrValidation)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user %s for delete: %w", userID, err)
	}

	if err := s.tokenRepo.DeleteRefreshTokensForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions for user %s: %w", userID, err)
	}
	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}

	s.audit.RecordSystemLog(ctx, domain.SystemLog{
		Type:        domain.SystemLogAudit,
		Category:    "users",
		Action:      "USER_DELETED",
		Description: fmt.Sprintf("User %s deleted", user.Email),
		ActorID:     deleterUserID,
		TargetType:  "user",
		TargetID:    userID,
		TargetName:  user.Email,
	})

	return nil
}

func (s *userService) AssignTools(ctx context.Context, userID string, toolIDs []string, assignerUserID string) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user %s for assignment: %w", userID, err)
	}

	// Every assigned ID must resolve to an existing tool.
	for _, toolID := range toolIDs {
		if _, err := s.toolRepo.FindToolByID(ctx, toolID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("tool %s does not exist: %w", toolID, apperrors.ErrValidation)
			}
			return fmt.Errorf("failed to check tool %s: %w", toolID, err)
		}
	}

	if toolIDs == nil {
		toolIDs = []string{}
	}
	if err := s.userRepo.AssignTools(ctx, userID, toolIDs, assignerUserID); err != nil {
		return fmt.Errorf("failed to assign tools to user %s: %w", userID, err)
	}

	s.audit.RecordSystemLog(ctx, domain.SystemLog{
		Type:        domain.SystemLogAudit,
		Category:    "users",
		Action:      "TOOLS_ASSIGNED",
		Description: fmt.Sprintf("%d tools assigned to %s", len(toolIDs), user.Email),
		ActorID:     assignerUserID,
		TargetType:  "user",
		TargetID:    userID,
		TargetName:  user.Email,
	})

	return nil
}
