package services_test

import (
	"context"
	"testing"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/core/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/apphgio/tools_platform_app/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo  *MockUserRepository
	mockToolRepo  *MockToolRepository
	mockTokenRepo *MockRefreshTokenRepository
	mockAudit     *MockAuditService
	service       portssvc.UserSvcFacade
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(MockUserRepository)
	s.mockToolRepo = new(MockToolRepository)
	s.mockTokenRepo = new(MockRefreshTokenRepository)
	s.mockAudit = new(MockAuditService)
	s.service = services.NewUserService(s.mockUserRepo, s.mockToolRepo, s.mockTokenRepo, s.mockAudit)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) TestCreateUserHashesPassword() {
	ctx := context.Background()

	s.mockUserRepo.On("FindUserByEmail", ctx, "new@example.com").
		Return(nil, apperrors.ErrNotFound).Once()
	s.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "new@example.com" &&
			u.Status == domain.UserStatusActive &&
			u.PasswordHash != "secret-password" &&
			utils.CheckPasswordHash("secret-password", u.PasswordHash)
	})).Return(nil).Once()

	user, err := s.service.CreateUser(ctx, dto.CreateUserRequest{
		Email:       "new@example.com",
		Password:    "secret-password",
		DisplayName: "New User",
		Role:        "free",
	}, "admin-1")

	s.Require().NoError(err)
	s.Equal(domain.RoleFree, user.Role)
	s.NotNil(user.AssignedToolIDs)
	s.True(s.mockAudit.hasAuditAction("USER_CREATED"))
	s.mockUserRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestCreateUserDuplicateEmail() {
	ctx := context.Background()
	existing := &domain.User{UserID: "user-1", Email: "taken@example.com"}

	s.mockUserRepo.On("FindUserByEmail", ctx, "taken@example.com").
		Return(existing, nil).Once()

	user, err := s.service.CreateUser(ctx, dto.CreateUserRequest{
		Email:       "taken@example.com",
		Password:    "secret-password",
		DisplayName: "Dup",
		Role:        "free",
	}, "admin-1")

	s.Require().ErrorIs(err, apperrors.ErrDuplicate)
	s.Nil(user)
	s.mockUserRepo.AssertNotCalled(s.T(), "SaveUser")
}

func (s *UserServiceTestSuite) TestCreateUserInvalidRole() {
	user, err := s.service.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:       "x@example.com",
		Password:    "secret-password",
		DisplayName: "X",
		Role:        "overlord",
	}, "admin-1")

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Nil(user)
}

func (s *UserServiceTestSuite) TestUpdateUserRoleChangeRevokesSessions() {
	ctx := context.Background()
	existing := &domain.User{
		UserID: "user-1",
		Email:  "u@example.com",
		Role:   domain.RoleClient,
		Status: domain.UserStatusActive,
	}
	newRole := "free"

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(existing, nil).Once()
	s.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Role == domain.RoleFree
	})).Return(nil).Once()
	s.mockTokenRepo.On("DeleteRefreshTokensForUser", ctx, "user-1").Return(nil).Once()

	user, err := s.service.UpdateUser(ctx, "user-1", dto.UpdateUserRequest{Role: &newRole}, "admin-1")

	s.Require().NoError(err)
	s.Equal(domain.RoleFree, user.Role)
	s.mockTokenRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestUpdateUserSuspensionRevokesSessions() {
	ctx := context.Background()
	existing := &domain.User{
		UserID: "user-1",
		Email:  "u@example.com",
		Role:   domain.RoleFree,
		Status: domain.UserStatusActive,
	}
	suspended := "suspended"

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(existing, nil).Once()
	s.mockUserRepo.On("UpdateUser", ctx, mock.Anything).Return(nil).Once()
	s.mockTokenRepo.On("DeleteRefreshTokensForUser", ctx, "user-1").Return(nil).Once()

	_, err := s.service.UpdateUser(ctx, "user-1", dto.UpdateUserRequest{Status: &suspended}, "admin-1")

	s.Require().NoError(err)
	s.mockTokenRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestUpdateUserDisplayNameKeepsSessions() {
	ctx := context.Background()
	existing := &domain.User{
		UserID: "user-1",
		Email:  "u@example.com",
		Role:   domain.RoleFree,
		Status: domain.UserStatusActive,
	}
	name := "Renamed"

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(existing, nil).Once()
	s.mockUserRepo.On("UpdateUser", ctx, mock.Anything).Return(nil).Once()

	_, err := s.service.UpdateUser(ctx, "user-1", dto.UpdateUserRequest{DisplayName: &name}, "admin-1")

	s.Require().NoError(err)
	s.mockTokenRepo.AssertNotCalled(s.T(), "DeleteRefreshTokensForUser")
}

func (s *UserServiceTestSuite) TestDeleteUserRejectsSelf() {
	err := s.service.DeleteUser(context.Background(), "admin-1", "admin-1")

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockUserRepo.AssertNotCalled(s.T(), "DeleteUser")
}

func (s *UserServiceTestSuite) TestDeleteUserRevokesSessionsFirst() {
	ctx := context.Background()
	existing := &domain.User{UserID: "user-1", Email: "u@example.com"}

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(existing, nil).Once()
	s.mockTokenRepo.On("DeleteRefreshTokensForUser", ctx, "user-1").Return(nil).Once()
	s.mockUserRepo.On("DeleteUser", ctx, "user-1").Return(nil).Once()

	err := s.service.DeleteUser(ctx, "user-1", "admin-1")

	s.Require().NoError(err)
	s.True(s.mockAudit.hasAuditAction("USER_DELETED"))
	s.mockUserRepo.AssertExpectations(s.T())
	s.mockTokenRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestAssignToolsValidatesToolIDs() {
	ctx := context.Background()
	existing := &domain.User{UserID: "user-1", Email: "u@example.com", Role: domain.RoleClient}

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(existing, nil).Once()
	s.mockToolRepo.On("FindToolByID", ctx, "ghost-tool").
		Return(nil, apperrors.ErrNotFound).Once()

	err := s.service.AssignTools(ctx, "user-1", []string{"ghost-tool"}, "admin-1")

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.mockUserRepo.AssertNotCalled(s.T(), "AssignTools")
}

func (s *UserServiceTestSuite) TestAssignToolsReplacesSet() {
	ctx := context.Background()
	existing := &domain.User{UserID: "user-1", Email: "u@example.com", Role: domain.RoleClient}

	s.mockUserRepo.On("FindUserByID", ctx, "user-1").Return(existing, nil).Once()
	s.mockToolRepo.On("FindToolByID", ctx, "tool-a").
		Return(&domain.Tool{ToolID: "tool-a"}, nil).Once()
	s.mockUserRepo.On("AssignTools", ctx, "user-1", []string{"tool-a"}, "admin-1").
		Return(nil).Once()

	err := s.service.AssignTools(ctx, "user-1", []string{"tool-a"}, "admin-1")

	s.Require().NoError(err)
	s.True(s.mockAudit.hasAuditAction("TOOLS_ASSIGNED"))
	s.mockUserRepo.AssertExpectations(s.T())
}
