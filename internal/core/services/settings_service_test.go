package services_test

import (
	"context"
	"testing"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SettingsServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockSettingsRepository
	mockAudit *MockAuditService
	service   portssvc.SettingsSvcFacade
}

func (s *SettingsServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockSettingsRepository)
	s.mockAudit = new(MockAuditService)
	s.service = services.NewSettingsService(s.mockRepo, s.mockAudit)
}

func TestSettingsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceTestSuite))
}

func (s *SettingsServiceTestSuite) TestGetSettingsSectionUnknownKey() {
	values, err := s.service.GetSettingsSection(context.Background(), "nonsense")

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Nil(values)
	s.mockRepo.AssertNotCalled(s.T(), "FindSettingsSection")
}

func (s *SettingsServiceTestSuite) TestGetSettingsSectionNeverWrittenReadsEmpty() {
	ctx := context.Background()
	s.mockRepo.On("FindSettingsSection", ctx, domain.SettingsAppearance).
		Return(nil, apperrors.ErrNotFound).Once()

	values, err := s.service.GetSettingsSection(ctx, domain.SettingsAppearance)

	s.Require().NoError(err)
	s.NotNil(values)
	s.Empty(values)
}

func (s *SettingsServiceTestSuite) TestUpdateSettingsSectionMergesKeys() {
	ctx := context.Background()
	s.mockRepo.On("FindSettingsSection", ctx, domain.SettingsGeneral).
		Return(map[string]any{"platformName": "Tools", "maintenanceMode": false}, nil).Once()
	s.mockRepo.On("SaveSettingsSection", ctx, domain.SettingsGeneral, mock.MatchedBy(func(m map[string]any) bool {
		// Untouched keys survive the write.
		return m["platformName"] == "Tools" && m["maintenanceMode"] == true
	})).Return(nil).Once()

	result, err := s.service.UpdateSettingsSection(ctx, domain.SettingsGeneral,
		map[string]any{"maintenanceMode": true}, "admin-1")

	s.Require().NoError(err)
	s.Equal("Tools", result["platformName"])
	s.Equal(true, result["maintenanceMode"])
	s.True(s.mockAudit.hasAuditAction("SETTINGS_UPDATED"))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *SettingsServiceTestSuite) TestUpdateSettingsSectionRejectsEmptyPayload() {
	result, err := s.service.UpdateSettingsSection(context.Background(), domain.SettingsGeneral,
		map[string]any{}, "admin-1")

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Nil(result)
	s.mockRepo.AssertNotCalled(s.T(), "SaveSettingsSection")
}

func (s *SettingsServiceTestSuite) TestUpdateSettingsSectionAuditCarriesPreviousValue() {
	ctx := context.Background()
	s.mockRepo.On("FindSettingsSection", ctx, domain.SettingsAccess).
		Return(map[string]any{"selfSignup": true}, nil).Once()
	s.mockRepo.On("SaveSettingsSection", ctx, domain.SettingsAccess, mock.Anything).
		Return(nil).Once()

	_, err := s.service.UpdateSettingsSection(ctx, domain.SettingsAccess,
		map[string]any{"selfSignup": false}, "admin-1")

	s.Require().NoError(err)
	s.Require().Len(s.mockAudit.Entries, 1)
	entry := s.mockAudit.Entries[0]
	s.Equal(true, entry.PreviousValue["selfSignup"])
	s.Equal(false, entry.NewValue["selfSignup"])
}
