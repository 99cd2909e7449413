package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portssvc "github.com/apphgio/tools_platform_app/internal/core/ports/services"
	"github.com/apphgio/tools_platform_app/internal/core/services"
	"github.com/apphgio/tools_platform_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AuditServiceTestSuite struct {
	suite.Suite
	mockAccessRepo *MockAccessLogRepository
	mockErrorRepo  *MockErrorLogRepository
	mockSystemRepo *MockSystemLogRepository
	service        portssvc.AuditSvcFacade
}

func (s *AuditServiceTestSuite) SetupTest() {
	s.mockAccessRepo = new(MockAccessLogRepository)
	s.mockErrorRepo = new(MockErrorLogRepository)
	s.mockSystemRepo = new(MockSystemLogRepository)
	s.service = services.NewAuditService(s.mockAccessRepo, s.mockErrorRepo, s.mockSystemRepo, nil, nil)
}

func TestAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}

func (s *AuditServiceTestSuite) TestRecordSystemLogFillsDefaults() {
	ctx := context.Background()
	s.mockSystemRepo.On("SaveSystemLog", ctx, mock.MatchedBy(func(e domain.SystemLog) bool {
		return e.LogID != "" && !e.Timestamp.IsZero() && e.Type == domain.SystemLogInfo
	})).Return(nil).Once()

	s.service.RecordSystemLog(ctx, domain.SystemLog{
		Category: "system",
		Action:   "BACKEND_STARTED",
	})

	s.mockSystemRepo.AssertExpectations(s.T())
}

func (s *AuditServiceTestSuite) TestRecordSystemLogSwallowsPersistFailure() {
	ctx := context.Background()
	s.mockSystemRepo.On("SaveSystemLog", ctx, mock.Anything).
		Return(errors.New("storage down")).Once()

	// Must not panic; audit writes never fail the caller.
	s.service.RecordSystemLog(ctx, domain.SystemLog{Action: "X"})

	s.mockSystemRepo.AssertExpectations(s.T())
}

func (s *AuditServiceTestSuite) TestListAccessLogsCursorGatedOnBackendSupport() {
	ctx := context.Background()
	params := dto.ListAccessLogsParams{StartAfter: "opaque-cursor"}

	s.mockAccessRepo.cursorSupport = false
	s.mockAccessRepo.On("FindAccessLogs", ctx, mock.Anything, mock.MatchedBy(func(o domain.ListOptions) bool {
		return o.StartAfter == ""
	})).Return(domain.Page[domain.AccessLog]{Items: []domain.AccessLog{}}, nil).Once()

	_, err := s.service.ListAccessLogs(ctx, params)
	s.Require().NoError(err)

	s.mockAccessRepo.cursorSupport = true
	s.mockAccessRepo.On("FindAccessLogs", ctx, mock.Anything, mock.MatchedBy(func(o domain.ListOptions) bool {
		return o.StartAfter == "opaque-cursor"
	})).Return(domain.Page[domain.AccessLog]{Items: []domain.AccessLog{}}, nil).Once()

	_, err = s.service.ListAccessLogs(ctx, params)
	s.Require().NoError(err)
	s.mockAccessRepo.AssertExpectations(s.T())
}

func (s *AuditServiceTestSuite) TestCreateErrorLogRejectsUnknownSeverity() {
	entry, err := s.service.CreateErrorLog(context.Background(), dto.CreateErrorLogRequest{
		Type:     "api_error",
		Severity: "catastrophic",
		Code:     "E100",
		Message:  "boom",
	})

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Nil(entry)
	s.mockErrorRepo.AssertNotCalled(s.T(), "SaveErrorLog")
}

func (s *AuditServiceTestSuite) TestCreateErrorLogStartsNew() {
	ctx := context.Background()
	s.mockErrorRepo.On("SaveErrorLog", ctx, mock.MatchedBy(func(e domain.ErrorLog) bool {
		return e.Status == domain.ErrorStatusNew && e.LogID != ""
	})).Return(nil).Once()

	entry, err := s.service.CreateErrorLog(ctx, dto.CreateErrorLogRequest{
		Type:     "api_error",
		Severity: "high",
		Code:     "E100",
		Message:  "boom",
	})

	s.Require().NoError(err)
	s.Equal(domain.ErrorStatusNew, entry.Status)
	s.Equal(domain.SeverityHigh, entry.Severity)
}

func (s *AuditServiceTestSuite) TestUpdateErrorLogStatusRejectsIllegalTransition() {
	ctx := context.Background()
	resolved := &domain.ErrorLog{LogID: "log-1", Status: domain.ErrorStatusResolved}
	s.mockErrorRepo.On("FindErrorLogByID", ctx, "log-1").Return(resolved, nil).Once()

	entry, err := s.service.UpdateErrorLogStatus(ctx, "log-1",
		dto.UpdateErrorStatusRequest{Status: "investigating"}, "admin-1")

	s.Require().ErrorIs(err, apperrors.ErrValidation)
	s.Nil(entry)
	s.mockErrorRepo.AssertNotCalled(s.T(), "UpdateErrorLogStatus")
}

func (s *AuditServiceTestSuite) TestUpdateErrorLogStatusResolveStampsResolution() {
	ctx := context.Background()
	open := &domain.ErrorLog{LogID: "log-2", Status: domain.ErrorStatusInvestigating}
	s.mockErrorRepo.On("FindErrorLogByID", ctx, "log-2").Return(open, nil).Once()
	s.mockErrorRepo.On("UpdateErrorLogStatus", ctx, mock.MatchedBy(func(e domain.ErrorLog) bool {
		return e.Status == domain.ErrorStatusResolved &&
			e.Resolution == "restarted worker" &&
			e.ResolvedBy == "admin-1" &&
			e.ResolvedAt != nil
	})).Return(nil).Once()
	s.mockSystemRepo.On("SaveSystemLog", ctx, mock.MatchedBy(func(e domain.SystemLog) bool {
		return e.Action == "ERROR_STATUS_CHANGED"
	})).Return(nil).Once()

	entry, err := s.service.UpdateErrorLogStatus(ctx, "log-2",
		dto.UpdateErrorStatusRequest{Status: "resolved", Resolution: "restarted worker"}, "admin-1")

	s.Require().NoError(err)
	s.Equal(domain.ErrorStatusResolved, entry.Status)
	s.mockErrorRepo.AssertExpectations(s.T())
	s.mockSystemRepo.AssertExpectations(s.T())
}
