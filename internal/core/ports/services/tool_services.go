package services

import (
	"context"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	"github.com/apphgio/tools_platform_app/internal/dto"
)

// ToolReaderSvc defines read operations of the tool service.
type ToolReaderSvc interface {
	GetToolByID(ctx context.Context, toolID string) (*domain.Tool, error)

	// ListTools lists without role restriction (admin surface).
	ListTools(ctx context.Context, params dto.ListToolsParams) (*domain.Page[domain.Tool], error)

	// ListToolsForUser applies the role-based visibility filter for the
	// requesting user before pagination. Re-evaluated on every call.
	ListToolsForUser(ctx context.Context, userID string, role domain.UserRole, params dto.ListToolsParams) (*domain.Page[domain.Tool], error)
}

// ToolWriterSvc defines mutating operations of the tool service.
type ToolWriterSvc interface {
	CreateTool(ctx context.Context, req dto.CreateToolRequest, creatorUserID string) (*domain.Tool, error)
	UpdateTool(ctx context.Context, toolID string, req dto.UpdateToolRequest, updaterUserID string) (*domain.Tool, error)
	DeleteTool(ctx context.Context, toolID string, deleterUserID string) error

	// RecordAccess appends an access-log entry and bumps the tool's
	// denormalized stats.
	RecordAccess(ctx context.Context, toolID string, userID string, req dto.RecordAccessRequest) error
}

// ToolSvcFacade combines all tool service interfaces.
type ToolSvcFacade interface {
	ToolReaderSvc
	ToolWriterSvc
}
