package repositories

import (
	"context"
	"time"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
)

// ToolReader defines read operations for catalog tools.
type ToolReader interface {
	// FindToolByID retrieves a specific tool by its ID.
	FindToolByID(ctx context.Context, toolID string) (*domain.Tool, error)

	// FindToolBySlug retrieves a tool by its unique slug.
	FindToolBySlug(ctx context.Context, slug string) (*domain.Tool, error)

	// FindTools retrieves one page of tools matching the filters (including
	// the role-visibility predicate) plus the total match count.
	FindTools(ctx context.Context, filters domain.ToolFilters, opts domain.ListOptions) ([]domain.Tool, int64, error)

	// CountActiveTools returns the number of tools with active status.
	CountActiveTools(ctx context.Context) (int64, error)

	// FindTopTools returns tools ranked by total access, highest first.
	FindTopTools(ctx context.Context, limit int) ([]domain.ToolAccessCount, error)
}

// ToolWriter defines write operations for catalog tools. Implementations
// must keep the denormalized Category/Section toolCount consistent within
// the same unit of work.
type ToolWriter interface {
	// SaveTool persists a new tool and increments its parents' tool counts.
	SaveTool(ctx context.Context, tool domain.Tool) error

	// UpdateTool updates a tool. When the update moves the tool to a new
	// category or section, the old parent's count is decremented and the
	// new one's incremented in the same unit of work.
	UpdateTool(ctx context.Context, tool domain.Tool, prevCategoryID, prevSectionID string) error

	// DeleteTool hard-deletes a tool and decrements its parents' tool counts.
	DeleteTool(ctx context.Context, toolID string) error

	// RecordAccess bumps the tool's denormalized access stats.
	RecordAccess(ctx context.Context, toolID string, at time.Time) error
}

// ToolRepositoryFacade combines all tool-related repository interfaces.
type ToolRepositoryFacade interface {
	ToolReader
	ToolWriter
}
