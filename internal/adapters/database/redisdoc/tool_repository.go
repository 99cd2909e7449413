package redisdoc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/apphgio/tools_platform_app/internal/platform/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	toolsCollection      = "tools"
	categoriesCollection = "categories"
	sectionsCollection   = "sections"
)

type RedisToolRepository struct {
	store *store
}

func newRedisToolRepository(rdb *redis.Client) portsrepo.ToolRepositoryFacade {
	return &RedisToolRepository{store: &store{rdb: rdb}}
}

var _ portsrepo.ToolRepositoryFacade = (*RedisToolRepository)(nil)

func (r *RedisToolRepository) FindToolByID(ctx context.Context, toolID string) (*domain.Tool, error) {
	var tool domain.Tool
	if err := r.store.getDoc(ctx, toolsCollection, toolID, &tool); err != nil {
		return nil, err
	}
	return &tool, nil
}

func (r *RedisToolRepository) FindToolBySlug(ctx context.Context, slug string) (*domain.Tool, error) {
	toolID, err := r.store.resolveLookup(ctx, toolsCollection, "slug", slug)
	if err != nil {
		return nil, err
	}
	return r.FindToolByID(ctx, toolID)
}

// matchTool evaluates the full filter set, visibility predicate included,
// against one document.
func matchTool(filters domain.ToolFilters) func(*domain.Tool) bool {
	search := strings.ToLower(filters.Search)
	assigned := map[string]bool{}
	for _, id := range filters.ToolIDs {
		assigned[id] = true
	}
	courses := map[string]bool{}
	for _, c := range filters.AnyCourse {
		courses[c] = true
	}

	return func(t *domain.Tool) bool {
		if filters.MatchNone {
			return false
		}
		if filters.CategoryID != "" && t.CategoryID != filters.CategoryID {
			return false
		}
		if filters.SectionID != "" && t.SectionID != filters.SectionID {
			return false
		}
		if filters.Type != "" && t.Type != filters.Type {
			return false
		}
		if filters.Status != "" && t.Status != filters.Status {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Name), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			return false
		}

		switch {
		case len(assigned) > 0:
			return assigned[t.ToolID]
		case filters.AllowedRole != "" && len(courses) > 0:
			if t.AllowsRole(filters.AllowedRole) {
				return true
			}
			for _, c := range t.RelatedCourses {
				if courses[c] {
					return true
				}
			}
			return false
		case filters.AllowedRole != "":
			return t.AllowsRole(filters.AllowedRole)
		}
		return true
	}
}

func (r *RedisToolRepository) FindTools(ctx context.Context, filters domain.ToolFilters, opts domain.ListOptions) ([]domain.Tool, int64, error) {
	tools, err := listDocs(ctx, r.store, toolsCollection, matchTool(filters))
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(tools))

	start := opts.Offset()
	if start >= len(tools) {
		return []domain.Tool{}, total, nil
	}
	end := start + opts.Limit
	if end > len(tools) {
		end = len(tools)
	}
	return tools[start:end], total, nil
}

func (r *RedisToolRepository) CountActiveTools(ctx context.Context) (int64, error) {
	tools, err := listDocs(ctx, r.store, toolsCollection, func(t *domain.Tool) bool {
		return t.Status == domain.ToolStatusActive
	})
	if err != nil {
		return 0, err
	}
	return int64(len(tools)), nil
}

func (r *RedisToolRepository) FindTopTools(ctx context.Context, limit int) ([]domain.ToolAccessCount, error) {
	tools, err := listDocs(ctx, r.store, toolsCollection, func(t *domain.Tool) bool {
		return t.Stats.TotalAccess > 0
	})
	if err != nil {
		return nil, err
	}

	top := make([]domain.ToolAccessCount, len(tools))
	for i, t := range tools {
		top[i] = domain.ToolAccessCount{ToolID: t.ToolID, ToolName: t.Name, Count: t.Stats.TotalAccess}
	}
	// Insertion sort by count descending; collections here are small.
	for i := 1; i < len(top); i++ {
		for j := i; j > 0 && top[j].Count > top[j-1].Count; j-- {
			top[j], top[j-1] = top[j-1], top[j]
		}
	}
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (r *RedisToolRepository) SaveTool(ctx context.Context, tool domain.Tool) error {
	defer metrics.TrackStorageOperation("save_tool")(time.Now())

	slugKey := lookupKey(toolsCollection, "slug", tool.Slug)
	claimed, err := r.store.rdb.SetNX(ctx, slugKey, tool.ToolID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim slug for tool %s: %w", tool.ToolID, err)
	}
	if !claimed {
		return apperrors.ErrDuplicate
	}

	raw, err := json.Marshal(tool)
	if err != nil {
		_ = r.store.rdb.Del(ctx, slugKey)
		return fmt.Errorf("failed to encode tool %s: %w", tool.ToolID, err)
	}

	// Document write, index entry, and both parent counters land in one
	// transactional pipeline.
	pipe := r.store.rdb.TxPipeline()
	pipe.Set(ctx, docKey(toolsCollection, tool.ToolID), raw, 0)
	pipe.ZAdd(ctx, indexKey(toolsCollection), redis.Z{Score: float64(tool.CreatedAt.UnixNano()), Member: tool.ToolID})
	pipe.HIncrBy(ctx, counterKey(categoriesCollection), tool.CategoryID, 1)
	pipe.HIncrBy(ctx, counterKey(sectionsCollection), tool.SectionID, 1)
	if _, err := pipe.Exec(ctx); err != nil {
		_ = r.store.rdb.Del(ctx, slugKey)
		return fmt.Errorf("failed to write tool %s: %w", tool.ToolID, err)
	}
	return nil
}

func (r *RedisToolRepository) UpdateTool(ctx context.Context, tool domain.Tool, prevCategoryID, prevSectionID string) error {
	defer metrics.TrackStorageOperation("update_tool")(time.Now())

	var existing domain.Tool
	if err := r.store.getDoc(ctx, toolsCollection, tool.ToolID, &existing); err != nil {
		return err
	}

	raw, err := json.Marshal(tool)
	if err != nil {
		return fmt.Errorf("failed to encode tool %s: %w", tool.ToolID, err)
	}

	pipe := r.store.rdb.TxPipeline()
	pipe.Set(ctx, docKey(toolsCollection, tool.ToolID), raw, 0)
	if existing.Slug != tool.Slug {
		pipe.Del(ctx, lookupKey(toolsCollection, "slug", existing.Slug))
		pipe.Set(ctx, lookupKey(toolsCollection, "slug", tool.Slug), tool.ToolID, 0)
	}
	if tool.CategoryID != prevCategoryID {
		pipe.HIncrBy(ctx, counterKey(categoriesCollection), prevCategoryID, -1)
		pipe.HIncrBy(ctx, counterKey(categoriesCollection), tool.CategoryID, 1)
	}
	if tool.SectionID != prevSectionID {
		pipe.HIncrBy(ctx, counterKey(sectionsCollection), prevSectionID, -1)
		pipe.HIncrBy(ctx, counterKey(sectionsCollection), tool.SectionID, 1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update tool %s: %w", tool.ToolID, err)
	}
	return nil
}

func (r *RedisToolRepository) DeleteTool(ctx context.Context, toolID string) error {
	defer metrics.TrackStorageOperation("delete_tool")(time.Now())

	var tool domain.Tool
	if err := r.store.getDoc(ctx, toolsCollection, toolID, &tool); err != nil {
		return err
	}

	pipe := r.store.rdb.TxPipeline()
	pipe.Del(ctx, docKey(toolsCollection, toolID))
	pipe.ZRem(ctx, indexKey(toolsCollection), toolID)
	pipe.Del(ctx, lookupKey(toolsCollection, "slug", tool.Slug))
	pipe.HIncrBy(ctx, counterKey(categoriesCollection), tool.CategoryID, -1)
	pipe.HIncrBy(ctx, counterKey(sectionsCollection), tool.SectionID, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete tool %s: %w", toolID, err)
	}
	return nil
}

func (r *RedisToolRepository) RecordAccess(ctx context.Context, toolID string, at time.Time) error {
	var tool domain.Tool
	if err := r.store.getDoc(ctx, toolsCollection, toolID, &tool); err != nil {
		return err
	}
	tool.Stats.TotalAccess++
	tool.Stats.LastAccessed = &at
	return r.store.setDoc(ctx, toolsCollection, toolID, tool, tool.CreatedAt)
}
