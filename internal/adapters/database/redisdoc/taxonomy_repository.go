package redisdoc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/apphgio/tools_platform_app/internal/core/domain"
	portsrepo "github.com/apphgio/tools_platform_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

type RedisCategoryRepository struct {
	store *store
}

func newRedisCategoryRepository(rdb *redis.Client) portsrepo.CategoryRepositoryFacade {
	return &RedisCategoryRepository{store: &store{rdb: rdb}}
}

var _ portsrepo.CategoryRepositoryFacade = (*RedisCategoryRepository)(nil)

// toolCount reads one denormalized counter from its hash. Counters live
// outside the documents so tool writes can adjust them with HINCRBY.
func (s *store) toolCount(ctx context.Context, collection, id string) (int64, error) {
	raw, err := s.rdb.HGet(ctx, counterKey(collection), id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read %s tool count: %w", collection, err)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s tool count: %w", collection, err)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

func (s *store) toolCounts(ctx context.Context, collection string) (map[string]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, counterKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s tool counts: %w", collection, err)
	}
	counts := make(map[string]int64, len(raw))
	for id, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s tool count: %w", collection, err)
		}
		if n < 0 {
			n = 0
		}
		counts[id] = n
	}
	return counts, nil
}

func (r *RedisCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	var category domain.Category
	if err := r.store.getDoc(ctx, categoriesCollection, categoryID, &category); err != nil {
		return nil, err
	}
	count, err := r.store.toolCount(ctx, categoriesCollection, categoryID)
	if err != nil {
		return nil, err
	}
	category.ToolCount = count
	return &category, nil
}

func (r *RedisCategoryRepository) FindCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	var match func(*domain.Category) bool
	if activeOnly {
		match = func(c *domain.Category) bool { return c.IsActive }
	}
	categories, err := listDocs(ctx, r.store, categoriesCollection, match)
	if err != nil {
		return nil, err
	}

	counts, err := r.store.toolCounts(ctx, categoriesCollection)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categories[i].ToolCount = counts[categories[i].CategoryID]
	}

	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Order != categories[j].Order {
			return categories[i].Order < categories[j].Order
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (r *RedisCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	return r.store.setDoc(ctx, categoriesCollection, category.CategoryID, category, category.CreatedAt)
}

func (r *RedisCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	var existing domain.Category
	if err := r.store.getDoc(ctx, categoriesCollection, category.CategoryID, &existing); err != nil {
		return err
	}
	return r.store.setDoc(ctx, categoriesCollection, category.CategoryID, category, category.CreatedAt)
}

func (r *RedisCategoryRepository) DeleteCategory(ctx context.Context, categoryID string) error {
	if err := r.store.deleteDoc(ctx, categoriesCollection, categoryID); err != nil {
		return err
	}
	if err := r.store.rdb.HDel(ctx, counterKey(categoriesCollection), categoryID).Err(); err != nil {
		return fmt.Errorf("failed to drop category tool count: %w", err)
	}
	return nil
}

type RedisSectionRepository struct {
	store *store
}

func newRedisSectionRepository(rdb *redis.Client) portsrepo.SectionRepositoryFacade {
	return &RedisSectionRepository{store: &store{rdb: rdb}}
}

var _ portsrepo.SectionRepositoryFacade = (*RedisSectionRepository)(nil)

func (r *RedisSectionRepository) FindSectionByID(ctx context.Context, sectionID string) (*domain.Section, error) {
	var section domain.Section
	if err := r.store.getDoc(ctx, sectionsCollection, sectionID, &section); err != nil {
		return nil, err
	}
	count, err := r.store.toolCount(ctx, sectionsCollection, sectionID)
	if err != nil {
		return nil, err
	}
	section.ToolCount = count
	return &section, nil
}

func (r *RedisSectionRepository) FindSections(ctx context.Context, activeOnly bool) ([]domain.Section, error) {
	var match func(*domain.Section) bool
	if activeOnly {
		match = func(s *domain.Section) bool { return s.IsActive }
	}
	sections, err := listDocs(ctx, r.store, sectionsCollection, match)
	if err != nil {
		return nil, err
	}

	counts, err := r.store.toolCounts(ctx, sectionsCollection)
	if err != nil {
		return nil, err
	}
	for i := range sections {
		sections[i].ToolCount = counts[sections[i].SectionID]
	}

	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].Order != sections[j].Order {
			return sections[i].Order < sections[j].Order
		}
		return sections[i].Name < sections[j].Name
	})
	return sections, nil
}

func (r *RedisSectionRepository) SaveSection(ctx context.Context, section domain.Section) error {
	return r.store.setDoc(ctx, sectionsCollection, section.SectionID, section, section.CreatedAt)
}

func (r *RedisSectionRepository) UpdateSection(ctx context.Context, section domain.Section) error {
	var existing domain.Section
	if err := r.store.getDoc(ctx, sectionsCollection, section.SectionID, &existing); err != nil {
		return err
	}
	return r.store.setDoc(ctx, sectionsCollection, section.SectionID, section, section.CreatedAt)
}

func (r *RedisSectionRepository) DeleteSection(ctx context.Context, sectionID string) error {
	if err := r.store.deleteDoc(ctx, sectionsCollection, sectionID); err != nil {
		return err
	}
	if err := r.store.rdb.HDel(ctx, counterKey(sectionsCollection), sectionID).Err(); err != nil {
		return fmt.Errorf("failed to drop section tool count: %w", err)
	}
	return nil
}
