package persistence

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// safeColumn guards ORDER BY input. Only plain column identifiers pass,
// anything else falls back to created_at.
var safeColumn = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// GormRepository is the generic persistence gateway. Per-entity
// repositories embed it and add their domain-specific queries on top.
type GormRepository[T any] struct {
	db *gorm.DB
}

// NewGormRepository creates a generic repository for the entity type T
func NewGormRepository[T any](db *gorm.DB) *GormRepository[T] {
	return &GormRepository[T]{db: db}
}

// DB exposes the underlying connection for embedding repositories
func (r *GormRepository[T]) DB() *gorm.DB {
	return r.db
}

// FindByID retrieves an entity by its primary key
func (r *GormRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entity: %w", err)
	}
	return &entity, nil
}

// FindByIDWithRelations retrieves an entity with the named associations preloaded
func (r *GormRepository[T]) FindByIDWithRelations(ctx context.Context, id uuid.UUID, relations ...string) (*T, error) {
	query := r.db.WithContext(ctx)
	for _, relation := range relations {
		query = query.Preload(relation)
	}
	var entity T
	err := query.First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entity: %w", err)
	}
	return &entity, nil
}

// FindAll retrieves one page of entities matching the filter
func (r *GormRepository[T]) FindAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	filter.Normalize()
	var entities []T
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	return entities, nil
}

// Paginate retrieves one page of entities together with the total count
func (r *GormRepository[T]) Paginate(ctx context.Context, filter shared.Filter) (shared.Paginated[T], error) {
	filter.Normalize()

	var model T
	var total int64
	if err := r.applyWhere(r.db.WithContext(ctx).Model(&model), filter).Count(&total).Error; err != nil {
		return shared.Paginated[T]{}, fmt.Errorf("failed to count entities: %w", err)
	}

	var entities []T
	err := r.applyFilter(r.db.WithContext(ctx), filter).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&entities).Error
	if err != nil {
		return shared.Paginated[T]{}, fmt.Errorf("failed to list entities: %w", err)
	}

	return shared.NewPaginated(entities, total, filter.Page, filter.PageSize), nil
}

// Save inserts or updates an entity
func (r *GormRepository[T]) Save(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return fmt.Errorf("failed to save entity: %w", err)
	}
	return nil
}

// Delete removes an entity by its primary key
func (r *GormRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var model T
	result := r.db.WithContext(ctx).Delete(&model, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete entity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count returns the number of entities matching the filter
func (r *GormRepository[T]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var model T
	var total int64
	if err := r.applyWhere(r.db.WithContext(ctx).Model(&model), filter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return total, nil
}

// Exists reports whether an entity with the given ID exists
func (r *GormRepository[T]) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var model T
	var count int64
	if err := r.db.WithContext(ctx).Model(&model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return count > 0, nil
}

// UpdateColumns updates selected columns of an entity without loading it
func (r *GormRepository[T]) UpdateColumns(ctx context.Context, id uuid.UUID, values map[string]any) error {
	var model T
	result := r.db.WithContext(ctx).Model(&model).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update entity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyWhere applies the filter's equality conditions
func (r *GormRepository[T]) applyWhere(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for column, value := range filter.Filters {
		if safeColumn.MatchString(column) {
			query = query.Where(fmt.Sprintf("%s = ?", column), value)
		}
	}
	return query
}

// applyFilter applies conditions and ordering
func (r *GormRepository[T]) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyWhere(query, filter)

	orderBy := filter.OrderBy
	if !safeColumn.MatchString(orderBy) {
		orderBy = "created_at"
	}
	direction := "DESC"
	if filter.OrderDir == "asc" {
		direction = "ASC"
	}
	return query.Order(fmt.Sprintf("%s %s", orderBy, direction))
}
