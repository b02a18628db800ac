package persistence

import (
	"context"
	"errors"

	"github.com/agrimarket/backend/internal/domain/catalog"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	*GormRepository[catalog.Product]
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{GormRepository: NewGormRepository[catalog.Product](db)}
}

// FindByIDWithCategory loads a product together with its category so
// callers can branch on the serial-required flag
func (r *GormProductRepository) FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.FindByIDWithRelations(ctx, id, "Category")
}

// FindBySku finds a vendor's product by SKU
func (r *GormProductRepository) FindBySku(ctx context.Context, vendorID uuid.UUID, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.DB().WithContext(ctx).
		Where("vendor_id = ? AND sku = ?", vendorID, sku).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByVendor finds a vendor's products
func (r *GormProductRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (shared.Paginated[catalog.Product], error) {
	return r.paginateWhere(ctx, filter, "vendor_id = ?", vendorID)
}

// FindByCategory finds products in a category
func (r *GormProductRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) (shared.Paginated[catalog.Product], error) {
	return r.paginateWhere(ctx, filter, "category_id = ?", categoryID)
}

func (r *GormProductRepository) paginateWhere(ctx context.Context, filter shared.Filter, condition string, args ...any) (shared.Paginated[catalog.Product], error) {
	filter.Normalize()

	var total int64
	if err := r.DB().WithContext(ctx).Model(&catalog.Product{}).
		Where(condition, args...).
		Count(&total).Error; err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}

	var products []catalog.Product
	if err := r.DB().WithContext(ctx).
		Where(condition, args...).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&products).Error; err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}

	return shared.NewPaginated(products, total, filter.Page, filter.PageSize), nil
}

// AdjustStock atomically adds delta to the product's stock quantity.
// A negative delta that would take stock below zero fails.
func (r *GormProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}

	query := r.DB().WithContext(ctx).Model(&catalog.Product{}).Where("id = ?", id)
	if delta < 0 {
		query = query.Where("stock_quantity >= ?", -delta)
	}
	result := query.UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if delta < 0 {
			var count int64
			if err := r.DB().WithContext(ctx).Model(&catalog.Product{}).
				Where("id = ?", id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return shared.ErrInsufficientStock
			}
		}
		return shared.ErrNotFound
	}
	return nil
}

// FindLowStock finds a vendor's products at or below the threshold
func (r *GormProductRepository) FindLowStock(ctx context.Context, vendorID uuid.UUID, threshold int) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.DB().WithContext(ctx).
		Where("vendor_id = ? AND stock_quantity <= ?", vendorID, threshold).
		Order("stock_quantity ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	*GormRepository[catalog.Category]
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{GormRepository: NewGormRepository[catalog.Category](db)}
}

// FindByName finds a category by its unique name
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.DB().WithContext(ctx).
		Where("name = ?", name).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}
