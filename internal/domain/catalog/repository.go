package catalog

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	shared.Repository[Category]
	FindByName(ctx context.Context, name string) (*Category, error)
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	shared.Repository[Product]
	// FindByIDWithCategory loads a product together with its category so
	// callers can branch on the SerialRequired flag.
	FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySku(ctx context.Context, vendorID uuid.UUID, sku string) (*Product, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) (shared.Paginated[Product], error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) (shared.Paginated[Product], error)
	// AdjustStock atomically adds delta to the product's stock quantity.
	// A negative delta that would take stock below zero fails with
	// ErrInsufficientStock.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	FindLowStock(ctx context.Context, vendorID uuid.UUID, threshold int) ([]Product, error)
}
