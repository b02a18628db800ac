package persistence

import (
	"context"
	"errors"

	"github.com/agrimarket/backend/internal/domain/order"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

var _ order.OrderRepository = (*GormOrderRepository)(nil)

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByIDWithDetails finds an order with its line items preloaded
func (r *GormOrderRepository) FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Details").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByUser finds a user's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[order.Order], error) {
	return r.paginate(ctx, filter, "user_id = ?", userID)
}

// FindByStatus finds orders in a given status, newest first
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status order.OrderStatus, filter shared.Filter) (shared.Paginated[order.Order], error) {
	return r.paginate(ctx, filter, "status = ?", status)
}

func (r *GormOrderRepository) paginate(ctx context.Context, filter shared.Filter, condition string, args ...any) (shared.Paginated[order.Order], error) {
	filter.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Where(condition, args...).
		Count(&total).Error; err != nil {
		return shared.Paginated[order.Order]{}, err
	}

	var orders []order.Order
	if err := r.db.WithContext(ctx).
		Where(condition, args...).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&orders).Error; err != nil {
		return shared.Paginated[order.Order]{}, err
	}

	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// Create persists the order, its details and the stock decrement for each
// line in one transaction. A line whose product lacks stock aborts the
// whole order.
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	if len(o.Details) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must have at least one line item")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Details").Create(o).Error; err != nil {
			return err
		}

		for i := range o.Details {
			o.Details[i].OrderID = o.ID
		}
		if err := tx.CreateInBatches(o.Details, 200).Error; err != nil {
			return err
		}

		for i := range o.Details {
			if err := decrementProductStock(tx, o.Details[i].ProductID, o.Details[i].Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus transitions the order's status, enforcing the transition table
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, target order.OrderStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o order.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := o.TransitionTo(target); err != nil {
			return err
		}

		return tx.Model(&o).Updates(map[string]interface{}{
			"status":       o.Status,
			"paid_at":      o.PaidAt,
			"delivered_at": o.DeliveredAt,
			"updated_at":   o.UpdatedAt,
		}).Error
	})
}

// CountDetails returns the total and refunded line-item counts for an order
func (r *GormOrderRepository) CountDetails(ctx context.Context, orderID uuid.UUID) (int64, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&order.OrderDetail{}).
		Where("order_id = ?", orderID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var refunded int64
	if err := r.db.WithContext(ctx).Model(&order.OrderDetail{}).
		Where("order_id = ? AND is_refunded = ?", orderID, true).
		Count(&refunded).Error; err != nil {
		return 0, 0, err
	}

	return total, refunded, nil
}
