package persistence

import (
	"context"
	"errors"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/agrimarket/backend/internal/domain/support"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSupportRequestRepository implements RequestRepository using GORM
type GormSupportRequestRepository struct {
	*GormRepository[support.Request]
}

var _ support.RequestRepository = (*GormSupportRequestRepository)(nil)

// NewGormSupportRequestRepository creates a new GormSupportRequestRepository
func NewGormSupportRequestRepository(db *gorm.DB) *GormSupportRequestRepository {
	return &GormSupportRequestRepository{GormRepository: NewGormRepository[support.Request](db)}
}

// FindByUser finds a user's support requests, newest first
func (r *GormSupportRequestRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[support.Request], error) {
	return r.paginateWhere(ctx, filter, "created_at DESC", "user_id = ?", userID)
}

// FindByOrder finds the support requests raised against an order
func (r *GormSupportRequestRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]support.Request, error) {
	var requests []support.Request
	if err := r.DB().WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindPending finds pending requests, oldest first so the queue is worked
// in arrival order
func (r *GormSupportRequestRepository) FindPending(ctx context.Context, filter shared.Filter) (shared.Paginated[support.Request], error) {
	return r.paginateWhere(ctx, filter, "created_at ASC", "status = ?", support.RequestStatusPending)
}

func (r *GormSupportRequestRepository) paginateWhere(ctx context.Context, filter shared.Filter, orderBy string, condition string, args ...any) (shared.Paginated[support.Request], error) {
	filter.Normalize()

	var total int64
	if err := r.DB().WithContext(ctx).Model(&support.Request{}).
		Where(condition, args...).
		Count(&total).Error; err != nil {
		return shared.Paginated[support.Request]{}, err
	}

	var requests []support.Request
	if err := r.DB().WithContext(ctx).
		Where(condition, args...).
		Order(orderBy).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&requests).Error; err != nil {
		return shared.Paginated[support.Request]{}, err
	}

	return shared.NewPaginated(requests, total, filter.Page, filter.PageSize), nil
}

// UpdateStatus transitions a request's status, enforcing the transition table
func (r *GormSupportRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, target support.RequestStatus) error {
	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req support.Request
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := req.TransitionTo(target); err != nil {
			return err
		}

		return tx.Model(&req).Updates(map[string]interface{}{
			"status":      req.Status,
			"resolved_at": req.ResolvedAt,
			"updated_at":  req.UpdatedAt,
		}).Error
	})
}
