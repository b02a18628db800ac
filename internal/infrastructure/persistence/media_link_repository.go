package persistence

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/media"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMediaLinkRepository implements MediaLinkRepository using GORM
type GormMediaLinkRepository struct {
	*GormRepository[media.MediaLink]
}

var _ media.MediaLinkRepository = (*GormMediaLinkRepository)(nil)

// NewGormMediaLinkRepository creates a new GormMediaLinkRepository
func NewGormMediaLinkRepository(db *gorm.DB) *GormMediaLinkRepository {
	return &GormMediaLinkRepository{GormRepository: NewGormRepository[media.MediaLink](db)}
}

// FindByOwner finds the attachments of one owning entity in display order
func (r *GormMediaLinkRepository) FindByOwner(ctx context.Context, ownerType media.OwnerType, ownerID uuid.UUID) ([]media.MediaLink, error) {
	var links []media.MediaLink
	if err := r.DB().WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Order("sort_order ASC, created_at ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// DeleteByOwner removes every attachment of one owning entity
func (r *GormMediaLinkRepository) DeleteByOwner(ctx context.Context, ownerType media.OwnerType, ownerID uuid.UUID) error {
	return r.DB().WithContext(ctx).
		Delete(&media.MediaLink{}, "owner_type = ? AND owner_id = ?", ownerType, ownerID).Error
}
