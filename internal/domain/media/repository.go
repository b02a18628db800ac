package media

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MediaLinkRepository defines persistence operations for media attachments
type MediaLinkRepository interface {
	shared.Repository[MediaLink]
	FindByOwner(ctx context.Context, ownerType OwnerType, ownerID uuid.UUID) ([]MediaLink, error)
	DeleteByOwner(ctx context.Context, ownerType OwnerType, ownerID uuid.UUID) error
}
