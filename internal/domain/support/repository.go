package support

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RequestRepository defines persistence operations for support requests
type RequestRepository interface {
	shared.Repository[Request]
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[Request], error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Request, error)
	FindPending(ctx context.Context, filter shared.Filter) (shared.Paginated[Request], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target RequestStatus) error
}
