package farm

import (
	"context"
	"time"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FarmRepository defines persistence operations for farms
type FarmRepository interface {
	shared.Repository[Farm]
	FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]Farm, error)
}

// EnvironmentReadingRepository defines persistence operations for environment samples
type EnvironmentReadingRepository interface {
	shared.Repository[EnvironmentReading]
	FindByFarmInRange(ctx context.Context, farmID uuid.UUID, from, to time.Time) ([]EnvironmentReading, error)
	LatestByFarm(ctx context.Context, farmID uuid.UUID) (*EnvironmentReading, error)
}
