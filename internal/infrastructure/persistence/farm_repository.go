package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/agrimarket/backend/internal/domain/farm"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFarmRepository implements FarmRepository using GORM
type GormFarmRepository struct {
	*GormRepository[farm.Farm]
}

var _ farm.FarmRepository = (*GormFarmRepository)(nil)

// NewGormFarmRepository creates a new GormFarmRepository
func NewGormFarmRepository(db *gorm.DB) *GormFarmRepository {
	return &GormFarmRepository{GormRepository: NewGormRepository[farm.Farm](db)}
}

// FindByVendor finds a vendor's farms
func (r *GormFarmRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]farm.Farm, error) {
	var farms []farm.Farm
	if err := r.DB().WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("name ASC").
		Find(&farms).Error; err != nil {
		return nil, err
	}
	return farms, nil
}

// GormEnvironmentReadingRepository implements EnvironmentReadingRepository
// using GORM
type GormEnvironmentReadingRepository struct {
	*GormRepository[farm.EnvironmentReading]
}

var _ farm.EnvironmentReadingRepository = (*GormEnvironmentReadingRepository)(nil)

// NewGormEnvironmentReadingRepository creates a new GormEnvironmentReadingRepository
func NewGormEnvironmentReadingRepository(db *gorm.DB) *GormEnvironmentReadingRepository {
	return &GormEnvironmentReadingRepository{GormRepository: NewGormRepository[farm.EnvironmentReading](db)}
}

// FindByFarmInRange finds a farm's samples inside a time window
func (r *GormEnvironmentReadingRepository) FindByFarmInRange(ctx context.Context, farmID uuid.UUID, from, to time.Time) ([]farm.EnvironmentReading, error) {
	var readings []farm.EnvironmentReading
	if err := r.DB().WithContext(ctx).
		Where("farm_id = ? AND recorded_at >= ? AND recorded_at < ?", farmID, from, to).
		Order("recorded_at ASC").
		Find(&readings).Error; err != nil {
		return nil, err
	}
	return readings, nil
}

// LatestByFarm finds a farm's most recent sample
func (r *GormEnvironmentReadingRepository) LatestByFarm(ctx context.Context, farmID uuid.UUID) (*farm.EnvironmentReading, error) {
	var reading farm.EnvironmentReading
	if err := r.DB().WithContext(ctx).
		Where("farm_id = ?", farmID).
		Order("recorded_at DESC").
		First(&reading).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reading, nil
}
