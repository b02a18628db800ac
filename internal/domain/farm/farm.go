package farm

import (
	"time"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Farm is a vendor production site. Coordinates feed the weather lookup.
type Farm struct {
	shared.BaseEntity
	VendorID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Address   string    `gorm:"type:varchar(500)"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
	AreaHa    float64   `gorm:"not null;default:0"`
	CropType  string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Farm) TableName() string {
	return "farms"
}

// NewFarm creates a new farm record
func NewFarm(vendorID uuid.UUID, name string, lat, lon float64) (*Farm, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Farm name cannot be empty")
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, shared.NewDomainError("INVALID_COORDINATES", "Coordinates out of range")
	}
	return &Farm{
		BaseEntity: shared.NewBaseEntity(),
		VendorID:   vendorID,
		Name:       name,
		Latitude:   lat,
		Longitude:  lon,
	}, nil
}

// EnvironmentReading is a sensor or weather sample captured for a farm
type EnvironmentReading struct {
	shared.BaseEntity
	FarmID       uuid.UUID `gorm:"type:uuid;not null;index:idx_env_readings_farm_time,priority:1"`
	RecordedAt   time.Time `gorm:"not null;index:idx_env_readings_farm_time,priority:2"`
	TemperatureC float64
	HumidityPct  float64
	RainfallMm   float64
	SoilPH       float64
	Source       string `gorm:"type:varchar(50);not null;default:'SENSOR'"`
}

// TableName returns the table name for GORM
func (EnvironmentReading) TableName() string {
	return "environment_readings"
}

// NewEnvironmentReading records a sample for a farm
func NewEnvironmentReading(farmID uuid.UUID, recordedAt time.Time, source string) (*EnvironmentReading, error) {
	if farmID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FARM", "Farm ID cannot be empty")
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	if source == "" {
		source = "SENSOR"
	}
	return &EnvironmentReading{
		BaseEntity: shared.NewBaseEntity(),
		FarmID:     farmID,
		RecordedAt: recordedAt,
		Source:     source,
	}, nil
}
