package identity

import (
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorProfile holds the storefront profile of a vendor account
type VendorProfile struct {
	shared.BaseEntity
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	ShopName    string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Verified    bool            `gorm:"not null;default:false"`
	Rating      decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (VendorProfile) TableName() string {
	return "vendor_profiles"
}

// NewVendorProfile creates a new vendor profile for a user
func NewVendorProfile(userID uuid.UUID, shopName string) (*VendorProfile, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if shopName == "" {
		return nil, shared.NewDomainError("INVALID_SHOP_NAME", "Shop name cannot be empty")
	}
	return &VendorProfile{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ShopName:   shopName,
		Rating:     decimal.Zero,
	}, nil
}
