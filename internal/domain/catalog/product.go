package catalog

import (
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a product listing
type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "ACTIVE"
	ProductStatusInactive   ProductStatus = "INACTIVE"
	ProductStatusOutOfStock ProductStatus = "OUT_OF_STOCK"
)

// IsValid checks if the status is a valid ProductStatus
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive, ProductStatusOutOfStock:
		return true
	}
	return false
}

// String returns the string representation of ProductStatus
func (s ProductStatus) String() string {
	return string(s)
}

// Product represents a catalog item offered by a vendor.
// Specifications and Tags are semi-structured JSON columns.
type Product struct {
	shared.BaseEntity
	VendorID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_products_vendor_sku,priority:1"`
	CategoryID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Sku            string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_vendor_sku,priority:2"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Description    string          `gorm:"type:text"`
	Price          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	StockQuantity  int             `gorm:"not null;default:0"`
	Unit           string          `gorm:"type:varchar(20)"`
	Specifications string          `gorm:"type:jsonb;default:'{}'"`
	Tags           string          `gorm:"type:jsonb;default:'[]'"`
	Status         ProductStatus   `gorm:"type:varchar(20);not null;default:'ACTIVE'"`

	Category *Category `gorm:"foreignKey:CategoryID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product listing
func NewProduct(vendorID, categoryID uuid.UUID, sku, name string, price decimal.Decimal) (*Product, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VENDOR", "Vendor ID cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return &Product{
		BaseEntity:     shared.NewBaseEntity(),
		VendorID:       vendorID,
		CategoryID:     categoryID,
		Sku:            sku,
		Name:           name,
		Price:          price,
		Specifications: "{}",
		Tags:           "[]",
		Status:         ProductStatusActive,
	}, nil
}

// SerialRequired reports whether units of this product need individual
// serial tracking. The category must be loaded.
func (p *Product) SerialRequired() bool {
	return p.Category != nil && p.Category.SerialRequired
}
