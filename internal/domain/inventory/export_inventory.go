package inventory

import (
	"time"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ExportKind classifies a stock-out movement
type ExportKind string

const (
	// ExportKindSale records units leaving stock against an order sale
	ExportKindSale ExportKind = "SALE"
	// ExportKindAdjustment records a manual stock correction
	ExportKindAdjustment ExportKind = "ADJUSTMENT"
)

// IsValid checks if the kind is a valid ExportKind
func (k ExportKind) IsValid() bool {
	return k == ExportKindSale || k == ExportKindAdjustment
}

// String returns the string representation of ExportKind
func (k ExportKind) String() string {
	return string(k)
}

// ExportInventory is a stock-out record referencing a product and,
// depending on the movement, an order, order detail and serial.
// The cumulative exported quantity for a lot must never exceed the
// quantity taken in for that lot; this is enforced by re-aggregation
// inside the export transaction, not by a database constraint.
type ExportInventory struct {
	shared.BaseEntity
	ProductID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID         *uuid.UUID `gorm:"type:uuid;index"`
	OrderDetailID   *uuid.UUID `gorm:"type:uuid;index"`
	ProductSerialID *uuid.UUID `gorm:"type:uuid;index"`
	LotNumber       string     `gorm:"type:varchar(50);not null;index"`
	Quantity        int        `gorm:"not null"`
	Kind            ExportKind `gorm:"type:varchar(20);not null"`
	Reason          string     `gorm:"type:varchar(255)"`
	Refunded        bool       `gorm:"not null;default:false"`
	ExportedAt      time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ExportInventory) TableName() string {
	return "export_inventories"
}

// NewExportInventory creates a new stock-out record
func NewExportInventory(productID uuid.UUID, lotNumber string, quantity int, kind ExportKind) (*ExportInventory, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if lotNumber == "" {
		return nil, shared.NewDomainError("MISSING_LOT_NUMBER", "Export requires a lot number")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Export quantity must be positive")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_EXPORT_KIND", "Invalid export kind")
	}
	return &ExportInventory{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		LotNumber:  lotNumber,
		Quantity:   quantity,
		Kind:       kind,
		ExportedAt: time.Now(),
	}, nil
}

// LotBalance is the derived inflow/outflow balance for one lot number.
// Remaining is never stored; it is recomputed on every query.
type LotBalance struct {
	LotNumber string
	Received  int
	Exported  int
	Remaining int
}
