package order

import (
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDetail is a line item of an order. SerialNumber is set only for
// products in serial-required categories; LotNumber is always set so the
// sale can be reconciled against batch intakes.
type OrderDetail struct {
	shared.BaseEntity
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	Quantity         int             `gorm:"not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LotNumber        string          `gorm:"type:varchar(50);not null"`
	SerialNumber     *string         `gorm:"type:varchar(100)"`
	IsRefunded       bool            `gorm:"not null;default:false"`
	IsWalletCredited bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (OrderDetail) TableName() string {
	return "order_details"
}

// NewOrderDetail creates a new line item with the subtotal precomputed
func NewOrderDetail(productID uuid.UUID, productName, lotNumber string, quantity int, unitPrice decimal.Decimal) (*OrderDetail, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if lotNumber == "" {
		return nil, shared.NewDomainError("MISSING_LOT_NUMBER", "Order line requires a lot number")
	}
	return &OrderDetail{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		LotNumber:   lotNumber,
	}, nil
}
