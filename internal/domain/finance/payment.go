package finance

import (
	"time"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Payment records an inbound gateway settlement for an order, paired 1:1
// with its ledger transaction. GatewayResponse keeps the raw gateway
// payload as a JSON column.
type Payment struct {
	shared.BaseEntity
	TransactionID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	OrderID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Gateway         string     `gorm:"type:varchar(50);not null"`
	GatewayRef      string     `gorm:"type:varchar(100)"`
	GatewayResponse string     `gorm:"type:jsonb;default:'{}'"`
	PaidAt          *time.Time
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}
