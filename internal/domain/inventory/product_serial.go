package inventory

import (
	"fmt"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SerialStatus represents the status of an individually tracked unit
type SerialStatus string

const (
	SerialStatusStock      SerialStatus = "STOCK"
	SerialStatusSold       SerialStatus = "SOLD"
	SerialStatusAdjustment SerialStatus = "ADJUSTMENT"
	SerialStatusRefund     SerialStatus = "REFUND"
)

// IsValid checks if the status is a valid SerialStatus
func (s SerialStatus) IsValid() bool {
	switch s {
	case SerialStatusStock, SerialStatusSold, SerialStatusAdjustment, SerialStatusRefund:
		return true
	}
	return false
}

// String returns the string representation of SerialStatus
func (s SerialStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Transitions only move forward: STOCK -> SOLD -> REFUND, or
// STOCK -> ADJUSTMENT. A unit never returns to STOCK.
func (s SerialStatus) CanTransitionTo(target SerialStatus) bool {
	switch s {
	case SerialStatusStock:
		return target == SerialStatusSold || target == SerialStatusAdjustment
	case SerialStatusSold:
		return target == SerialStatusRefund
	case SerialStatusAdjustment, SerialStatusRefund:
		return false
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s SerialStatus) IsTerminal() bool {
	return s == SerialStatusAdjustment || s == SerialStatusRefund
}

// ProductSerial is one row per physical unit when serial tracking applies.
// It belongs to exactly one batch and one product.
type ProductSerial struct {
	shared.BaseEntity
	BatchInventoryID uuid.UUID    `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID    `gorm:"type:uuid;not null;index"`
	SerialNumber     string       `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status           SerialStatus `gorm:"type:varchar(20);not null;default:'STOCK'"`
}

// TableName returns the table name for GORM
func (ProductSerial) TableName() string {
	return "product_serials"
}

// TransitionTo moves the serial to the target status, enforcing the
// forward-only transition table.
func (s *ProductSerial) TransitionTo(target SerialStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_SERIAL_STATUS", "Invalid serial status")
	}
	if !s.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_SERIAL_TRANSITION",
			fmt.Sprintf("Cannot transition serial %s from %s to %s", s.SerialNumber, s.Status, target))
	}
	s.Status = target
	s.Touch()
	return nil
}

// SerialNumberFor derives the deterministic serial number for the unit at
// the given zero-based index within a batch: {Sku}-{BatchNumber}-{index},
// index zero-padded to three digits.
func SerialNumberFor(sku, batchNumber string, index int) string {
	return fmt.Sprintf("%s-%s-%03d", sku, batchNumber, index)
}

// GenerateSerials builds the full set of serial rows for a batch, one per
// unit, all in STOCK status.
func GenerateSerials(batch *BatchInventory, sku string) []ProductSerial {
	serials := make([]ProductSerial, batch.Quantity)
	for i := 0; i < batch.Quantity; i++ {
		serials[i] = ProductSerial{
			BaseEntity:       shared.NewBaseEntity(),
			BatchInventoryID: batch.ID,
			ProductID:        batch.ProductID,
			SerialNumber:     SerialNumberFor(sku, batch.BatchNumber, i),
			Status:           SerialStatusStock,
		}
	}
	return serials
}
