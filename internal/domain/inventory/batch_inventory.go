package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QualityCheckStatus represents the quality-check state of a batch intake
type QualityCheckStatus string

const (
	QualityCheckStatusPending QualityCheckStatus = "PENDING"
	QualityCheckStatusPassed  QualityCheckStatus = "PASSED"
	QualityCheckStatusFailed  QualityCheckStatus = "FAILED"
)

// IsValid checks if the status is a valid QualityCheckStatus
func (s QualityCheckStatus) IsValid() bool {
	switch s {
	case QualityCheckStatusPending, QualityCheckStatusPassed, QualityCheckStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of QualityCheckStatus
func (s QualityCheckStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// A failed check may be re-run; a passed one is final.
func (s QualityCheckStatus) CanTransitionTo(target QualityCheckStatus) bool {
	switch s {
	case QualityCheckStatusPending:
		return target == QualityCheckStatusPassed || target == QualityCheckStatusFailed
	case QualityCheckStatusFailed:
		return target == QualityCheckStatusPending || target == QualityCheckStatusPassed
	case QualityCheckStatusPassed:
		return false
	}
	return false
}

// BatchInventory is an intake record of Quantity units of a product at a
// cost, grouped under a lot number. When the product's category requires
// serial tracking, the batch owns exactly Quantity ProductSerial rows.
type BatchInventory struct {
	shared.BaseEntity
	ProductID          uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_batches_product_number,priority:1"`
	BatchNumber        string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_batches_product_number,priority:2"`
	LotNumber          string             `gorm:"type:varchar(50);index"`
	Quantity           int                `gorm:"not null"`
	UnitCost           decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	ReceivedAt         time.Time          `gorm:"not null"`
	QualityCheckStatus QualityCheckStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	QualityNotes       string             `gorm:"type:text"`

	Serials []ProductSerial `gorm:"foreignKey:BatchInventoryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BatchInventory) TableName() string {
	return "batch_inventories"
}

// NewBatchInventory creates a new batch intake record
func NewBatchInventory(productID uuid.UUID, batchNumber, lotNumber string, quantity int, unitCost decimal.Decimal) (*BatchInventory, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	}
	return &BatchInventory{
		BaseEntity:         shared.NewBaseEntity(),
		ProductID:          productID,
		BatchNumber:        batchNumber,
		LotNumber:          lotNumber,
		Quantity:           quantity,
		UnitCost:           unitCost,
		ReceivedAt:         time.Now(),
		QualityCheckStatus: QualityCheckStatusPending,
	}, nil
}

// ValidateForSerialTracking enforces the serial-required invariants:
// positive quantity and a non-empty lot number.
func (b *BatchInventory) ValidateForSerialTracking() error {
	if b.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Serial-tracked batch quantity must be positive")
	}
	if b.LotNumber == "" {
		return shared.NewDomainError("MISSING_LOT_NUMBER", "Serial-tracked batch requires a lot number")
	}
	return nil
}

// AppendQualityNote appends a note to the newline-joined note history.
// Notes are never replaced.
func (b *BatchInventory) AppendQualityNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if b.QualityNotes == "" {
		b.QualityNotes = note
	} else {
		b.QualityNotes = b.QualityNotes + "\n" + note
	}
	b.Touch()
}

// SetQualityCheckStatus transitions the quality-check status
func (b *BatchInventory) SetQualityCheckStatus(target QualityCheckStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_QUALITY_STATUS", "Invalid quality check status")
	}
	if !b.QualityCheckStatus.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_QUALITY_TRANSITION",
			fmt.Sprintf("Cannot transition quality check from %s to %s", b.QualityCheckStatus, target))
	}
	b.QualityCheckStatus = target
	b.Touch()
	return nil
}
