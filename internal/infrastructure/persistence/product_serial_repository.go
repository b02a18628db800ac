package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrimarket/backend/internal/domain/catalog"
	"github.com/agrimarket/backend/internal/domain/inventory"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductSerialRepository implements ProductSerialRepository using GORM
type GormProductSerialRepository struct {
	db *gorm.DB
}

var _ inventory.ProductSerialRepository = (*GormProductSerialRepository)(nil)

// NewGormProductSerialRepository creates a new GormProductSerialRepository
func NewGormProductSerialRepository(db *gorm.DB) *GormProductSerialRepository {
	return &GormProductSerialRepository{db: db}
}

// FindByID finds a serial by its ID
func (r *GormProductSerialRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductSerial, error) {
	var serial inventory.ProductSerial
	if err := r.db.WithContext(ctx).First(&serial, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &serial, nil
}

// FindBySerialNumber finds a serial by its unique serial number
func (r *GormProductSerialRepository) FindBySerialNumber(ctx context.Context, serialNumber string) (*inventory.ProductSerial, error) {
	var serial inventory.ProductSerial
	if err := r.db.WithContext(ctx).
		Where("serial_number = ?", serialNumber).
		First(&serial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &serial, nil
}

// FindByBatch finds all serials belonging to a batch
func (r *GormProductSerialRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]inventory.ProductSerial, error) {
	var serials []inventory.ProductSerial
	if err := r.db.WithContext(ctx).
		Where("batch_inventory_id = ?", batchID).
		Order("serial_number ASC").
		Find(&serials).Error; err != nil {
		return nil, err
	}
	return serials, nil
}

// CountByBatch counts all serials belonging to a batch
func (r *GormProductSerialRepository) CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.ProductSerial{}).
		Where("batch_inventory_id = ?", batchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByBatchAndStatus counts a batch's serials in a given status
func (r *GormProductSerialRepository) CountByBatchAndStatus(ctx context.Context, batchID uuid.UUID, status inventory.SerialStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&inventory.ProductSerial{}).
		Where("batch_inventory_id = ? AND status = ?", batchID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ValidateLineIdentity checks the serial/lot pair presented at checkout
// against the product being purchased. The branch taken depends on whether
// the product's category requires serial tracking; each failure mode is a
// distinct error so the caller can tell them apart.
func (r *GormProductSerialRepository) ValidateLineIdentity(ctx context.Context, productID uuid.UUID, serialNumber, lotNumber string) (*inventory.ProductSerial, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	if !product.SerialRequired() {
		if serialNumber != "" {
			return nil, shared.NewDomainError("SERIAL_NOT_ALLOWED",
				"Product category does not track serials; no serial number may be supplied")
		}
		var count int64
		if err := r.db.WithContext(ctx).Model(&inventory.BatchInventory{}).
			Where("product_id = ? AND lot_number = ?", productID, lotNumber).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, shared.NewDomainError("LOT_NOT_FOUND",
				fmt.Sprintf("Lot %s has no batch for this product", lotNumber))
		}
		return nil, nil
	}

	if serialNumber == "" {
		return nil, shared.NewDomainError("SERIAL_REQUIRED",
			"Product category requires a serial number")
	}

	var serial inventory.ProductSerial
	if err := r.db.WithContext(ctx).
		Where("serial_number = ?", serialNumber).
		First(&serial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError("SERIAL_NOT_FOUND",
				fmt.Sprintf("Serial %s does not exist", serialNumber))
		}
		return nil, err
	}

	if serial.ProductID != productID {
		return nil, shared.NewDomainError("SERIAL_WRONG_PRODUCT",
			fmt.Sprintf("Serial %s belongs to a different product", serialNumber))
	}

	if serial.Status == inventory.SerialStatusSold || serial.Status == inventory.SerialStatusRefund {
		return nil, shared.NewDomainError("SERIAL_CONSUMED",
			fmt.Sprintf("Serial %s is already %s", serialNumber, serial.Status))
	}

	var batch inventory.BatchInventory
	if err := r.db.WithContext(ctx).
		First(&batch, "id = ?", serial.BatchInventoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if batch.LotNumber != lotNumber {
		return nil, shared.NewDomainError("LOT_MISMATCH",
			fmt.Sprintf("Serial %s belongs to lot %s, not %s", serialNumber, batch.LotNumber, lotNumber))
	}

	return &serial, nil
}
