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
	"gorm.io/gorm/clause"
)

// GormBatchInventoryRepository implements BatchInventoryRepository using GORM
type GormBatchInventoryRepository struct {
	db *gorm.DB
}

var _ inventory.BatchInventoryRepository = (*GormBatchInventoryRepository)(nil)

// NewGormBatchInventoryRepository creates a new GormBatchInventoryRepository
func NewGormBatchInventoryRepository(db *gorm.DB) *GormBatchInventoryRepository {
	return &GormBatchInventoryRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.BatchInventory, error) {
	var batch inventory.BatchInventory
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByIDWithSerials finds a batch with its serial rows preloaded
func (r *GormBatchInventoryRepository) FindByIDWithSerials(ctx context.Context, id uuid.UUID) (*inventory.BatchInventory, error) {
	var batch inventory.BatchInventory
	if err := r.db.WithContext(ctx).
		Preload("Serials", func(db *gorm.DB) *gorm.DB {
			return db.Order("serial_number ASC")
		}).
		First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByProduct finds batches for a product, newest intake first
func (r *GormBatchInventoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (shared.Paginated[inventory.BatchInventory], error) {
	filter.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&inventory.BatchInventory{}).
		Where("product_id = ?", productID).
		Count(&total).Error; err != nil {
		return shared.Paginated[inventory.BatchInventory]{}, err
	}

	var batches []inventory.BatchInventory
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("received_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&batches).Error; err != nil {
		return shared.Paginated[inventory.BatchInventory]{}, err
	}

	return shared.NewPaginated(batches, total, filter.Page, filter.PageSize), nil
}

// FindByLot finds every batch taken in under a lot number
func (r *GormBatchInventoryRepository) FindByLot(ctx context.Context, lotNumber string) ([]inventory.BatchInventory, error) {
	var batches []inventory.BatchInventory
	if err := r.db.WithContext(ctx).
		Where("lot_number = ?", lotNumber).
		Order("received_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Create persists the batch and, for serial-required products, generates
// exactly batch.Quantity serial rows in STOCK status. The batch row and its
// serials commit together or not at all.
func (r *GormBatchInventoryRepository) Create(ctx context.Context, batch *inventory.BatchInventory) error {
	product, err := r.loadProductWithCategory(ctx, r.db, batch.ProductID)
	if err != nil {
		return err
	}

	if product.SerialRequired() {
		if err := batch.ValidateForSerialTracking(); err != nil {
			return err
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Serials").Create(batch).Error; err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}

		if product.SerialRequired() {
			serials := inventory.GenerateSerials(batch, product.Sku)
			if len(serials) > 0 {
				if err := tx.CreateInBatches(serials, 500).Error; err != nil {
					return fmt.Errorf("failed to create serials: %w", err)
				}
			}
		}
		return nil
	})
}

// Update persists batch changes and reconciles the serial set by diff.
// Serials still in STOCK may be removed or regenerated to match the new
// quantity; SOLD, ADJUSTMENT and REFUND serials are preserved, and
// shrinking the batch below their count fails before anything is written.
func (r *GormBatchInventoryRepository) Update(ctx context.Context, batch *inventory.BatchInventory) error {
	product, err := r.loadProductWithCategory(ctx, r.db, batch.ProductID)
	if err != nil {
		return err
	}

	if product.SerialRequired() {
		if err := batch.ValidateForSerialTracking(); err != nil {
			return err
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing inventory.BatchInventory
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&existing, "id = ?", batch.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if product.SerialRequired() {
			if err := r.reconcileSerials(tx, batch, product.Sku); err != nil {
				return err
			}
		}

		batch.Touch()
		if err := tx.Omit("Serials").Save(batch).Error; err != nil {
			return fmt.Errorf("failed to update batch: %w", err)
		}
		return nil
	})
}

// reconcileSerials diffs the stored serial set against the set the updated
// batch should have. Runs inside the update transaction.
func (r *GormBatchInventoryRepository) reconcileSerials(tx *gorm.DB, batch *inventory.BatchInventory, sku string) error {
	var current []inventory.ProductSerial
	if err := tx.Where("batch_inventory_id = ?", batch.ID).Find(&current).Error; err != nil {
		return err
	}

	desired := make(map[string]bool, batch.Quantity)
	for i := 0; i < batch.Quantity; i++ {
		desired[inventory.SerialNumberFor(sku, batch.BatchNumber, i)] = true
	}

	existing := make(map[string]bool, len(current))
	var removable []uuid.UUID
	for _, serial := range current {
		if desired[serial.SerialNumber] {
			existing[serial.SerialNumber] = true
			continue
		}
		if serial.Status != inventory.SerialStatusStock {
			return shared.NewDomainError("SERIAL_HISTORY_CONFLICT",
				fmt.Sprintf("Serial %s has status %s and cannot be removed by a batch update", serial.SerialNumber, serial.Status))
		}
		removable = append(removable, serial.ID)
	}

	if len(removable) > 0 {
		if err := tx.Delete(&inventory.ProductSerial{}, "id IN ?", removable).Error; err != nil {
			return fmt.Errorf("failed to remove surplus serials: %w", err)
		}
	}

	var missing []inventory.ProductSerial
	for i := 0; i < batch.Quantity; i++ {
		number := inventory.SerialNumberFor(sku, batch.BatchNumber, i)
		if existing[number] {
			continue
		}
		missing = append(missing, inventory.ProductSerial{
			BaseEntity:       shared.NewBaseEntity(),
			BatchInventoryID: batch.ID,
			ProductID:        batch.ProductID,
			SerialNumber:     number,
			Status:           inventory.SerialStatusStock,
		})
	}
	if len(missing) > 0 {
		if err := tx.CreateInBatches(missing, 500).Error; err != nil {
			return fmt.Errorf("failed to create serials: %w", err)
		}
	}
	return nil
}

// Delete removes a batch together with its serials. It refuses when any
// serial has already left STOCK status.
func (r *GormBatchInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var consumed int64
		if err := tx.Model(&inventory.ProductSerial{}).
			Where("batch_inventory_id = ? AND status <> ?", id, inventory.SerialStatusStock).
			Count(&consumed).Error; err != nil {
			return err
		}
		if consumed > 0 {
			return shared.NewDomainError("BATCH_IN_USE",
				fmt.Sprintf("Batch has %d serials that already left stock", consumed))
		}

		if err := tx.Delete(&inventory.ProductSerial{}, "batch_inventory_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&inventory.BatchInventory{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// SetQualityCheck transitions the batch quality-check status and appends
// the note to the newline-joined history
func (r *GormBatchInventoryRepository) SetQualityCheck(ctx context.Context, id uuid.UUID, status inventory.QualityCheckStatus, note string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var batch inventory.BatchInventory
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&batch, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := batch.SetQualityCheckStatus(status); err != nil {
			return err
		}
		batch.AppendQualityNote(note)

		return tx.Model(&batch).Updates(map[string]interface{}{
			"quality_check_status": batch.QualityCheckStatus,
			"quality_notes":        batch.QualityNotes,
			"updated_at":           batch.UpdatedAt,
		}).Error
	})
}

// loadProductWithCategory fetches the product and its category so the
// serial-required flag can be read
func (r *GormBatchInventoryRepository) loadProductWithCategory(ctx context.Context, db *gorm.DB, productID uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := db.WithContext(ctx).
		Preload("Category").
		First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}
