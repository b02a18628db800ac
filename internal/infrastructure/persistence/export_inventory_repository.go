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

// GormExportInventoryRepository implements ExportInventoryRepository using GORM
type GormExportInventoryRepository struct {
	db *gorm.DB
}

var _ inventory.ExportInventoryRepository = (*GormExportInventoryRepository)(nil)

// NewGormExportInventoryRepository creates a new GormExportInventoryRepository
func NewGormExportInventoryRepository(db *gorm.DB) *GormExportInventoryRepository {
	return &GormExportInventoryRepository{db: db}
}

// FindByID finds an export record by its ID
func (r *GormExportInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ExportInventory, error) {
	var export inventory.ExportInventory
	if err := r.db.WithContext(ctx).First(&export, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &export, nil
}

// FindByOrder finds all export records created for an order
func (r *GormExportInventoryRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.ExportInventory, error) {
	var exports []inventory.ExportInventory
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("exported_at ASC").
		Find(&exports).Error; err != nil {
		return nil, err
	}
	return exports, nil
}

// FindByOrderDetail finds all export records created for one order line
func (r *GormExportInventoryRepository) FindByOrderDetail(ctx context.Context, orderDetailID uuid.UUID) ([]inventory.ExportInventory, error) {
	var exports []inventory.ExportInventory
	if err := r.db.WithContext(ctx).
		Where("order_detail_id = ?", orderDetailID).
		Order("exported_at ASC").
		Find(&exports).Error; err != nil {
		return nil, err
	}
	return exports, nil
}

// RecordSaleExport creates the export rows for an order sale and marks the
// referenced serials SOLD. Lot balances are re-checked inside the
// transaction; exceeding the remaining quantity of any lot fails the whole
// operation without mutating state.
func (r *GormExportInventoryRepository) RecordSaleExport(ctx context.Context, exports []inventory.ExportInventory) error {
	return r.recordExports(ctx, exports, inventory.ExportKindSale, inventory.SerialStatusSold, false)
}

// RecordAdjustmentExport creates adjustment export rows, decrements the
// product stock quantity and marks referenced serials ADJUSTMENT, atomically
func (r *GormExportInventoryRepository) RecordAdjustmentExport(ctx context.Context, exports []inventory.ExportInventory) error {
	return r.recordExports(ctx, exports, inventory.ExportKindAdjustment, inventory.SerialStatusAdjustment, true)
}

func (r *GormExportInventoryRepository) recordExports(ctx context.Context, exports []inventory.ExportInventory, kind inventory.ExportKind, serialTarget inventory.SerialStatus, decrementStock bool) error {
	if len(exports) == 0 {
		return shared.NewDomainError("EMPTY_EXPORT", "At least one export row is required")
	}
	for i := range exports {
		if exports[i].Kind != kind {
			return shared.NewDomainError("INVALID_EXPORT_KIND",
				fmt.Sprintf("Export for lot %s has kind %s, expected %s", exports[i].LotNumber, exports[i].Kind, kind))
		}
		if exports[i].Quantity <= 0 {
			return shared.NewDomainError("INVALID_QUANTITY", "Export quantity must be positive")
		}
	}

	requested := make(map[string]int)
	for i := range exports {
		requested[exports[i].LotNumber] += exports[i].Quantity
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for lot, quantity := range requested {
			balance, err := lotBalance(tx, lot)
			if err != nil {
				return err
			}
			if quantity > balance.Remaining {
				return shared.NewDomainError("INSUFFICIENT_LOT_QUANTITY",
					fmt.Sprintf("Lot %s has %d units remaining, export of %d requested", lot, balance.Remaining, quantity))
			}
		}

		if err := tx.CreateInBatches(exports, 500).Error; err != nil {
			return fmt.Errorf("failed to create export rows: %w", err)
		}

		for i := range exports {
			if exports[i].ProductSerialID != nil {
				if err := transitionSerial(tx, *exports[i].ProductSerialID, serialTarget); err != nil {
					return err
				}
			}
			if decrementStock {
				if err := decrementProductStock(tx, exports[i].ProductID, exports[i].Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// transitionSerial loads a serial under lock and applies the forward-only
// status transition
func transitionSerial(tx *gorm.DB, serialID uuid.UUID, target inventory.SerialStatus) error {
	var serial inventory.ProductSerial
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&serial, "id = ?", serialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	if err := serial.TransitionTo(target); err != nil {
		return err
	}
	return tx.Model(&serial).Updates(map[string]interface{}{
		"status":     serial.Status,
		"updated_at": serial.UpdatedAt,
	}).Error
}

// decrementProductStock applies a guarded stock decrement
func decrementProductStock(tx *gorm.DB, productID uuid.UUID, quantity int) error {
	result := tx.Model(&catalog.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// RemainingByLot computes the derived inflow/outflow balance for one lot.
// The remaining quantity is never stored, only recomputed.
func (r *GormExportInventoryRepository) RemainingByLot(ctx context.Context, lotNumber string) (*inventory.LotBalance, error) {
	balance, err := lotBalance(r.db.WithContext(ctx), lotNumber)
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// LotBalances computes the balances for every lot a product was taken in under
func (r *GormExportInventoryRepository) LotBalances(ctx context.Context, productID uuid.UUID) ([]inventory.LotBalance, error) {
	var lots []string
	if err := r.db.WithContext(ctx).Model(&inventory.BatchInventory{}).
		Where("product_id = ? AND lot_number <> ''", productID).
		Distinct("lot_number").
		Order("lot_number ASC").
		Pluck("lot_number", &lots).Error; err != nil {
		return nil, err
	}

	balances := make([]inventory.LotBalance, 0, len(lots))
	for _, lot := range lots {
		balance, err := lotBalance(r.db.WithContext(ctx), lot)
		if err != nil {
			return nil, err
		}
		balances = append(balances, *balance)
	}
	return balances, nil
}

// lotBalance aggregates batch inflow and export outflow for a lot number
func lotBalance(db *gorm.DB, lotNumber string) (*inventory.LotBalance, error) {
	var received int64
	if err := db.Model(&inventory.BatchInventory{}).
		Where("lot_number = ?", lotNumber).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&received).Error; err != nil {
		return nil, err
	}

	var exported int64
	if err := db.Model(&inventory.ExportInventory{}).
		Where("lot_number = ?", lotNumber).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&exported).Error; err != nil {
		return nil, err
	}

	return &inventory.LotBalance{
		LotNumber: lotNumber,
		Received:  int(received),
		Exported:  int(exported),
		Remaining: int(received - exported),
	}, nil
}
