package inventory

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BatchInventoryRepository defines persistence operations for batch intakes.
// Create and Update generate/reconcile serial rows for serial-required
// products inside one transaction.
type BatchInventoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BatchInventory, error)
	FindByIDWithSerials(ctx context.Context, id uuid.UUID) (*BatchInventory, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) (shared.Paginated[BatchInventory], error)
	FindByLot(ctx context.Context, lotNumber string) ([]BatchInventory, error)
	// Create persists the batch and, when the product's category requires
	// serials, exactly batch.Quantity serial rows, all-or-nothing.
	Create(ctx context.Context, batch *BatchInventory) error
	// Update reconciles the serial set by diff: serials still in STOCK may
	// be removed or regenerated; SOLD/ADJUSTMENT/REFUND serials are
	// preserved, and shrinking the batch below their count fails.
	Update(ctx context.Context, batch *BatchInventory) error
	// Delete removes the batch and its serials. It refuses when any serial
	// has left STOCK status.
	Delete(ctx context.Context, id uuid.UUID) error
	SetQualityCheck(ctx context.Context, id uuid.UUID, status QualityCheckStatus, note string) error
}

// ProductSerialRepository defines persistence operations for serials,
// including the checkout-time identity validation.
type ProductSerialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductSerial, error)
	FindBySerialNumber(ctx context.Context, serialNumber string) (*ProductSerial, error)
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]ProductSerial, error)
	CountByBatch(ctx context.Context, batchID uuid.UUID) (int64, error)
	CountByBatchAndStatus(ctx context.Context, batchID uuid.UUID, status SerialStatus) (int64, error)
	// ValidateLineIdentity checks a serial/lot pair presented at checkout
	// against the product being purchased. For serial-required categories
	// the serial must exist, belong to the product, not be in a consumed
	// state, and its batch's lot must match. For other categories no
	// serial may be supplied and the lot must exist among the product's
	// batches. Each failure is a distinct error.
	ValidateLineIdentity(ctx context.Context, productID uuid.UUID, serialNumber, lotNumber string) (*ProductSerial, error)
}

// ExportInventoryRepository defines persistence operations for stock-out
// records and the derived per-lot balances.
type ExportInventoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ExportInventory, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ExportInventory, error)
	FindByOrderDetail(ctx context.Context, orderDetailID uuid.UUID) ([]ExportInventory, error)
	// RecordSaleExport creates the export rows for an order sale and marks
	// the referenced serials SOLD, atomically. Exceeding the remaining lot
	// quantity fails without mutating state.
	RecordSaleExport(ctx context.Context, exports []ExportInventory) error
	// RecordAdjustmentExport creates adjustment export rows, decrements
	// the product stock quantity and marks referenced serials ADJUSTMENT,
	// atomically.
	RecordAdjustmentExport(ctx context.Context, exports []ExportInventory) error
	// RemainingByLot computes sum(batch quantity) - sum(export quantity)
	// for one lot number.
	RemainingByLot(ctx context.Context, lotNumber string) (*LotBalance, error)
	// LotBalances computes balances for every lot of a product.
	LotBalances(ctx context.Context, productID uuid.UUID) ([]LotBalance, error)
}
