package persistence

import (
	"context"
	"testing"

	"github.com/agrimarket/backend/internal/domain/catalog"
	"github.com/agrimarket/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countSerials(t *testing.T, f *validationFixture, batchID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&inventory.ProductSerial{}).
		Where("batch_inventory_id = ?", batchID).
		Count(&n).Error)
	return n
}

func markSerialSold(t *testing.T, f *validationFixture, serialNumber string) {
	t.Helper()
	require.NoError(t, f.db.Model(&inventory.ProductSerial{}).
		Where("serial_number = ?", serialNumber).
		Update("status", inventory.SerialStatusSold).Error)
}

func TestGormBatchInventoryRepository_Update_SerialReconciliation(t *testing.T) {
	ctx := context.Background()

	t.Run("growing the batch appends serials and preserves sold history", func(t *testing.T) {
		f := setupValidationFixture(t)
		repo := NewGormBatchInventoryRepository(f.db)

		markSerialSold(t, f, "PUMP1-B1-001")

		f.serialBatch.Quantity = 5
		require.NoError(t, repo.Update(ctx, f.serialBatch))

		assert.EqualValues(t, 5, countSerials(t, f, f.serialBatch.ID))

		var sold inventory.ProductSerial
		require.NoError(t, f.db.First(&sold, "serial_number = ?", "PUMP1-B1-001").Error)
		assert.Equal(t, inventory.SerialStatusSold, sold.Status)

		var appended inventory.ProductSerial
		require.NoError(t, f.db.First(&appended, "serial_number = ?", "PUMP1-B1-004").Error)
		assert.Equal(t, inventory.SerialStatusStock, appended.Status)
	})

	t.Run("shrinking removes only stock serials", func(t *testing.T) {
		f := setupValidationFixture(t)
		repo := NewGormBatchInventoryRepository(f.db)

		f.serialBatch.Quantity = 2
		require.NoError(t, repo.Update(ctx, f.serialBatch))

		assert.EqualValues(t, 2, countSerials(t, f, f.serialBatch.ID))

		var gone int64
		require.NoError(t, f.db.Model(&inventory.ProductSerial{}).
			Where("serial_number = ?", "PUMP1-B1-002").
			Count(&gone).Error)
		assert.EqualValues(t, 0, gone)
	})

	t.Run("shrinking past a consumed serial fails without changes", func(t *testing.T) {
		f := setupValidationFixture(t)
		repo := NewGormBatchInventoryRepository(f.db)

		markSerialSold(t, f, "PUMP1-B1-002")

		f.serialBatch.Quantity = 2
		err := repo.Update(ctx, f.serialBatch)
		assertValidationCode(t, err, "SERIAL_HISTORY_CONFLICT")

		// nothing was written: serial set and stored quantity are intact
		assert.EqualValues(t, 3, countSerials(t, f, f.serialBatch.ID))
		var stored inventory.BatchInventory
		require.NoError(t, f.db.First(&stored, "id = ?", f.serialBatch.ID).Error)
		assert.Equal(t, 3, stored.Quantity)
	})
}

func TestBatchNumberUniquePerProduct(t *testing.T) {
	f := setupValidationFixture(t)

	// the fixture already holds batch B1 for two different products, so
	// sharing a number across products is allowed by construction
	var sharing int64
	require.NoError(t, f.db.Model(&inventory.BatchInventory{}).
		Where("batch_number = ?", "B1").
		Count(&sharing).Error)
	assert.EqualValues(t, 2, sharing)

	// a second B1 for the same product violates the composite index
	dup, err := inventory.NewBatchInventory(f.serialProduct.ID, "B1", "L9", 1, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Error(t, f.db.Omit("Serials").Create(dup).Error)
}

func TestProductSkuUniquePerVendor(t *testing.T) {
	f := setupValidationFixture(t)

	// another vendor may list the same SKU
	other, err := catalog.NewProduct(uuid.New(), f.serialProduct.CategoryID, "PUMP1", "Irrigation pump", decimal.NewFromInt(240))
	require.NoError(t, err)
	require.NoError(t, f.db.Create(other).Error)

	// the same vendor may not
	dup, err := catalog.NewProduct(f.serialProduct.VendorID, f.serialProduct.CategoryID, "PUMP1", "Irrigation pump", decimal.NewFromInt(240))
	require.NoError(t, err)
	assert.Error(t, f.db.Create(dup).Error)
}
