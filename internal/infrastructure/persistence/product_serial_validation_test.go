package persistence

import (
	"context"
	"testing"

	"github.com/agrimarket/backend/internal/domain/catalog"
	"github.com/agrimarket/backend/internal/domain/inventory"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// validationFixture seeds one product per tracking mode with a batch of
// three units, the serial-tracked one with generated serial rows
type validationFixture struct {
	db            *gorm.DB
	repo          *GormProductSerialRepository
	serialProduct *catalog.Product
	looseProduct  *catalog.Product
	serialBatch   *inventory.BatchInventory
	looseBatch    *inventory.BatchInventory
}

func setupValidationFixture(t *testing.T) *validationFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&inventory.BatchInventory{},
		&inventory.ProductSerial{},
	))

	vendorID := uuid.New()

	tracked, err := catalog.NewCategory("Machinery", "Serial tracked", true)
	require.NoError(t, err)
	loose, err := catalog.NewCategory("Seeds", "Bulk goods", false)
	require.NoError(t, err)
	require.NoError(t, db.Create(tracked).Error)
	require.NoError(t, db.Create(loose).Error)

	serialProduct, err := catalog.NewProduct(vendorID, tracked.ID, "PUMP1", "Irrigation pump", decimal.NewFromInt(250))
	require.NoError(t, err)
	looseProduct, err := catalog.NewProduct(vendorID, loose.ID, "RICE1", "Rice seed 5kg", decimal.NewFromInt(12))
	require.NoError(t, err)
	require.NoError(t, db.Create(serialProduct).Error)
	require.NoError(t, db.Create(looseProduct).Error)

	serialBatch, err := inventory.NewBatchInventory(serialProduct.ID, "B1", "L1", 3, decimal.NewFromInt(180))
	require.NoError(t, err)
	require.NoError(t, db.Omit("Serials").Create(serialBatch).Error)
	serials := inventory.GenerateSerials(serialBatch, serialProduct.Sku)
	require.NoError(t, db.Create(&serials).Error)

	looseBatch, err := inventory.NewBatchInventory(looseProduct.ID, "B1", "L2", 100, decimal.NewFromInt(8))
	require.NoError(t, err)
	require.NoError(t, db.Omit("Serials").Create(looseBatch).Error)

	return &validationFixture{
		db:            db,
		repo:          NewGormProductSerialRepository(db),
		serialProduct: serialProduct,
		looseProduct:  looseProduct,
		serialBatch:   serialBatch,
		looseBatch:    looseBatch,
	}
}

func assertValidationCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestGormProductSerialRepository_ValidateLineIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a stock serial with the matching lot", func(t *testing.T) {
		f := setupValidationFixture(t)

		serial, err := f.repo.ValidateLineIdentity(ctx, f.serialProduct.ID, "PUMP1-B1-000", "L1")

		require.NoError(t, err)
		require.NotNil(t, serial)
		assert.Equal(t, inventory.SerialStatusStock, serial.Status)
	})

	t.Run("requires a serial for tracked categories", func(t *testing.T) {
		f := setupValidationFixture(t)

		_, err := f.repo.ValidateLineIdentity(ctx, f.serialProduct.ID, "", "L1")
		assertValidationCode(t, err, "SERIAL_REQUIRED")
	})

	t.Run("rejects an unknown serial", func(t *testing.T) {
		f := setupValidationFixture(t)

		_, err := f.repo.ValidateLineIdentity(ctx, f.serialProduct.ID, "PUMP1-B9-000", "L1")
		assertValidationCode(t, err, "SERIAL_NOT_FOUND")
	})

	t.Run("rejects a serial from another product", func(t *testing.T) {
		f := setupValidationFixture(t)

		other, err := catalog.NewProduct(uuid.New(), f.serialProduct.CategoryID, "DRILL1", "Seed drill", decimal.NewFromInt(900))
		require.NoError(t, err)
		require.NoError(t, f.db.Create(other).Error)

		_, err = f.repo.ValidateLineIdentity(ctx, other.ID, "PUMP1-B1-000", "L1")
		assertValidationCode(t, err, "SERIAL_WRONG_PRODUCT")
	})

	t.Run("rejects a sold serial", func(t *testing.T) {
		f := setupValidationFixture(t)

		require.NoError(t, f.db.Model(&inventory.ProductSerial{}).
			Where("serial_number = ?", "PUMP1-B1-001").
			Update("status", inventory.SerialStatusSold).Error)

		_, err := f.repo.ValidateLineIdentity(ctx, f.serialProduct.ID, "PUMP1-B1-001", "L1")
		assertValidationCode(t, err, "SERIAL_CONSUMED")
	})

	t.Run("rejects a lot that does not match the serial's batch", func(t *testing.T) {
		f := setupValidationFixture(t)

		_, err := f.repo.ValidateLineIdentity(ctx, f.serialProduct.ID, "PUMP1-B1-000", "L9")
		assertValidationCode(t, err, "LOT_MISMATCH")
	})

	t.Run("accepts a known lot for untracked categories", func(t *testing.T) {
		f := setupValidationFixture(t)

		serial, err := f.repo.ValidateLineIdentity(ctx, f.looseProduct.ID, "", "L2")

		require.NoError(t, err)
		assert.Nil(t, serial)
	})

	t.Run("rejects a serial supplied for an untracked category", func(t *testing.T) {
		f := setupValidationFixture(t)

		_, err := f.repo.ValidateLineIdentity(ctx, f.looseProduct.ID, "PUMP1-B1-000", "L2")
		assertValidationCode(t, err, "SERIAL_NOT_ALLOWED")
	})

	t.Run("rejects an unknown lot for untracked categories", func(t *testing.T) {
		f := setupValidationFixture(t)

		_, err := f.repo.ValidateLineIdentity(ctx, f.looseProduct.ID, "", "L9")
		assertValidationCode(t, err, "LOT_NOT_FOUND")
	})

	t.Run("returns not found for an unknown product", func(t *testing.T) {
		f := setupValidationFixture(t)

		_, err := f.repo.ValidateLineIdentity(ctx, uuid.New(), "", "L1")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
