package integration

import (
	"context"
	"testing"

	"github.com/agrimarket/backend/internal/domain/catalog"
	"github.com/agrimarket/backend/internal/domain/finance"
	"github.com/agrimarket/backend/internal/domain/identity"
	"github.com/agrimarket/backend/internal/domain/inventory"
	"github.com/agrimarket/backend/internal/domain/order"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/agrimarket/backend/internal/domain/support"
	"github.com/agrimarket/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storefront bundles the repositories a full sale-and-refund pass touches
type storefront struct {
	users    *persistence.GormUserRepository
	vendors  *persistence.GormVendorProfileRepository
	cats     *persistence.GormCategoryRepository
	products *persistence.GormProductRepository
	batches  *persistence.GormBatchInventoryRepository
	serials  *persistence.GormProductSerialRepository
	exports  *persistence.GormExportInventoryRepository
	orders   *persistence.GormOrderRepository
	banks    *persistence.GormBankAccountRepository
	support  *persistence.GormSupportRequestRepository
	cashouts *persistence.GormCashoutRepository
}

func newStorefront(testDB *TestDB) *storefront {
	return &storefront{
		users:    persistence.NewGormUserRepository(testDB.DB),
		vendors:  persistence.NewGormVendorProfileRepository(testDB.DB),
		cats:     persistence.NewGormCategoryRepository(testDB.DB),
		products: persistence.NewGormProductRepository(testDB.DB),
		batches:  persistence.NewGormBatchInventoryRepository(testDB.DB),
		serials:  persistence.NewGormProductSerialRepository(testDB.DB),
		exports:  persistence.NewGormExportInventoryRepository(testDB.DB),
		orders:   persistence.NewGormOrderRepository(testDB.DB),
		banks:    persistence.NewGormBankAccountRepository(testDB.DB),
		support:  persistence.NewGormSupportRequestRepository(testDB.DB),
		cashouts: persistence.NewGormCashoutRepository(testDB.DB),
	}
}

// seedSerialTrackedProduct creates a vendor, a serial-required category and
// a product with stock on hand
func (s *storefront) seedSerialTrackedProduct(t *testing.T, ctx context.Context, stock int) *catalog.Product {
	t.Helper()

	vendorUser, err := identity.NewUser("vendor+"+uuid.NewString()[:8]+"@farm.vn", "secret123", "Nguyen Van A", identity.UserRoleVendor)
	require.NoError(t, err)
	require.NoError(t, s.users.Save(ctx, vendorUser))

	profile, err := identity.NewVendorProfile(vendorUser.ID, "Mekong Fresh Produce")
	require.NoError(t, err)
	require.NoError(t, s.vendors.Save(ctx, profile))

	category, err := catalog.NewCategory("Machinery "+uuid.NewString()[:8], "Serial tracked equipment", true)
	require.NoError(t, err)
	require.NoError(t, s.cats.Save(ctx, category))

	product, err := catalog.NewProduct(profile.ID, category.ID, "PUMP-"+uuid.NewString()[:8], "Irrigation pump", decimal.NewFromInt(250))
	require.NoError(t, err)
	product.StockQuantity = stock
	require.NoError(t, s.products.Save(ctx, product))

	return product
}

// seedCustomerWithAddress creates a customer and a delivery address
func (s *storefront) seedCustomerWithAddress(t *testing.T, ctx context.Context) (*identity.User, *identity.Address) {
	t.Helper()

	customer, err := identity.NewUser("buyer+"+uuid.NewString()[:8]+"@mail.vn", "secret123", "Tran Thi B", identity.UserRoleCustomer)
	require.NoError(t, err)
	require.NoError(t, s.users.Save(ctx, customer))

	address := &identity.Address{
		BaseEntity:   shared.NewBaseEntity(),
		UserID:       customer.ID,
		ProvinceCode: "79",
		DistrictCode: "760",
		WardCode:     "26734",
		Street:       "12 Nguyen Hue",
		Receiver:     customer.FullName,
		IsDefault:    true,
	}
	require.NoError(t, s.users.SaveAddress(ctx, address))

	return customer, address
}

// TestRefundFlow_Integration drives a full pass against a real PostgreSQL
// database: batch intake with serial generation, a paid order, the sale
// export and finally a refund that reconciles serials, exports, the order
// and the originating support request.
func TestRefundFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	s := newStorefront(testDB)
	ctx := context.Background()

	product := s.seedSerialTrackedProduct(t, ctx, 3)
	customer, address := s.seedCustomerWithAddress(t, ctx)

	// Batch intake generates one STOCK serial per unit
	batch, err := inventory.NewBatchInventory(product.ID, "B1", "LOT-2026-08", 3, decimal.NewFromInt(180))
	require.NoError(t, err)
	require.NoError(t, s.batches.Create(ctx, batch))

	withSerials, err := s.batches.FindByIDWithSerials(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, withSerials.Serials, 3)
	assert.Equal(t, inventory.SerialStatusStock, withSerials.Serials[0].Status)

	serialNumber := inventory.SerialNumberFor(product.Sku, batch.BatchNumber, 0)

	// Checkout validates the serial/lot pair against the product
	serial, err := s.serials.ValidateLineIdentity(ctx, product.ID, serialNumber, batch.LotNumber)
	require.NoError(t, err)

	o, err := order.NewOrder(customer.ID, address.ID)
	require.NoError(t, err)
	detail, err := order.NewOrderDetail(product.ID, product.Name, batch.LotNumber, 1, product.Price)
	require.NoError(t, err)
	detail.SerialNumber = &serialNumber
	o.AddDetail(*detail)

	require.NoError(t, s.orders.Create(ctx, o))
	require.NoError(t, s.orders.UpdateStatus(ctx, o.ID, order.OrderStatusPaid))

	// Order creation decremented stock
	stored, err := s.products.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.StockQuantity)

	// Fulfilment: the sale export flips the serial to SOLD
	export, err := inventory.NewExportInventory(product.ID, batch.LotNumber, 1, inventory.ExportKindSale)
	require.NoError(t, err)
	export.OrderID = &o.ID
	export.OrderDetailID = &o.Details[0].ID
	export.ProductSerialID = &serial.ID
	require.NoError(t, s.exports.RecordSaleExport(ctx, []inventory.ExportInventory{*export}))

	sold, err := s.serials.FindBySerialNumber(ctx, serialNumber)
	require.NoError(t, err)
	assert.Equal(t, inventory.SerialStatusSold, sold.Status)

	balance, err := s.exports.RemainingByLot(ctx, batch.LotNumber)
	require.NoError(t, err)
	assert.Equal(t, 2, balance.Remaining)

	// A sold serial can never be sold again
	_, err = s.serials.ValidateLineIdentity(ctx, product.ID, serialNumber, batch.LotNumber)
	var consumedErr *shared.DomainError
	require.ErrorAs(t, err, &consumedErr)
	assert.Equal(t, "SERIAL_CONSUMED", consumedErr.Code)

	// Exporting past the remaining lot quantity fails without mutating state
	overExport, err := inventory.NewExportInventory(product.ID, batch.LotNumber, 3, inventory.ExportKindSale)
	require.NoError(t, err)
	err = s.exports.RecordSaleExport(ctx, []inventory.ExportInventory{*overExport})
	var lotErr *shared.DomainError
	require.ErrorAs(t, err, &lotErr)
	assert.Equal(t, "INSUFFICIENT_LOT_QUANTITY", lotErr.Code)

	balance, err = s.exports.RemainingByLot(ctx, batch.LotNumber)
	require.NoError(t, err)
	assert.Equal(t, 2, balance.Remaining)

	// Customer files a refund request backed by a bank account
	bank := &finance.BankAccount{
		BaseEntity:    shared.NewBaseEntity(),
		UserID:        customer.ID,
		BankName:      "Vietcombank",
		AccountNumber: "0071000123456",
		AccountHolder: customer.FullName,
		IsDefault:     true,
	}
	require.NoError(t, s.banks.Save(ctx, bank))

	ticket, err := support.NewRequest(customer.ID, support.RequestKindRefund, "Pump arrived damaged", "Casing cracked on delivery")
	require.NoError(t, err)
	ticket.OrderID = &o.ID
	require.NoError(t, s.support.Save(ctx, ticket))

	cashout, err := s.cashouts.ProcessRefund(ctx, finance.RefundRequest{
		OrderID:        o.ID,
		OrderDetailIDs: []uuid.UUID{o.Details[0].ID},
		BankAccountID:  bank.ID,
		RequestID:      ticket.ID,
		Reason:         "Damaged on delivery",
	})
	require.NoError(t, err)
	assert.True(t, cashout.Amount.Equal(o.Details[0].Subtotal))

	// Refund reconciliation is visible on every touched row
	refunded, err := s.serials.FindBySerialNumber(ctx, serialNumber)
	require.NoError(t, err)
	assert.Equal(t, inventory.SerialStatusRefund, refunded.Status)

	exports, err := s.exports.FindByOrderDetail(ctx, o.Details[0].ID)
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.True(t, exports[0].Refunded)

	reloaded, err := s.orders.FindByIDWithDetails(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusRefunded, reloaded.Status)
	assert.True(t, reloaded.Details[0].IsRefunded)

	resolved, err := s.support.FindByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, support.RequestStatusCompleted, resolved.Status)

	// A second refund of the same line is rejected up front
	_, err = s.cashouts.ProcessRefund(ctx, finance.RefundRequest{
		OrderID:        o.ID,
		OrderDetailIDs: []uuid.UUID{o.Details[0].ID},
		BankAccountID:  bank.ID,
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DETAIL_ALREADY_REFUNDED", domainErr.Code)
}
