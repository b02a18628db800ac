package persistence

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/finance"
	"github.com/agrimarket/backend/internal/domain/inventory"
	"github.com/agrimarket/backend/internal/domain/order"
	"gorm.io/gorm"
)

// TransactionalRepositories exposes repositories bound to one open
// transaction so multi-repository flows commit or roll back together.
type TransactionalRepositories interface {
	Batches() inventory.BatchInventoryRepository
	Serials() inventory.ProductSerialRepository
	Exports() inventory.ExportInventoryRepository
	Orders() order.OrderRepository
	Wallets() finance.WalletRepository
	Cashouts() finance.CashoutRepository
}

// TransactionScope runs a function against transaction-scoped repositories
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// GormTransactionScope implements TransactionScope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

var _ TransactionScope = (*GormTransactionScope)(nil)

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction. An error
// from the function rolls the transaction back; success commits it.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

var _ TransactionalRepositories = (*gormTransactionalRepositories)(nil)

func (r *gormTransactionalRepositories) Batches() inventory.BatchInventoryRepository {
	return NewGormBatchInventoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) Serials() inventory.ProductSerialRepository {
	return NewGormProductSerialRepository(r.tx)
}

func (r *gormTransactionalRepositories) Exports() inventory.ExportInventoryRepository {
	return NewGormExportInventoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) Orders() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Wallets() finance.WalletRepository {
	return NewGormWalletRepository(r.tx)
}

func (r *gormTransactionalRepositories) Cashouts() finance.CashoutRepository {
	return NewGormCashoutRepository(r.tx)
}
