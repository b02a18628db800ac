package integration

import (
	"context"
	"testing"

	"github.com/agrimarket/backend/internal/domain/finance"
	"github.com/agrimarket/backend/internal/domain/identity"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/agrimarket/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWalletCashoutFlow_Integration walks a wallet from topup to a processed
// cashout and verifies the one-pending-cashout-per-user rule against the
// real partial unique index.
func TestWalletCashoutFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	ctx := context.Background()

	users := persistence.NewGormUserRepository(testDB.DB)
	wallets := persistence.NewGormWalletRepository(testDB.DB)
	banks := persistence.NewGormBankAccountRepository(testDB.DB)
	cashouts := persistence.NewGormCashoutRepository(testDB.DB)
	ledger := persistence.NewGormTransactionRepository(testDB.DB)

	user, err := identity.NewUser("cashout@mail.vn", "secret123", "Le Van C", identity.UserRoleCustomer)
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, user))

	wallet, err := finance.NewWallet(user.ID)
	require.NoError(t, err)
	require.NoError(t, wallets.Create(ctx, wallet))

	bank := &finance.BankAccount{
		BaseEntity:    shared.NewBaseEntity(),
		UserID:        user.ID,
		BankName:      "Agribank",
		AccountNumber: "1500201234567",
		AccountHolder: user.FullName,
		IsDefault:     true,
	}
	require.NoError(t, banks.Save(ctx, bank))

	topup, err := wallets.Topup(ctx, user.ID, decimal.NewFromInt(200), "Initial topup")
	require.NoError(t, err)
	assert.Equal(t, finance.TransactionKindWalletTopup, topup.Kind)

	// Cashout debits the wallet and leaves a pending request
	cashout, err := cashouts.CreateWalletCashout(ctx, user.ID, bank.ID, decimal.NewFromInt(150))
	require.NoError(t, err)
	assert.Equal(t, finance.CashoutStatusPending, cashout.Status)

	funded, err := wallets.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, funded.Balance.Equal(decimal.NewFromInt(50)))

	// The partial unique index blocks a second pending cashout even though
	// the balance would still cover it
	_, err = cashouts.CreateWalletCashout(ctx, user.ID, bank.ID, decimal.NewFromInt(10))
	require.ErrorIs(t, err, shared.ErrAlreadyExists)

	// Overdrawing fails before anything is written
	_, err = cashouts.CreateWalletCashout(ctx, user.ID, bank.ID, decimal.NewFromInt(500))
	require.Error(t, err)

	// Processing the transfer frees the user for the next request
	require.NoError(t, cashouts.MarkProcessed(ctx, cashout.ID, "Transfer ref 20260829-01"))

	processed, err := cashouts.FindByID(ctx, cashout.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.CashoutStatusProcessed, processed.Status)
	require.NotNil(t, processed.ProcessedAt)

	_, err = cashouts.FindPendingByUser(ctx, user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	next, err := cashouts.CreateWalletCashout(ctx, user.ID, bank.ID, decimal.NewFromInt(25))
	require.NoError(t, err)
	assert.Equal(t, finance.CashoutStatusPending, next.Status)

	// Every movement left a ledger row
	page, err := ledger.FindByUser(ctx, user.ID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}
