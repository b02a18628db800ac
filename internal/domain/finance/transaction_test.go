package finance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_ValidateAttachments(t *testing.T) {
	tx, err := NewTransaction(uuid.New(), TransactionKindRefund, decimal.NewFromInt(50), "refund order 123")
	require.NoError(t, err)

	t.Run("no attachment is valid", func(t *testing.T) {
		assert.NoError(t, tx.ValidateAttachments())
	})

	t.Run("single attachment is valid", func(t *testing.T) {
		tx.Cashout = &Cashout{}
		assert.NoError(t, tx.ValidateAttachments())
	})

	t.Run("both attachments conflict", func(t *testing.T) {
		tx.Payment = &Payment{}
		assert.Error(t, tx.ValidateAttachments())
	})
}

func TestNewTransaction(t *testing.T) {
	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), TransactionKindPaymentIn, decimal.Zero, "")
		assert.Error(t, err)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewTransaction(uuid.New(), TransactionKind("BARTER"), decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})
}

func TestWallet_Debit(t *testing.T) {
	w, err := NewWallet(uuid.New())
	require.NoError(t, err)
	require.NoError(t, w.Credit(decimal.NewFromInt(100)))

	t.Run("debits within balance", func(t *testing.T) {
		require.NoError(t, w.Debit(decimal.NewFromInt(40)))
		assert.True(t, w.Balance.Equal(decimal.NewFromInt(60)))
	})

	t.Run("rejects overdraft", func(t *testing.T) {
		err := w.Debit(decimal.NewFromInt(1000))
		assert.Error(t, err)
		assert.True(t, w.Balance.Equal(decimal.NewFromInt(60)))
	})
}

func TestCashoutStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, CashoutStatusPending.CanTransitionTo(CashoutStatusProcessed))
	assert.True(t, CashoutStatusPending.CanTransitionTo(CashoutStatusRejected))
	assert.True(t, CashoutStatusProcessed.CanTransitionTo(CashoutStatusCompleted))
	assert.False(t, CashoutStatusCompleted.CanTransitionTo(CashoutStatusPending))
	assert.False(t, CashoutStatusRejected.CanTransitionTo(CashoutStatusPending))
}
