package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    SerialStatus
		to      SerialStatus
		allowed bool
	}{
		{"stock to sold", SerialStatusStock, SerialStatusSold, true},
		{"stock to adjustment", SerialStatusStock, SerialStatusAdjustment, true},
		{"stock to refund", SerialStatusStock, SerialStatusRefund, false},
		{"sold to refund", SerialStatusSold, SerialStatusRefund, true},
		{"sold back to stock", SerialStatusSold, SerialStatusStock, false},
		{"sold to adjustment", SerialStatusSold, SerialStatusAdjustment, false},
		{"refund is terminal", SerialStatusRefund, SerialStatusStock, false},
		{"adjustment is terminal", SerialStatusAdjustment, SerialStatusSold, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestProductSerial_TransitionTo(t *testing.T) {
	t.Run("allows forward transition", func(t *testing.T) {
		s := ProductSerial{Status: SerialStatusStock, SerialNumber: "SKU1-B1-000"}
		require.NoError(t, s.TransitionTo(SerialStatusSold))
		assert.Equal(t, SerialStatusSold, s.Status)
	})

	t.Run("rejects reverting sold to stock", func(t *testing.T) {
		s := ProductSerial{Status: SerialStatusSold, SerialNumber: "SKU1-B1-000"}
		err := s.TransitionTo(SerialStatusStock)
		require.Error(t, err)
		assert.Equal(t, SerialStatusSold, s.Status)
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		s := ProductSerial{Status: SerialStatusStock}
		assert.Error(t, s.TransitionTo(SerialStatus("BROKEN")))
	})
}

func TestSerialNumberFor(t *testing.T) {
	assert.Equal(t, "SKU1-B1-000", SerialNumberFor("SKU1", "B1", 0))
	assert.Equal(t, "SKU1-B1-042", SerialNumberFor("SKU1", "B1", 42))
	assert.Equal(t, "SKU1-B1-1000", SerialNumberFor("SKU1", "B1", 1000))
}

func TestGenerateSerials(t *testing.T) {
	batch, err := NewBatchInventory(uuid.New(), "B1", "L1", 3, decimal.NewFromInt(10))
	require.NoError(t, err)

	serials := GenerateSerials(batch, "SKU1")

	require.Len(t, serials, 3)
	assert.Equal(t, "SKU1-B1-000", serials[0].SerialNumber)
	assert.Equal(t, "SKU1-B1-001", serials[1].SerialNumber)
	assert.Equal(t, "SKU1-B1-002", serials[2].SerialNumber)
	for _, s := range serials {
		assert.Equal(t, SerialStatusStock, s.Status)
		assert.Equal(t, batch.ID, s.BatchInventoryID)
		assert.Equal(t, batch.ProductID, s.ProductID)
	}
}
