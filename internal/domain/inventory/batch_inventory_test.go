package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBatchInventory(t *testing.T) {
	t.Run("creates valid batch", func(t *testing.T) {
		batch, err := NewBatchInventory(uuid.New(), "B1", "L1", 5, decimal.NewFromInt(12))
		require.NoError(t, err)
		assert.Equal(t, QualityCheckStatusPending, batch.QualityCheckStatus)
		assert.Equal(t, 5, batch.Quantity)
	})

	t.Run("rejects empty batch number", func(t *testing.T) {
		_, err := NewBatchInventory(uuid.New(), "", "L1", 5, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewBatchInventory(uuid.New(), "B1", "L1", -1, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestBatchInventory_ValidateForSerialTracking(t *testing.T) {
	t.Run("requires positive quantity", func(t *testing.T) {
		b := BatchInventory{Quantity: 0, LotNumber: "L1"}
		assert.Error(t, b.ValidateForSerialTracking())
	})

	t.Run("requires lot number", func(t *testing.T) {
		b := BatchInventory{Quantity: 3, LotNumber: ""}
		assert.Error(t, b.ValidateForSerialTracking())
	})

	t.Run("passes with quantity and lot", func(t *testing.T) {
		b := BatchInventory{Quantity: 3, LotNumber: "L1"}
		assert.NoError(t, b.ValidateForSerialTracking())
	})
}

func TestBatchInventory_AppendQualityNote(t *testing.T) {
	b := BatchInventory{}

	b.AppendQualityNote("first inspection ok")
	b.AppendQualityNote("moisture slightly high")
	b.AppendQualityNote("   ")

	assert.Equal(t, "first inspection ok\nmoisture slightly high", b.QualityNotes)
}

func TestBatchInventory_SetQualityCheckStatus(t *testing.T) {
	t.Run("pending to passed", func(t *testing.T) {
		b := BatchInventory{QualityCheckStatus: QualityCheckStatusPending}
		require.NoError(t, b.SetQualityCheckStatus(QualityCheckStatusPassed))
		assert.Equal(t, QualityCheckStatusPassed, b.QualityCheckStatus)
	})

	t.Run("passed is final", func(t *testing.T) {
		b := BatchInventory{QualityCheckStatus: QualityCheckStatusPassed}
		assert.Error(t, b.SetQualityCheckStatus(QualityCheckStatusFailed))
	})

	t.Run("failed may be re-run", func(t *testing.T) {
		b := BatchInventory{QualityCheckStatus: QualityCheckStatusFailed}
		assert.NoError(t, b.SetQualityCheckStatus(QualityCheckStatusPending))
	})
}
