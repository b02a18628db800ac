package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to paid", OrderStatusPending, OrderStatusPaid, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"pending to shipped", OrderStatusPending, OrderStatusShipped, false},
		{"paid to shipped", OrderStatusPaid, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"delivered to refunded", OrderStatusDelivered, OrderStatusRefunded, true},
		{"partial refund to refunded", OrderStatusPartialRefund, OrderStatusRefunded, true},
		{"refunded is terminal", OrderStatusRefunded, OrderStatusPaid, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("sets paid timestamp", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), uuid.New())
		require.NoError(t, err)

		require.NoError(t, o.TransitionTo(OrderStatusPaid))
		assert.Equal(t, OrderStatusPaid, o.Status)
		assert.NotNil(t, o.PaidAt)
	})

	t.Run("rejects skipping payment", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), uuid.New())
		require.NoError(t, err)

		assert.Error(t, o.TransitionTo(OrderStatusDelivered))
		assert.Equal(t, OrderStatusPending, o.Status)
	})
}

func TestOrder_AddDetail(t *testing.T) {
	o, err := NewOrder(uuid.New(), uuid.New())
	require.NoError(t, err)

	d1, err := NewOrderDetail(uuid.New(), "Rice 5kg", "L1", 2, decimal.NewFromInt(30))
	require.NoError(t, err)
	d2, err := NewOrderDetail(uuid.New(), "Fertilizer", "L2", 1, decimal.NewFromInt(15))
	require.NoError(t, err)

	o.AddDetail(*d1)
	o.AddDetail(*d2)

	assert.Len(t, o.Details, 2)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, o.ID, o.Details[0].OrderID)
}

func TestDeriveRefundStatus(t *testing.T) {
	assert.Equal(t, OrderStatusRefunded, DeriveRefundStatus(3, 3))
	assert.Equal(t, OrderStatusPartialRefund, DeriveRefundStatus(1, 3))
	assert.Equal(t, OrderStatusPartialRefund, DeriveRefundStatus(0, 3))
	assert.Equal(t, OrderStatusPartialRefund, DeriveRefundStatus(0, 0))
}
