package order

import (
	"fmt"
	"time"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a customer order
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "PENDING"
	OrderStatusPaid          OrderStatus = "PAID"
	OrderStatusShipped       OrderStatus = "SHIPPED"
	OrderStatusDelivered     OrderStatus = "DELIVERED"
	OrderStatusCancelled     OrderStatus = "CANCELLED"
	OrderStatusRefunded      OrderStatus = "REFUNDED"
	OrderStatusPartialRefund OrderStatus = "PARTIAL_REFUND"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusRefunded, OrderStatusPartialRefund:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPaid:
		return target == OrderStatusShipped || target == OrderStatusCancelled ||
			target == OrderStatusRefunded || target == OrderStatusPartialRefund
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusRefunded ||
			target == OrderStatusPartialRefund
	case OrderStatusDelivered:
		return target == OrderStatusRefunded || target == OrderStatusPartialRefund
	case OrderStatusPartialRefund:
		return target == OrderStatusRefunded
	case OrderStatusCancelled, OrderStatusRefunded:
		return false // Terminal states
	}
	return false
}

// Order represents a customer purchase. It exclusively owns its details.
type Order struct {
	shared.BaseEntity
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	AddressID   uuid.UUID       `gorm:"type:uuid;not null"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ShippingFee decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAt      *time.Time
	DeliveredAt *time.Time

	Details []OrderDetail `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new pending order
func NewOrder(userID, addressID uuid.UUID) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if addressID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address ID cannot be empty")
	}
	return &Order{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		AddressID:   addressID,
		Status:      OrderStatusPending,
		TotalAmount: decimal.Zero,
		ShippingFee: decimal.Zero,
	}, nil
}

// AddDetail appends a line item and recomputes the total
func (o *Order) AddDetail(d OrderDetail) {
	d.OrderID = o.ID
	o.Details = append(o.Details, d)
	o.TotalAmount = o.TotalAmount.Add(d.Subtotal)
	o.Touch()
}

// TransitionTo moves the order to the target status
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_ORDER_STATUS", "Invalid order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_ORDER_TRANSITION",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}
	o.Status = target
	now := time.Now()
	switch target {
	case OrderStatusPaid:
		o.PaidAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	}
	o.Touch()
	return nil
}

// DeriveRefundStatus returns the refund status an order should carry given
// how many of its details have been refunded: REFUNDED when all of them,
// PARTIAL_REFUND otherwise.
func DeriveRefundStatus(refundedDetails, totalDetails int) OrderStatus {
	if totalDetails > 0 && refundedDetails >= totalDetails {
		return OrderStatusRefunded
	}
	return OrderStatusPartialRefund
}
