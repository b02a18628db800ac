package order

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines persistence operations for orders and details
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDWithDetails(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[Order], error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) (shared.Paginated[Order], error)
	// Create persists the order, its details and the corresponding stock
	// decrement on each product in one transaction.
	Create(ctx context.Context, order *Order) error
	UpdateStatus(ctx context.Context, id uuid.UUID, target OrderStatus) error
	CountDetails(ctx context.Context, orderID uuid.UUID) (total int64, refunded int64, err error)
}

// CartRepository defines persistence operations for carts
type CartRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// AddItem inserts the product into the user's cart, creating the cart
	// on first use; an existing line for the product gets its quantity
	// increased instead.
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
