package persistence

import (
	"context"
	"errors"

	"github.com/agrimarket/backend/internal/domain/order"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

var _ order.CartRepository = (*GormCartRepository)(nil)

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser finds a user's cart with its items preloaded
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*order.Cart, error) {
	var cart order.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// AddItem inserts the product into the user's cart, creating the cart on
// first use. An existing line for the same product gets its quantity
// increased instead of a duplicate row.
func (r *GormCartRepository) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Cart quantity must be positive")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart order.Cart
		err := tx.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created, cartErr := order.NewCart(userID)
			if cartErr != nil {
				return cartErr
			}
			cart = *created
			if err := tx.Create(&cart).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var item order.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = order.CartItem{
				BaseEntity: shared.NewBaseEntity(),
				CartID:     cart.ID,
				ProductID:  productID,
				Quantity:   quantity,
			}
			return tx.Create(&item).Error
		} else if err != nil {
			return err
		}

		item.Quantity += quantity
		item.Touch()
		return tx.Model(&item).Updates(map[string]interface{}{
			"quantity":   item.Quantity,
			"updated_at": item.UpdatedAt,
		}).Error
	})
}

// UpdateItemQuantity sets a cart line to an exact quantity
func (r *GormCartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Cart quantity must be positive")
	}
	result := r.db.WithContext(ctx).Model(&order.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RemoveItem deletes one cart line
func (r *GormCartRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&order.CartItem{}, "id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Clear removes every line from a user's cart
func (r *GormCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart order.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		return tx.Delete(&order.CartItem{}, "cart_id = ?", cart.ID).Error
	})
}
