package persistence

import (
	"context"
	"testing"

	"github.com/agrimarket/backend/internal/domain/order"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupCartTestDB opens an in-memory SQLite database so the cart upsert
// logic runs against real SQL instead of statement expectations
func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&order.Cart{}, &order.CartItem{})
	require.NoError(t, err)

	return db
}

func TestGormCartRepository_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the cart on first use", func(t *testing.T) {
		repo := NewGormCartRepository(setupCartTestDB(t))
		userID := uuid.New()
		productID := uuid.New()

		err := repo.AddItem(ctx, userID, productID, 2)
		require.NoError(t, err)

		cart, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, productID, cart.Items[0].ProductID)
		assert.Equal(t, 2, cart.Items[0].Quantity)
	})

	t.Run("increments an existing line instead of duplicating it", func(t *testing.T) {
		repo := NewGormCartRepository(setupCartTestDB(t))
		userID := uuid.New()
		productID := uuid.New()

		require.NoError(t, repo.AddItem(ctx, userID, productID, 2))
		require.NoError(t, repo.AddItem(ctx, userID, productID, 3))

		cart, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("keeps separate lines per product", func(t *testing.T) {
		repo := NewGormCartRepository(setupCartTestDB(t))
		userID := uuid.New()

		require.NoError(t, repo.AddItem(ctx, userID, uuid.New(), 1))
		require.NoError(t, repo.AddItem(ctx, userID, uuid.New(), 1))

		cart, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, cart.Items, 2)
	})

	t.Run("rejects a non-positive quantity", func(t *testing.T) {
		repo := NewGormCartRepository(setupCartTestDB(t))

		err := repo.AddItem(ctx, uuid.New(), uuid.New(), 0)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})
}

func TestGormCartRepository_UpdateItemQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("sets the exact quantity", func(t *testing.T) {
		repo := NewGormCartRepository(setupCartTestDB(t))
		userID := uuid.New()
		productID := uuid.New()

		require.NoError(t, repo.AddItem(ctx, userID, productID, 2))
		cart, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)

		require.NoError(t, repo.UpdateItemQuantity(ctx, cart.Items[0].ID, 7))

		cart, err = repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 7, cart.Items[0].Quantity)
	})

	t.Run("returns not found for an unknown line", func(t *testing.T) {
		repo := NewGormCartRepository(setupCartTestDB(t))

		err := repo.UpdateItemQuantity(ctx, uuid.New(), 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCartRepository_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("empties the cart but keeps it", func(t *testing.T) {
		repo := NewGormCartRepository(setupCartTestDB(t))
		userID := uuid.New()

		require.NoError(t, repo.AddItem(ctx, userID, uuid.New(), 1))
		require.NoError(t, repo.AddItem(ctx, userID, uuid.New(), 4))

		require.NoError(t, repo.Clear(ctx, userID))

		cart, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("returns not found when the user has no cart", func(t *testing.T) {
		repo := NewGormCartRepository(setupCartTestDB(t))

		err := repo.Clear(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
