package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrimarket/backend/internal/domain/finance"
	"github.com/agrimarket/backend/internal/domain/order"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWalletRepository implements WalletRepository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

var _ finance.WalletRepository = (*GormWalletRepository)(nil)

// NewGormWalletRepository creates a new GormWalletRepository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// FindByUser finds a user's wallet
func (r *GormWalletRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*finance.Wallet, error) {
	var wallet finance.Wallet
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// Create persists a new wallet
func (r *GormWalletRepository) Create(ctx context.Context, wallet *finance.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

// Topup credits the wallet and writes the WALLET_TOPUP ledger row in one
// transaction. The wallet row is locked for the duration.
func (r *GormWalletRepository) Topup(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*finance.Transaction, error) {
	ledger, err := finance.NewTransaction(userID, finance.TransactionKindWalletTopup, amount, description)
	if err != nil {
		return nil, err
	}
	ledger.Status = finance.TransactionStatusCompleted

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallet, err := lockWallet(tx, userID)
		if err != nil {
			return err
		}
		if err := wallet.Credit(amount); err != nil {
			return err
		}
		if err := saveWalletBalance(tx, wallet); err != nil {
			return err
		}
		return tx.Omit("Payment", "Cashout").Create(ledger).Error
	})
	if err != nil {
		return nil, err
	}
	return ledger, nil
}

// CreditRefund credits a refunded order line's subtotal back to the wallet
// and flags the detail as wallet-credited, atomically. Crediting the same
// line twice fails.
func (r *GormWalletRepository) CreditRefund(ctx context.Context, userID, orderDetailID uuid.UUID, amount decimal.Decimal) error {
	ledger, err := finance.NewTransaction(userID, finance.TransactionKindRefund, amount,
		fmt.Sprintf("Wallet credit for refunded order line %s", orderDetailID))
	if err != nil {
		return err
	}
	ledger.Status = finance.TransactionStatusCompleted

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var detail order.OrderDetail
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&detail, "id = ?", orderDetailID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if !detail.IsRefunded {
			return shared.NewDomainError("DETAIL_NOT_REFUNDED",
				"Order line must be refunded before it can be wallet-credited")
		}
		if detail.IsWalletCredited {
			return shared.NewDomainError("ALREADY_CREDITED",
				"Order line has already been credited to the wallet")
		}

		wallet, err := lockWallet(tx, userID)
		if err != nil {
			return err
		}
		if err := wallet.Credit(amount); err != nil {
			return err
		}
		if err := saveWalletBalance(tx, wallet); err != nil {
			return err
		}

		if err := tx.Model(&detail).Update("is_wallet_credited", true).Error; err != nil {
			return err
		}
		return tx.Omit("Payment", "Cashout").Create(ledger).Error
	})
}

// lockWallet loads a wallet row under FOR UPDATE
func lockWallet(tx *gorm.DB, userID uuid.UUID) (*finance.Wallet, error) {
	var wallet finance.Wallet
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func saveWalletBalance(tx *gorm.DB, wallet *finance.Wallet) error {
	return tx.Model(wallet).Updates(map[string]interface{}{
		"balance":    wallet.Balance,
		"updated_at": wallet.UpdatedAt,
	}).Error
}
