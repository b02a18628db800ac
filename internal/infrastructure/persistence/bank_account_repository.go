package persistence

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/finance"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBankAccountRepository implements BankAccountRepository using GORM
type GormBankAccountRepository struct {
	*GormRepository[finance.BankAccount]
}

var _ finance.BankAccountRepository = (*GormBankAccountRepository)(nil)

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{GormRepository: NewGormRepository[finance.BankAccount](db)}
}

// FindByUser finds a user's bank accounts, default first
func (r *GormBankAccountRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]finance.BankAccount, error) {
	var accounts []finance.BankAccount
	if err := r.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// SetDefault makes one account the user's default payout destination,
// clearing the flag on the others in the same transaction
func (r *GormBankAccountRepository) SetDefault(ctx context.Context, userID, accountID uuid.UUID) error {
	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&finance.BankAccount{}).
			Where("id = ? AND user_id = ?", accountID, userID).
			Update("is_default", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		return tx.Model(&finance.BankAccount{}).
			Where("user_id = ? AND id <> ?", userID, accountID).
			Update("is_default", false).Error
	})
}
