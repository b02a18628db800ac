package finance

import (
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a user's platform balance. One wallet per user; balance
// moves only together with a ledger transaction.
type Wallet struct {
	shared.BaseEntity
	UserID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Balance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Wallet) TableName() string {
	return "wallets"
}

// NewWallet creates a wallet with zero balance
func NewWallet(userID uuid.UUID) (*Wallet, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Wallet{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Balance:    decimal.Zero,
	}, nil
}

// Credit adds amount to the balance
func (w *Wallet) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	w.Balance = w.Balance.Add(amount)
	w.Touch()
	return nil
}

// Debit subtracts amount from the balance, failing when the balance is
// insufficient.
func (w *Wallet) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	if w.Balance.LessThan(amount) {
		return shared.ErrInsufficientBalance
	}
	w.Balance = w.Balance.Sub(amount)
	w.Touch()
	return nil
}

// BankAccount is a payout destination belonging to a user
type BankAccount struct {
	shared.BaseEntity
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	BankName      string    `gorm:"type:varchar(100);not null"`
	AccountNumber string    `gorm:"type:varchar(50);not null"`
	AccountHolder string    `gorm:"type:varchar(100);not null"`
	IsDefault     bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (BankAccount) TableName() string {
	return "bank_accounts"
}
