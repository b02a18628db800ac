package finance

import (
	"fmt"
	"time"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashoutStatus represents the lifecycle of a payout/refund request.
// Only one PENDING cashout may exist per user at a time; the database
// enforces this with a partial unique index.
type CashoutStatus string

const (
	CashoutStatusPending   CashoutStatus = "PENDING"
	CashoutStatusProcessed CashoutStatus = "PROCESSED"
	CashoutStatusCompleted CashoutStatus = "COMPLETED"
	CashoutStatusRejected  CashoutStatus = "REJECTED"
)

// IsValid checks if the status is a valid CashoutStatus
func (s CashoutStatus) IsValid() bool {
	switch s {
	case CashoutStatusPending, CashoutStatusProcessed, CashoutStatusCompleted, CashoutStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of CashoutStatus
func (s CashoutStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s CashoutStatus) CanTransitionTo(target CashoutStatus) bool {
	switch s {
	case CashoutStatusPending:
		return target == CashoutStatusProcessed || target == CashoutStatusRejected
	case CashoutStatusProcessed:
		return target == CashoutStatusCompleted
	case CashoutStatusCompleted, CashoutStatusRejected:
		return false // Terminal states
	}
	return false
}

// Cashout is an outbound payout (vendor payout or customer refund) paired
// 1:1 with its ledger transaction.
type Cashout struct {
	shared.BaseEntity
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BankAccountID uuid.UUID       `gorm:"type:uuid;not null"`
	OrderID       *uuid.UUID      `gorm:"type:uuid;index"`
	RequestID     *uuid.UUID      `gorm:"type:uuid;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status        CashoutStatus   `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Note          string          `gorm:"type:varchar(255)"`
	ProcessedAt   *time.Time
}

// TableName returns the table name for GORM
func (Cashout) TableName() string {
	return "cashouts"
}

// NewCashout creates a new pending cashout
func NewCashout(transactionID, userID, bankAccountID uuid.UUID, amount decimal.Decimal) (*Cashout, error) {
	if transactionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRANSACTION", "Transaction ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if bankAccountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BANK_ACCOUNT", "Bank account ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Cashout amount must be positive")
	}
	return &Cashout{
		BaseEntity:    shared.NewBaseEntity(),
		TransactionID: transactionID,
		UserID:        userID,
		BankAccountID: bankAccountID,
		Amount:        amount,
		Status:        CashoutStatusPending,
	}, nil
}

// TransitionTo moves the cashout to the target status
func (c *Cashout) TransitionTo(target CashoutStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_CASHOUT_STATUS", "Invalid cashout status")
	}
	if !c.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_CASHOUT_TRANSITION",
			fmt.Sprintf("Cannot transition cashout from %s to %s", c.Status, target))
	}
	c.Status = target
	if target == CashoutStatusProcessed {
		now := time.Now()
		c.ProcessedAt = &now
	}
	c.Touch()
	return nil
}
