package finance

import (
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger row
type TransactionKind string

const (
	TransactionKindPaymentIn     TransactionKind = "PAYMENT_IN"
	TransactionKindWalletTopup   TransactionKind = "WALLET_TOPUP"
	TransactionKindWalletCashout TransactionKind = "WALLET_CASHOUT"
	TransactionKindRefund        TransactionKind = "REFUND"
)

// IsValid checks if the kind is a valid TransactionKind
func (k TransactionKind) IsValid() bool {
	switch k {
	case TransactionKindPaymentIn, TransactionKindWalletTopup,
		TransactionKindWalletCashout, TransactionKindRefund:
		return true
	}
	return false
}

// String returns the string representation of TransactionKind
func (k TransactionKind) String() string {
	return string(k)
}

// TransactionStatus represents the settlement state of a ledger row
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// IsValid checks if the status is a valid TransactionStatus
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	}
	return false
}

// Transaction is the single ledger row type for all money movement.
// At most one of Payment or Cashout may be attached, never both;
// the pair is a composition, removed with the transaction.
type Transaction struct {
	shared.BaseEntity
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Kind        TransactionKind   `gorm:"type:varchar(20);not null;index"`
	Status      TransactionStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Amount      decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Description string            `gorm:"type:varchar(255)"`

	Payment *Payment `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	Cashout *Cashout `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a new pending ledger row
func NewTransaction(userID uuid.UUID, kind TransactionKind, amount decimal.Decimal, description string) (*Transaction, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Invalid transaction kind")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}
	return &Transaction{
		BaseEntity:  shared.NewBaseEntity(),
		UserID:      userID,
		Kind:        kind,
		Status:      TransactionStatusPending,
		Amount:      amount,
		Description: description,
	}, nil
}

// ValidateAttachments enforces the payment/cashout exclusivity invariant
func (t *Transaction) ValidateAttachments() error {
	if t.Payment != nil && t.Cashout != nil {
		return shared.NewDomainError("ATTACHMENT_CONFLICT",
			"Transaction cannot have both a payment and a cashout attached")
	}
	return nil
}
