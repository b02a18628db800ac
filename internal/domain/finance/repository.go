package finance

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets
type WalletRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*Wallet, error)
	Create(ctx context.Context, wallet *Wallet) error
	// Topup credits the wallet and writes the WALLET_TOPUP ledger row in
	// one transaction.
	Topup(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (*Transaction, error)
	// CreditRefund credits a refunded order line's subtotal back to the
	// wallet and flags the detail as wallet-credited, atomically.
	CreditRefund(ctx context.Context, userID, orderDetailID uuid.UUID, amount decimal.Decimal) error
}

// TransactionRepository defines persistence operations for the ledger
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByIDWithAttachments(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[Transaction], error)
	FindByKind(ctx context.Context, kind TransactionKind, filter shared.Filter) (shared.Paginated[Transaction], error)
	Create(ctx context.Context, tx *Transaction) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status TransactionStatus) error
}

// RefundRequest describes one refund submission against an order
type RefundRequest struct {
	OrderID        uuid.UUID
	OrderDetailIDs []uuid.UUID
	BankAccountID  uuid.UUID
	RequestID      uuid.UUID
	Reason         string
}

// CashoutRepository defines persistence operations for cashouts,
// including the refund reconciliation flow.
type CashoutRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Cashout, error)
	FindPendingByUser(ctx context.Context, userID uuid.UUID) (*Cashout, error)
	FindByStatus(ctx context.Context, status CashoutStatus, filter shared.Filter) (shared.Paginated[Cashout], error)
	// CreateWalletCashout debits the wallet, writes the WALLET_CASHOUT
	// ledger row and the pending cashout in one transaction. A second
	// pending cashout for the same user fails with ErrAlreadyExists
	// (partial unique index on (user_id) where status = 'PENDING').
	CreateWalletCashout(ctx context.Context, userID, bankAccountID uuid.UUID, amount decimal.Decimal) (*Cashout, error)
	// ProcessRefund validates the refund request (line ownership,
	// fulfilment via export rows, serial state) before any mutation, then
	// atomically creates the REFUND ledger row and cashout, flips the
	// affected serials to REFUND, marks exports and details refunded,
	// derives the order's refund status and completes the support request.
	ProcessRefund(ctx context.Context, req RefundRequest) (*Cashout, error)
	// MarkProcessed transitions a pending cashout after bank transfer
	MarkProcessed(ctx context.Context, id uuid.UUID, note string) error
}

// BankAccountRepository defines persistence operations for bank accounts
type BankAccountRepository interface {
	shared.Repository[BankAccount]
	FindByUser(ctx context.Context, userID uuid.UUID) ([]BankAccount, error)
	SetDefault(ctx context.Context, userID, accountID uuid.UUID) error
}
