package persistence

import (
	"context"
	"errors"

	"github.com/agrimarket/backend/internal/domain/finance"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

var _ finance.TransactionRepository = (*GormTransactionRepository)(nil)

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a ledger row by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Transaction, error) {
	var ledger finance.Transaction
	if err := r.db.WithContext(ctx).First(&ledger, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ledger, nil
}

// FindByIDWithAttachments finds a ledger row with its payment or cashout
// preloaded
func (r *GormTransactionRepository) FindByIDWithAttachments(ctx context.Context, id uuid.UUID) (*finance.Transaction, error) {
	var ledger finance.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Payment").
		Preload("Cashout").
		First(&ledger, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ledger, nil
}

// FindByUser finds a user's ledger rows, newest first
func (r *GormTransactionRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (shared.Paginated[finance.Transaction], error) {
	return r.paginate(ctx, filter, "user_id = ?", userID)
}

// FindByKind finds ledger rows of one kind, newest first
func (r *GormTransactionRepository) FindByKind(ctx context.Context, kind finance.TransactionKind, filter shared.Filter) (shared.Paginated[finance.Transaction], error) {
	return r.paginate(ctx, filter, "kind = ?", kind)
}

func (r *GormTransactionRepository) paginate(ctx context.Context, filter shared.Filter, condition string, args ...any) (shared.Paginated[finance.Transaction], error) {
	filter.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&finance.Transaction{}).
		Where(condition, args...).
		Count(&total).Error; err != nil {
		return shared.Paginated[finance.Transaction]{}, err
	}

	var ledgers []finance.Transaction
	if err := r.db.WithContext(ctx).
		Where(condition, args...).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&ledgers).Error; err != nil {
		return shared.Paginated[finance.Transaction]{}, err
	}

	return shared.NewPaginated(ledgers, total, filter.Page, filter.PageSize), nil
}

// Create persists a ledger row after checking attachment exclusivity
func (r *GormTransactionRepository) Create(ctx context.Context, ledger *finance.Transaction) error {
	if err := ledger.ValidateAttachments(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(ledger).Error
}

// UpdateStatus sets the settlement status of a ledger row
func (r *GormTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status finance.TransactionStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_TRANSACTION_STATUS", "Invalid transaction status")
	}
	result := r.db.WithContext(ctx).Model(&finance.Transaction{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
