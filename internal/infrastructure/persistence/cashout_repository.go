package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrimarket/backend/internal/domain/finance"
	"github.com/agrimarket/backend/internal/domain/inventory"
	"github.com/agrimarket/backend/internal/domain/order"
	"github.com/agrimarket/backend/internal/domain/shared"
	"github.com/agrimarket/backend/internal/domain/support"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCashoutRepository implements CashoutRepository using GORM
type GormCashoutRepository struct {
	db *gorm.DB
}

var _ finance.CashoutRepository = (*GormCashoutRepository)(nil)

// NewGormCashoutRepository creates a new GormCashoutRepository
func NewGormCashoutRepository(db *gorm.DB) *GormCashoutRepository {
	return &GormCashoutRepository{db: db}
}

// FindByID finds a cashout by its ID
func (r *GormCashoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Cashout, error) {
	var cashout finance.Cashout
	if err := r.db.WithContext(ctx).First(&cashout, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cashout, nil
}

// FindPendingByUser finds a user's pending cashout, if any
func (r *GormCashoutRepository) FindPendingByUser(ctx context.Context, userID uuid.UUID) (*finance.Cashout, error) {
	var cashout finance.Cashout
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, finance.CashoutStatusPending).
		First(&cashout).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cashout, nil
}

// FindByStatus finds cashouts in a given status, oldest first so the queue
// is worked in arrival order
func (r *GormCashoutRepository) FindByStatus(ctx context.Context, status finance.CashoutStatus, filter shared.Filter) (shared.Paginated[finance.Cashout], error) {
	filter.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&finance.Cashout{}).
		Where("status = ?", status).
		Count(&total).Error; err != nil {
		return shared.Paginated[finance.Cashout]{}, err
	}

	var cashouts []finance.Cashout
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&cashouts).Error; err != nil {
		return shared.Paginated[finance.Cashout]{}, err
	}

	return shared.NewPaginated(cashouts, total, filter.Page, filter.PageSize), nil
}

// CreateWalletCashout debits the wallet, writes the WALLET_CASHOUT ledger
// row and the pending cashout in one transaction. The partial unique index
// on (user_id) WHERE status = 'PENDING' makes a concurrent second request
// fail at commit instead of slipping past an existence check.
func (r *GormCashoutRepository) CreateWalletCashout(ctx context.Context, userID, bankAccountID uuid.UUID, amount decimal.Decimal) (*finance.Cashout, error) {
	ledger, err := finance.NewTransaction(userID, finance.TransactionKindWalletCashout, amount, "Wallet cashout request")
	if err != nil {
		return nil, err
	}

	cashout, err := finance.NewCashout(ledger.ID, userID, bankAccountID, amount)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallet, err := lockWallet(tx, userID)
		if err != nil {
			return err
		}
		if err := wallet.Debit(amount); err != nil {
			return err
		}
		if err := saveWalletBalance(tx, wallet); err != nil {
			return err
		}

		if err := tx.Omit("Payment", "Cashout").Create(ledger).Error; err != nil {
			return err
		}
		if err := tx.Create(cashout).Error; err != nil {
			if isUniqueViolation(err) {
				return shared.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cashout, nil
}

// ProcessRefund validates a refund request fully before mutating anything,
// then applies the reconciliation in one transaction: REFUND ledger row,
// cashout, serial flips to REFUND, export and order-detail refund flags,
// derived order status and completion of the support request.
func (r *GormCashoutRepository) ProcessRefund(ctx context.Context, req finance.RefundRequest) (*finance.Cashout, error) {
	if len(req.OrderDetailIDs) == 0 {
		return nil, shared.NewDomainError("EMPTY_REFUND", "Refund must target at least one order line")
	}

	db := r.db.WithContext(ctx)

	var o order.Order
	if err := db.First(&o, "id = ?", req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	details, err := r.validateRefundDetails(db, req)
	if err != nil {
		return nil, err
	}

	exportsByDetail, serialIDs, err := r.validateRefundFulfilment(db, details)
	if err != nil {
		return nil, err
	}

	amount := decimal.Zero
	for i := range details {
		amount = amount.Add(details[i].Subtotal)
	}

	ledger, err := finance.NewTransaction(o.UserID, finance.TransactionKindRefund, amount,
		fmt.Sprintf("Refund for order %s", o.ID))
	if err != nil {
		return nil, err
	}
	ledger.Status = finance.TransactionStatusCompleted

	cashout, err := finance.NewCashout(ledger.ID, o.UserID, req.BankAccountID, amount)
	if err != nil {
		return nil, err
	}
	cashout.OrderID = &req.OrderID
	if req.RequestID != uuid.Nil {
		requestID := req.RequestID
		cashout.RequestID = &requestID
	}
	cashout.Note = req.Reason

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Payment", "Cashout").Create(ledger).Error; err != nil {
			return err
		}
		if err := tx.Create(cashout).Error; err != nil {
			return err
		}

		for _, serialID := range serialIDs {
			if err := transitionSerial(tx, serialID, inventory.SerialStatusRefund); err != nil {
				return err
			}
		}

		now := time.Now()
		for _, exports := range exportsByDetail {
			for i := range exports {
				if err := tx.Model(&inventory.ExportInventory{}).
					Where("id = ?", exports[i].ID).
					Updates(map[string]interface{}{
						"refunded":   true,
						"updated_at": now,
					}).Error; err != nil {
					return err
				}
			}
		}

		detailIDs := make([]uuid.UUID, len(details))
		for i := range details {
			detailIDs[i] = details[i].ID
		}
		if err := tx.Model(&order.OrderDetail{}).
			Where("id IN ?", detailIDs).
			Updates(map[string]interface{}{
				"is_refunded": true,
				"updated_at":  now,
			}).Error; err != nil {
			return err
		}

		if err := r.applyOrderRefundStatus(tx, &o); err != nil {
			return err
		}

		if cashout.RequestID != nil {
			if err := completeSupportRequest(tx, *cashout.RequestID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cashout, nil
}

// validateRefundDetails checks ownership and prior refund state of every
// targeted line
func (r *GormCashoutRepository) validateRefundDetails(db *gorm.DB, req finance.RefundRequest) ([]order.OrderDetail, error) {
	var details []order.OrderDetail
	if err := db.Where("id IN ?", req.OrderDetailIDs).Find(&details).Error; err != nil {
		return nil, err
	}
	if len(details) != len(req.OrderDetailIDs) {
		return nil, shared.NewDomainError("DETAIL_NOT_FOUND", "One or more order lines do not exist")
	}
	for i := range details {
		if details[i].OrderID != req.OrderID {
			return nil, shared.NewDomainError("DETAIL_WRONG_ORDER",
				fmt.Sprintf("Order line %s belongs to a different order", details[i].ID))
		}
		if details[i].IsRefunded {
			return nil, shared.NewDomainError("DETAIL_ALREADY_REFUNDED",
				fmt.Sprintf("Order line %s has already been refunded", details[i].ID))
		}
	}
	return details, nil
}

// validateRefundFulfilment checks that every targeted line was actually
// fulfilled: at least one export row, and any serial-tracked export's
// serial currently SOLD
func (r *GormCashoutRepository) validateRefundFulfilment(db *gorm.DB, details []order.OrderDetail) (map[uuid.UUID][]inventory.ExportInventory, []uuid.UUID, error) {
	exportsByDetail := make(map[uuid.UUID][]inventory.ExportInventory, len(details))
	var serialIDs []uuid.UUID

	for i := range details {
		var exports []inventory.ExportInventory
		if err := db.Where("order_detail_id = ?", details[i].ID).Find(&exports).Error; err != nil {
			return nil, nil, err
		}
		if len(exports) == 0 {
			return nil, nil, shared.NewDomainError("DETAIL_NOT_FULFILLED",
				fmt.Sprintf("Order line %s has no export record", details[i].ID))
		}

		for j := range exports {
			if exports[j].ProductSerialID == nil {
				continue
			}
			var serial inventory.ProductSerial
			if err := db.First(&serial, "id = ?", *exports[j].ProductSerialID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, nil, shared.ErrNotFound
				}
				return nil, nil, err
			}
			if serial.Status != inventory.SerialStatusSold {
				return nil, nil, shared.NewDomainError("SERIAL_NOT_SOLD",
					fmt.Sprintf("Serial %s is %s, refund requires SOLD", serial.SerialNumber, serial.Status))
			}
			serialIDs = append(serialIDs, serial.ID)
		}
		exportsByDetail[details[i].ID] = exports
	}
	return exportsByDetail, serialIDs, nil
}

// applyOrderRefundStatus derives REFUNDED or PARTIAL_REFUND from the
// refunded line count and transitions the order
func (r *GormCashoutRepository) applyOrderRefundStatus(tx *gorm.DB, o *order.Order) error {
	var total, refunded int64
	if err := tx.Model(&order.OrderDetail{}).
		Where("order_id = ?", o.ID).
		Count(&total).Error; err != nil {
		return err
	}
	if err := tx.Model(&order.OrderDetail{}).
		Where("order_id = ? AND is_refunded = ?", o.ID, true).
		Count(&refunded).Error; err != nil {
		return err
	}

	target := order.DeriveRefundStatus(int(refunded), int(total))
	if o.Status == target {
		return nil
	}
	if err := o.TransitionTo(target); err != nil {
		return err
	}
	return tx.Model(o).Updates(map[string]interface{}{
		"status":     o.Status,
		"updated_at": o.UpdatedAt,
	}).Error
}

// completeSupportRequest marks the originating refund request COMPLETED
func completeSupportRequest(tx *gorm.DB, requestID uuid.UUID) error {
	var req support.Request
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	if err := req.TransitionTo(support.RequestStatusCompleted); err != nil {
		return err
	}
	return tx.Model(&req).Updates(map[string]interface{}{
		"status":      req.Status,
		"resolved_at": req.ResolvedAt,
		"updated_at":  req.UpdatedAt,
	}).Error
}

// MarkProcessed transitions a pending cashout after the bank transfer is made
func (r *GormCashoutRepository) MarkProcessed(ctx context.Context, id uuid.UUID, note string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cashout finance.Cashout
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&cashout, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if err := cashout.TransitionTo(finance.CashoutStatusProcessed); err != nil {
			return err
		}
		if note != "" {
			cashout.Note = note
		}

		return tx.Model(&cashout).Updates(map[string]interface{}{
			"status":       cashout.Status,
			"note":         cashout.Note,
			"processed_at": cashout.ProcessedAt,
			"updated_at":   cashout.UpdatedAt,
		}).Error
	})
}

// isUniqueViolation reports whether an error came from a unique index.
// Postgres reports code 23505, sqlite a UNIQUE constraint message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
