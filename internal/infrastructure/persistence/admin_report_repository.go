package persistence

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses that count toward revenue. Cancelled orders never paid;
// refunded ones are reported separately by the refund ledger.
var revenueStatuses = []string{"PAID", "SHIPPED", "DELIVERED", "PARTIAL_REFUND"}

// GormAdminReportRepository implements AdminReportRepository using GORM
type GormAdminReportRepository struct {
	db *gorm.DB
}

var _ report.AdminReportRepository = (*GormAdminReportRepository)(nil)

// NewGormAdminReportRepository creates a new GormAdminReportRepository
func NewGormAdminReportRepository(db *gorm.DB) *GormAdminReportRepository {
	return &GormAdminReportRepository{db: db}
}

// Summary returns the platform-wide dashboard figures
func (r *GormAdminReportRepository) Summary(ctx context.Context, dateRange report.DateRange) (*report.AdminSummary, error) {
	var totalRevenue decimal.Decimal
	if err := applyPaidRange(r.db.WithContext(ctx).Table("orders"), dateRange).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status IN ?", revenueStatuses).
		Scan(&totalRevenue).Error; err != nil {
		return nil, err
	}

	var totalOrders int64
	if err := applyPaidRange(r.db.WithContext(ctx).Table("orders"), dateRange).
		Where("status IN ?", revenueStatuses).
		Count(&totalOrders).Error; err != nil {
		return nil, err
	}

	var totalUsers int64
	if err := r.db.WithContext(ctx).Table("users").
		Where("status <> ?", "DELETED").
		Count(&totalUsers).Error; err != nil {
		return nil, err
	}

	var totalVendors int64
	if err := r.db.WithContext(ctx).Table("vendor_profiles").
		Count(&totalVendors).Error; err != nil {
		return nil, err
	}

	var pendingCashout int64
	if err := r.db.WithContext(ctx).Table("cashouts").
		Where("status = ?", "PENDING").
		Count(&pendingCashout).Error; err != nil {
		return nil, err
	}

	return &report.AdminSummary{
		TotalRevenue:   totalRevenue,
		TotalOrders:    totalOrders,
		TotalUsers:     totalUsers,
		TotalVendors:   totalVendors,
		PendingCashout: pendingCashout,
	}, nil
}

// RevenueByMonth returns date-bucketed revenue rollups
func (r *GormAdminReportRepository) RevenueByMonth(ctx context.Context, dateRange report.DateRange) ([]report.MonthlyRevenue, error) {
	var rows []report.MonthlyRevenue
	if err := applyPaidRange(r.db.WithContext(ctx).Table("orders"), dateRange).
		Select("EXTRACT(YEAR FROM paid_at)::int AS year, EXTRACT(MONTH FROM paid_at)::int AS month, COALESCE(SUM(total_amount), 0) AS revenue, COUNT(*) AS orders").
		Where("status IN ?", revenueStatuses).
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// OrdersByStatus returns the order count per status
func (r *GormAdminReportRepository) OrdersByStatus(ctx context.Context, dateRange report.DateRange) ([]report.StatusCount, error) {
	var rows []report.StatusCount
	if err := applyCreatedRange(r.db.WithContext(ctx).Table("orders"), dateRange).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TopVendors ranks vendors by revenue from paid orders
func (r *GormAdminReportRepository) TopVendors(ctx context.Context, dateRange report.DateRange, limit int) ([]report.VendorRevenue, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []report.VendorRevenue
	query := r.db.WithContext(ctx).Table("order_details od").
		Select("p.vendor_id AS vendor_id, vp.shop_name AS shop_name, COALESCE(SUM(od.subtotal), 0) AS revenue, COUNT(DISTINCT od.order_id) AS orders").
		Joins("JOIN orders o ON o.id = od.order_id").
		Joins("JOIN products p ON p.id = od.product_id").
		Joins("JOIN vendor_profiles vp ON vp.user_id = p.vendor_id").
		Where("o.status IN ?", revenueStatuses)
	if !dateRange.From.IsZero() {
		query = query.Where("o.paid_at >= ?", dateRange.From)
	}
	if !dateRange.To.IsZero() {
		query = query.Where("o.paid_at < ?", dateRange.To)
	}
	if err := query.
		Group("p.vendor_id, vp.shop_name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SupportQueue summarizes how long pending support requests have waited
func (r *GormAdminReportRepository) SupportQueue(ctx context.Context) (*report.SupportQueueStats, error) {
	var stats report.SupportQueueStats
	if err := r.db.WithContext(ctx).Table("support_requests").
		Select("COUNT(*) AS pending_count, COALESCE(AVG(EXTRACT(EPOCH FROM (NOW() - created_at)) / 3600), 0) AS avg_wait_hours, COALESCE(MAX(EXTRACT(EPOCH FROM (NOW() - created_at)) / 3600), 0) AS max_wait_hours").
		Where("status = ?", "PENDING").
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// applyPaidRange bounds a query on the order's payment timestamp
func applyPaidRange(query *gorm.DB, dateRange report.DateRange) *gorm.DB {
	if !dateRange.From.IsZero() {
		query = query.Where("paid_at >= ?", dateRange.From)
	}
	if !dateRange.To.IsZero() {
		query = query.Where("paid_at < ?", dateRange.To)
	}
	return query
}

// applyCreatedRange bounds a query on the row's creation timestamp
func applyCreatedRange(query *gorm.DB, dateRange report.DateRange) *gorm.DB {
	if !dateRange.From.IsZero() {
		query = query.Where("created_at >= ?", dateRange.From)
	}
	if !dateRange.To.IsZero() {
		query = query.Where("created_at < ?", dateRange.To)
	}
	return query
}
