package persistence

import (
	"context"

	"github.com/agrimarket/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormVendorReportRepository implements VendorReportRepository using GORM
type GormVendorReportRepository struct {
	db *gorm.DB
}

var _ report.VendorReportRepository = (*GormVendorReportRepository)(nil)

// NewGormVendorReportRepository creates a new GormVendorReportRepository
func NewGormVendorReportRepository(db *gorm.DB) *GormVendorReportRepository {
	return &GormVendorReportRepository{db: db}
}

// Summary returns one vendor's dashboard figures
func (r *GormVendorReportRepository) Summary(ctx context.Context, vendorID uuid.UUID, dateRange report.DateRange) (*report.VendorSummary, error) {
	var totalRevenue decimal.Decimal
	if err := r.vendorSales(ctx, vendorID, dateRange).
		Select("COALESCE(SUM(od.subtotal), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return nil, err
	}

	var totalOrders int64
	if err := r.vendorSales(ctx, vendorID, dateRange).
		Distinct("od.order_id").
		Count(&totalOrders).Error; err != nil {
		return nil, err
	}

	var productCount int64
	if err := r.db.WithContext(ctx).Table("products").
		Where("vendor_id = ?", vendorID).
		Count(&productCount).Error; err != nil {
		return nil, err
	}

	var lowStock int64
	if err := r.db.WithContext(ctx).Table("products").
		Where("vendor_id = ? AND stock_quantity <= ?", vendorID, 10).
		Count(&lowStock).Error; err != nil {
		return nil, err
	}

	return &report.VendorSummary{
		TotalRevenue: totalRevenue,
		TotalOrders:  totalOrders,
		ProductCount: productCount,
		LowStock:     lowStock,
	}, nil
}

// RevenueByMonth returns date-bucketed revenue rollups scoped to one vendor
func (r *GormVendorReportRepository) RevenueByMonth(ctx context.Context, vendorID uuid.UUID, dateRange report.DateRange) ([]report.MonthlyRevenue, error) {
	var rows []report.MonthlyRevenue
	if err := r.vendorSales(ctx, vendorID, dateRange).
		Select("EXTRACT(YEAR FROM o.paid_at)::int AS year, EXTRACT(MONTH FROM o.paid_at)::int AS month, COALESCE(SUM(od.subtotal), 0) AS revenue, COUNT(DISTINCT od.order_id) AS orders").
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProducts ranks one vendor's products by quantity sold
func (r *GormVendorReportRepository) TopProducts(ctx context.Context, vendorID uuid.UUID, dateRange report.DateRange, limit int) ([]report.ProductSales, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []report.ProductSales
	if err := r.vendorSales(ctx, vendorID, dateRange).
		Select("od.product_id AS product_id, od.product_name AS product_name, COALESCE(SUM(od.quantity), 0) AS quantity_sold, COALESCE(SUM(od.subtotal), 0) AS revenue").
		Group("od.product_id, od.product_name").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// vendorSales builds the base query joining a vendor's order lines to
// revenue-bearing orders
func (r *GormVendorReportRepository) vendorSales(ctx context.Context, vendorID uuid.UUID, dateRange report.DateRange) *gorm.DB {
	query := r.db.WithContext(ctx).Table("order_details od").
		Joins("JOIN orders o ON o.id = od.order_id").
		Joins("JOIN products p ON p.id = od.product_id").
		Where("p.vendor_id = ?", vendorID).
		Where("o.status IN ?", revenueStatuses)
	if !dateRange.From.IsZero() {
		query = query.Where("o.paid_at >= ?", dateRange.From)
	}
	if !dateRange.To.IsZero() {
		query = query.Where("o.paid_at < ?", dateRange.To)
	}
	return query
}
