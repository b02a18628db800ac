package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateRange bounds an aggregation window. A zero From or To leaves that
// side unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// MonthlyRevenue is one month's revenue bucket
type MonthlyRevenue struct {
	Year    int             `gorm:"column:year"`
	Month   int             `gorm:"column:month"`
	Revenue decimal.Decimal `gorm:"column:revenue"`
	Orders  int64           `gorm:"column:orders"`
}

// StatusCount is the number of orders in one status
type StatusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

// VendorRevenue ranks a vendor by delivered revenue
type VendorRevenue struct {
	VendorID uuid.UUID       `gorm:"column:vendor_id"`
	ShopName string          `gorm:"column:shop_name"`
	Revenue  decimal.Decimal `gorm:"column:revenue"`
	Orders   int64           `gorm:"column:orders"`
}

// ProductSales ranks a product by quantity sold
type ProductSales struct {
	ProductID    uuid.UUID       `gorm:"column:product_id"`
	ProductName  string          `gorm:"column:product_name"`
	QuantitySold int64           `gorm:"column:quantity_sold"`
	Revenue      decimal.Decimal `gorm:"column:revenue"`
}

// SupportQueueStats summarizes how long pending support requests have
// been waiting
type SupportQueueStats struct {
	PendingCount int64   `gorm:"column:pending_count"`
	AvgWaitHours float64 `gorm:"column:avg_wait_hours"`
	MaxWaitHours float64 `gorm:"column:max_wait_hours"`
}

// AdminSummary is the top-level admin dashboard payload
type AdminSummary struct {
	TotalRevenue   decimal.Decimal
	TotalOrders    int64
	TotalUsers     int64
	TotalVendors   int64
	PendingCashout int64
}

// VendorSummary is the top-level vendor dashboard payload
type VendorSummary struct {
	TotalRevenue decimal.Decimal
	TotalOrders  int64
	ProductCount int64
	LowStock     int64
}

// AdminReportRepository aggregates platform-wide dashboard figures
type AdminReportRepository interface {
	Summary(ctx context.Context, r DateRange) (*AdminSummary, error)
	RevenueByMonth(ctx context.Context, r DateRange) ([]MonthlyRevenue, error)
	OrdersByStatus(ctx context.Context, r DateRange) ([]StatusCount, error)
	TopVendors(ctx context.Context, r DateRange, limit int) ([]VendorRevenue, error)
	SupportQueue(ctx context.Context) (*SupportQueueStats, error)
}

// VendorReportRepository aggregates dashboard figures scoped to one vendor
type VendorReportRepository interface {
	Summary(ctx context.Context, vendorID uuid.UUID, r DateRange) (*VendorSummary, error)
	RevenueByMonth(ctx context.Context, vendorID uuid.UUID, r DateRange) ([]MonthlyRevenue, error)
	TopProducts(ctx context.Context, vendorID uuid.UUID, r DateRange, limit int) ([]ProductSales, error)
}
