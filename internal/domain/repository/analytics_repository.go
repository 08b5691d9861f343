package repository

import (
	"context"
	"time"

	"github.com/vendly/pos-api/internal/domain/entity"
	"github.com/vendly/pos-api/internal/domain/enum"
)

// DailyRevenuePoint is one day of received revenue, in cents
type DailyRevenuePoint struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

// DailyRevenueJSON is a DailyRevenuePoint with the revenue converted to
// decimal form for API responses
type DailyRevenueJSON struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// AnalyticsRepository provides aggregate queries for the dashboard
type AnalyticsRepository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	CountSales(ctx context.Context) (int64, error)
	CountSalesByStatus(ctx context.Context, status enum.SaleStatus) (int64, error)
	CountLowStockProducts(ctx context.Context) (int64, error)

	// TotalReceived sums amount_received over sales created since the given
	// time, excluding returned and cancelled sales. A zero time means all time.
	TotalReceived(ctx context.Context, since time.Time) (int64, error)
	DailyRevenue(ctx context.Context, days int) ([]DailyRevenuePoint, error)
	RecentSales(ctx context.Context, limit int) ([]entity.Sale, error)
}
