package service

import (
	"context"
	"time"

	"github.com/vendly/pos-api/internal/domain/entity"
	"github.com/vendly/pos-api/internal/domain/enum"
	"github.com/vendly/pos-api/internal/domain/repository"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{analyticsRepo: analyticsRepo}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalProducts     int64                         `json:"total_products"`
	TotalCustomers    int64                         `json:"total_customers"`
	TotalSales        int64                         `json:"total_sales"`
	PendingPayments   int64                         `json:"pending_payments"`
	LowStockCount     int64                         `json:"low_stock_count"`
	TotalRevenue      float64                       `json:"total_revenue"`
	MonthlyRevenue    float64                       `json:"monthly_revenue"`
	DailySalesData    []repository.DailyRevenueJSON `json:"daily_sales_data"`
	RecentSales       []entity.Sale                 `json:"recent_sales"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalProducts, err = s.analyticsRepo.CountProducts(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCustomers, err = s.analyticsRepo.CountCustomers(ctx); err != nil {
		return nil, err
	}
	if stats.TotalSales, err = s.analyticsRepo.CountSales(ctx); err != nil {
		return nil, err
	}
	if stats.PendingPayments, err = s.analyticsRepo.CountSalesByStatus(ctx, enum.SaleStatusPendingPayment); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.analyticsRepo.CountLowStockProducts(ctx); err != nil {
		return nil, err
	}

	totalRevenue, err := s.analyticsRepo.TotalReceived(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = float64(totalRevenue) / 100

	monthlyRevenue, err := s.analyticsRepo.TotalReceived(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	stats.MonthlyRevenue = float64(monthlyRevenue) / 100

	daily, err := s.analyticsRepo.DailyRevenue(ctx, 7)
	if err != nil {
		return nil, err
	}
	stats.DailySalesData = make([]repository.DailyRevenueJSON, 0, len(daily))
	for _, point := range daily {
		stats.DailySalesData = append(stats.DailySalesData, repository.DailyRevenueJSON{
			Date:    point.Date,
			Revenue: float64(point.Revenue) / 100,
		})
	}

	if stats.RecentSales, err = s.analyticsRepo.RecentSales(ctx, 5); err != nil {
		return nil, err
	}

	return stats, nil
}
