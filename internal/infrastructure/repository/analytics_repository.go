package repository

import (
	"context"
	"time"

	"github.com/vendly/pos-api/internal/domain/entity"
	"github.com/vendly/pos-api/internal/domain/enum"
	domainRepo "github.com/vendly/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountSales(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountSalesByStatus(ctx context.Context, status enum.SaleStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountLowStockProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("stock <= stock_alert").
		Count(&count).Error
	return count, err
}

// TotalReceived sums money actually taken in. Returned and cancelled sales are
// excluded so the figure reflects revenue the store keeps.
func (r *analyticsRepository) TotalReceived(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	query := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("status NOT IN ?", []enum.SaleStatus{enum.SaleStatusReturned, enum.SaleStatusCancelled})
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	err := query.Select("COALESCE(SUM(amount_received), 0)").Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) DailyRevenue(ctx context.Context, days int) ([]domainRepo.DailyRevenuePoint, error) {
	var points []domainRepo.DailyRevenuePoint
	since := time.Now().AddDate(0, 0, -days)

	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') AS date, COALESCE(SUM(amount_received), 0) AS revenue").
		Where("created_at >= ?", since).
		Where("status NOT IN ?", []enum.SaleStatus{enum.SaleStatusReturned, enum.SaleStatusCancelled}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date ASC").
		Scan(&points).Error

	return points, err
}

func (r *analyticsRepository) RecentSales(ctx context.Context, limit int) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}
