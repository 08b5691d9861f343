package service

import (
	"context"

	"github.com/vendly/pos-api/internal/domain/entity"
	"github.com/vendly/pos-api/internal/domain/repository"
)

// SettingsService handles store settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings retrieves store settings, creating defaults if none exist
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.StoreSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = &entity.StoreSettings{
			StoreName:      "My Store",
			Currency:       "INR",
			Timezone:       "Asia/Kolkata",
			DateFormat:     "DD/MM/YYYY",
			LowStockAlerts: true,
			SaleAlerts:     true,
		}
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating settings
type UpdateSettingsInput struct {
	StoreName         *string
	Currency          *string
	Timezone          *string
	DateFormat        *string
	DefaultTaxPercent *int
	ReceiptFooter     *string
	LowStockAlerts    *bool
	SaleAlerts        *bool
}

// UpdateSettings updates store settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.StoreSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	if input.StoreName != nil {
		settings.StoreName = *input.StoreName
	}
	if input.Currency != nil {
		settings.Currency = *input.Currency
	}
	if input.Timezone != nil {
		settings.Timezone = *input.Timezone
	}
	if input.DateFormat != nil {
		settings.DateFormat = *input.DateFormat
	}
	if input.DefaultTaxPercent != nil {
		settings.DefaultTaxPercent = *input.DefaultTaxPercent
	}
	if input.ReceiptFooter != nil {
		settings.ReceiptFooter = *input.ReceiptFooter
	}
	if input.LowStockAlerts != nil {
		settings.LowStockAlerts = *input.LowStockAlerts
	}
	if input.SaleAlerts != nil {
		settings.SaleAlerts = *input.SaleAlerts
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
