package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreSettings holds the single row of store-wide configuration
type StoreSettings struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// General settings
	StoreName  string `gorm:"size:255;default:'My Store'" json:"store_name"`
	Currency   string `gorm:"size:10;default:'INR'" json:"currency"`
	Timezone   string `gorm:"size:50;default:'Asia/Kolkata'" json:"timezone"`
	DateFormat string `gorm:"size:20;default:'DD/MM/YYYY'" json:"date_format"`

	// Sales settings
	DefaultTaxPercent int    `gorm:"default:0" json:"default_tax_percent"`
	ReceiptFooter     string `gorm:"size:255" json:"receipt_footer"`

	// Alert settings
	LowStockAlerts bool `gorm:"default:true" json:"low_stock_alerts"`
	SaleAlerts     bool `gorm:"default:true" json:"sale_alerts"`
}

// BeforeCreate generates a UUID before creating settings
func (s *StoreSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}
