package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vendly/pos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Sale represents one point-of-sale transaction
type Sale struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID   *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName string          `gorm:"size:255" json:"customer_name"`
	InvoiceNo    string          `gorm:"size:100;unique;not null" json:"invoice_no"`
	SaleDate     time.Time       `gorm:"not null" json:"sale_date"`
	Status       enum.SaleStatus `gorm:"default:0" json:"status"`

	SubTotal       int64 `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TotalDiscount  int64 `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TotalTax       int64 `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	RoundOff       int64 `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TotalAmount    int64 `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	AmountReceived int64 `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ChangeGiven    int64 `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON

	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SaleItem    `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	Payments []SalePayment `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		SubTotal       float64 `json:"sub_total"`
		TotalDiscount  float64 `json:"total_discount"`
		TotalTax       float64 `json:"total_tax"`
		RoundOff       float64 `json:"round_off"`
		TotalAmount    float64 `json:"total_amount"`
		AmountReceived float64 `json:"amount_received"`
		ChangeGiven    float64 `json:"change_given"`
		Balance        float64 `json:"balance"`
	}{
		Alias:          Alias(s),
		SubTotal:       float64(s.SubTotal) / 100,
		TotalDiscount:  float64(s.TotalDiscount) / 100,
		TotalTax:       float64(s.TotalTax) / 100,
		RoundOff:       float64(s.RoundOff) / 100,
		TotalAmount:    float64(s.TotalAmount) / 100,
		AmountReceived: float64(s.AmountReceived) / 100,
		ChangeGiven:    float64(s.ChangeGiven) / 100,
		Balance:        float64(s.Balance()) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// Balance returns the outstanding amount in cents. Never negative:
// an overpaid sale has a zero balance, the excess is change given.
func (s *Sale) Balance() int64 {
	if s.AmountReceived >= s.TotalAmount {
		return 0
	}
	return s.TotalAmount - s.AmountReceived
}

// SaleItem represents a line item in a sale.
// ProductID is nullable: historical rows survive product deletion.
type SaleItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   *uuid.UUID     `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ProductName string         `gorm:"size:255" json:"product_name"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Discount    int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Tax         int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total       int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sale    Sale     `gorm:"foreignKey:SaleID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Discount  float64 `json:"discount"`
		Tax       float64 `json:"tax"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(si),
		UnitPrice: float64(si.UnitPrice) / 100,
		Discount:  float64(si.Discount) / 100,
		Tax:       float64(si.Tax) / 100,
		Total:     float64(si.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// SalePayment represents one entry in a sale's append-only payment list
type SalePayment struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"sale_id"`
	Mode      enum.PaymentMode `gorm:"default:0" json:"mode"`
	Amount    int64            `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	PaidAt    time.Time        `gorm:"not null" json:"paid_at"`
	CreatedAt time.Time        `json:"created_at"`

	// Relationships
	Sale Sale `gorm:"foreignKey:SaleID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (sp SalePayment) MarshalJSON() ([]byte, error) {
	type Alias SalePayment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(sp),
		Amount: float64(sp.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale payment
func (sp *SalePayment) BeforeCreate(tx *gorm.DB) error {
	if sp.ID == uuid.Nil {
		sp.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SalePayment model
func (SalePayment) TableName() string {
	return "sale_payments"
}
