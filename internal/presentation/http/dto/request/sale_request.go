package request

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vendly/pos-api/internal/application/service"
	"github.com/vendly/pos-api/internal/domain/enum"
)

// FlexibleInt accepts a JSON number or a numeric string. POS clients send
// quantities in both shapes. Fractional values are rejected rather than
// truncated; a quantity of "2.7" is a client bug, not two units.
type FlexibleInt int

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) {
		return fmt.Errorf("invalid quantity %q", s)
	}
	*f = FlexibleInt(int(v))
	return nil
}

// SaleItemRequest represents one line item of a checkout request
type SaleItemRequest struct {
	ProductID *uuid.UUID  `json:"product_id"`
	Quantity  FlexibleInt `json:"quantity"`
	UnitPrice float64     `json:"unit_price"`
	Discount  float64     `json:"discount"`
	Tax       float64     `json:"tax"`
	Total     float64     `json:"total"`
}

// SalePaymentRequest represents one payment tendered at checkout
type SalePaymentRequest struct {
	Mode   enum.PaymentMode `json:"mode"`
	Amount float64          `json:"amount"`
}

// CreateSaleRequest represents the checkout payload
type CreateSaleRequest struct {
	CustomerID     *uuid.UUID           `json:"customer_id"`
	Notes          *string              `json:"notes"`
	SubTotal       float64              `json:"sub_total"`
	TotalDiscount  float64              `json:"total_discount"`
	TotalTax       float64              `json:"total_tax"`
	RoundOff       float64              `json:"round_off"`
	TotalAmount    float64              `json:"total_amount"`
	AmountReceived float64              `json:"amount_received"`
	ChangeGiven    float64              `json:"change_given"`
	Items          []SaleItemRequest    `json:"items" binding:"required"`
	Payments       []SalePaymentRequest `json:"payments"`
}

// ToInput converts the request to a service input
func (r *CreateSaleRequest) ToInput() *service.CreateSaleInput {
	items := make([]service.SaleItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = service.SaleItemInput{
			ProductID: item.ProductID,
			Quantity:  int(item.Quantity),
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Tax:       item.Tax,
			Total:     item.Total,
		}
	}

	payments := make([]service.SalePaymentInput, len(r.Payments))
	for i, p := range r.Payments {
		payments[i] = service.SalePaymentInput{
			Mode:   p.Mode,
			Amount: p.Amount,
		}
	}

	return &service.CreateSaleInput{
		CustomerID:     r.CustomerID,
		Notes:          r.Notes,
		SubTotal:       r.SubTotal,
		TotalDiscount:  r.TotalDiscount,
		TotalTax:       r.TotalTax,
		RoundOff:       r.RoundOff,
		TotalAmount:    r.TotalAmount,
		AmountReceived: r.AmountReceived,
		ChangeGiven:    r.ChangeGiven,
		Items:          items,
		Payments:       payments,
	}
}

// AddPaymentRequest represents a payment against an existing sale
type AddPaymentRequest struct {
	Mode   enum.PaymentMode `json:"mode"`
	Amount float64          `json:"amount" binding:"required"`
}
