package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus int

const (
	SaleStatusPendingPayment SaleStatus = 0
	SaleStatusPartiallyPaid  SaleStatus = 1
	SaleStatusCompleted      SaleStatus = 2
	SaleStatusReturned       SaleStatus = 3
	SaleStatusCancelled      SaleStatus = 4
	SaleStatusUnknown        SaleStatus = 5
)

var saleStatusNames = [...]string{
	"PendingPayment",
	"PartiallyPaid",
	"Completed",
	"Returned",
	"Cancelled",
	"Unknown",
}

func (s SaleStatus) String() string {
	if s < SaleStatusPendingPayment || s > SaleStatusUnknown {
		return "Unknown"
	}
	return saleStatusNames[s]
}

// DeriveSaleStatus returns the initial status of a newly created sale.
// Rules are evaluated in order, first match wins:
//  1. zero-value sale with no line items is Completed (free transaction)
//  2. fully paid is Completed
//  3. partially paid is PartiallyPaid
//  4. everything else is PendingPayment
func DeriveSaleStatus(totalAmount, amountReceived int64, itemCount int) SaleStatus {
	switch {
	case totalAmount <= 0 && itemCount == 0:
		return SaleStatusCompleted
	case amountReceived >= totalAmount:
		return SaleStatusCompleted
	case amountReceived > 0:
		return SaleStatusPartiallyPaid
	default:
		return SaleStatusPendingPayment
	}
}

// AfterPayment returns the status of a sale after its received amount changed.
func (s SaleStatus) AfterPayment(totalAmount, amountReceived int64) SaleStatus {
	switch {
	case amountReceived >= totalAmount:
		return SaleStatusCompleted
	case amountReceived <= 0:
		return SaleStatusPendingPayment
	default:
		return SaleStatusPartiallyPaid
	}
}

// CanAcceptPayment reports whether a sale in this state may take further payments.
func (s SaleStatus) CanAcceptPayment() bool {
	return s == SaleStatusPendingPayment || s == SaleStatusPartiallyPaid
}

// CanReturn reports whether a sale in this state may be returned.
func (s SaleStatus) CanReturn() bool {
	return s == SaleStatusPendingPayment || s == SaleStatusPartiallyPaid || s == SaleStatusCompleted
}

// CanCancel reports whether a sale in this state may be cancelled.
// Completed sales must go through a return instead.
func (s SaleStatus) CanCancel() bool {
	return s == SaleStatusPendingPayment || s == SaleStatusPartiallyPaid
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	*s = SaleStatusUnknown
	for i, name := range saleStatusNames {
		if name == str {
			*s = SaleStatus(i)
			break
		}
	}
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusUnknown
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	}
	return nil
}
