package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMode represents how a payment was made
type PaymentMode int

const (
	PaymentModeCash  PaymentMode = 0
	PaymentModeCard  PaymentMode = 1
	PaymentModeUPI   PaymentMode = 2
	PaymentModeBank  PaymentMode = 3
	PaymentModeOther PaymentMode = 4
)

var paymentModeNames = [...]string{"Cash", "Card", "UPI", "Bank", "Other"}

func (m PaymentMode) String() string {
	if m < PaymentModeCash || m > PaymentModeOther {
		return "Other"
	}
	return paymentModeNames[m]
}

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMode(i)
		return nil
	}
	*m = PaymentModeOther
	for i, name := range paymentModeNames {
		if name == str {
			*m = PaymentMode(i)
			break
		}
	}
	return nil
}

func (m PaymentMode) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMode) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentModeCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMode(v)
	case int:
		*m = PaymentMode(v)
	}
	return nil
}
