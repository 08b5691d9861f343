package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendly/pos-api/internal/domain/enum"
)

func TestFlexibleIntAcceptsNumberAndString(t *testing.T) {
	var item SaleItemRequest

	require.NoError(t, json.Unmarshal([]byte(`{"quantity": 3}`), &item))
	assert.Equal(t, FlexibleInt(3), item.Quantity)

	require.NoError(t, json.Unmarshal([]byte(`{"quantity": "7"}`), &item))
	assert.Equal(t, FlexibleInt(7), item.Quantity)

	require.NoError(t, json.Unmarshal([]byte(`{"quantity": "2.0"}`), &item))
	assert.Equal(t, FlexibleInt(2), item.Quantity)

	require.NoError(t, json.Unmarshal([]byte(`{"quantity": null}`), &item))
	assert.Equal(t, FlexibleInt(0), item.Quantity)

	assert.Error(t, json.Unmarshal([]byte(`{"quantity": "abc"}`), &item))
}

func TestFlexibleIntRejectsFractionalValues(t *testing.T) {
	// Fractional quantities must fail loudly, not round down to a smaller sale
	var item SaleItemRequest

	assert.Error(t, json.Unmarshal([]byte(`{"quantity": 2.7}`), &item))
	assert.Error(t, json.Unmarshal([]byte(`{"quantity": "2.7"}`), &item))
	assert.Error(t, json.Unmarshal([]byte(`{"quantity": 0.5}`), &item))
}

func TestCreateSaleRequestToInput(t *testing.T) {
	payload := `{
		"sub_total": 120.50,
		"total_amount": 120.50,
		"amount_received": 0,
		"items": [
			{"quantity": "2", "unit_price": 60.25, "total": 120.50}
		],
		"payments": [
			{"mode": "UPI", "amount": 50}
		]
	}`

	var req CreateSaleRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	input := req.ToInput()
	require.Len(t, input.Items, 1)
	assert.Equal(t, 2, input.Items[0].Quantity)
	assert.Equal(t, 60.25, input.Items[0].UnitPrice)
	require.Len(t, input.Payments, 1)
	assert.Equal(t, enum.PaymentModeUPI, input.Payments[0].Mode)
	assert.Equal(t, 120.50, input.TotalAmount)
}
