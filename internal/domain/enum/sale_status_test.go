package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSaleStatus(t *testing.T) {
	tests := []struct {
		name           string
		totalAmount    int64
		amountReceived int64
		itemCount      int
		want           SaleStatus
	}{
		{"zero total no items is a completed free sale", 0, 0, 0, SaleStatusCompleted},
		{"negative total no items is completed", -100, 0, 0, SaleStatusCompleted},
		{"fully paid", 10000, 10000, 2, SaleStatusCompleted},
		{"overpaid", 10000, 12000, 2, SaleStatusCompleted},
		{"partially paid", 10000, 4000, 2, SaleStatusPartiallyPaid},
		{"nothing paid", 10000, 0, 2, SaleStatusPendingPayment},
		{"negative received", 10000, -500, 2, SaleStatusPendingPayment},
		{"zero total with items is fully paid", 0, 0, 1, SaleStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSaleStatus(tt.totalAmount, tt.amountReceived, tt.itemCount))
		})
	}
}

func TestDeriveSaleStatusTotal(t *testing.T) {
	// Every input combination must land in one of the three creation states.
	for _, total := range []int64{-100, 0, 500, 10000} {
		for _, received := range []int64{-100, 0, 250, 10000, 20000} {
			for _, items := range []int{0, 1, 3} {
				got := DeriveSaleStatus(total, received, items)
				assert.Contains(t,
					[]SaleStatus{SaleStatusPendingPayment, SaleStatusPartiallyPaid, SaleStatusCompleted},
					got, "total=%d received=%d items=%d", total, received, items)
			}
		}
	}
}

func TestAfterPayment(t *testing.T) {
	assert.Equal(t, SaleStatusCompleted, SaleStatusPendingPayment.AfterPayment(10000, 10000))
	assert.Equal(t, SaleStatusCompleted, SaleStatusPartiallyPaid.AfterPayment(10000, 15000))
	assert.Equal(t, SaleStatusPartiallyPaid, SaleStatusPendingPayment.AfterPayment(10000, 5000))
	assert.Equal(t, SaleStatusPendingPayment, SaleStatusPendingPayment.AfterPayment(10000, 0))
	assert.Equal(t, SaleStatusPendingPayment, SaleStatusPartiallyPaid.AfterPayment(10000, -100))
}

func TestTransitionGuards(t *testing.T) {
	assert.True(t, SaleStatusPendingPayment.CanAcceptPayment())
	assert.True(t, SaleStatusPartiallyPaid.CanAcceptPayment())
	assert.False(t, SaleStatusCompleted.CanAcceptPayment())
	assert.False(t, SaleStatusReturned.CanAcceptPayment())
	assert.False(t, SaleStatusCancelled.CanAcceptPayment())

	assert.True(t, SaleStatusPendingPayment.CanReturn())
	assert.True(t, SaleStatusPartiallyPaid.CanReturn())
	assert.True(t, SaleStatusCompleted.CanReturn())
	assert.False(t, SaleStatusReturned.CanReturn())
	assert.False(t, SaleStatusCancelled.CanReturn())

	assert.True(t, SaleStatusPendingPayment.CanCancel())
	assert.True(t, SaleStatusPartiallyPaid.CanCancel())
	assert.False(t, SaleStatusCompleted.CanCancel())
	assert.False(t, SaleStatusReturned.CanCancel())
	assert.False(t, SaleStatusCancelled.CanCancel())
}

func TestSaleStatusJSON(t *testing.T) {
	data, err := json.Marshal(SaleStatusPartiallyPaid)
	require.NoError(t, err)
	assert.Equal(t, `"PartiallyPaid"`, string(data))

	var fromString SaleStatus
	require.NoError(t, json.Unmarshal([]byte(`"Returned"`), &fromString))
	assert.Equal(t, SaleStatusReturned, fromString)

	var fromInt SaleStatus
	require.NoError(t, json.Unmarshal([]byte(`2`), &fromInt))
	assert.Equal(t, SaleStatusCompleted, fromInt)

	var unknown SaleStatus
	require.NoError(t, json.Unmarshal([]byte(`"NotAStatus"`), &unknown))
	assert.Equal(t, SaleStatusUnknown, unknown)
}

func TestSaleStatusString(t *testing.T) {
	assert.Equal(t, "PendingPayment", SaleStatusPendingPayment.String())
	assert.Equal(t, "Cancelled", SaleStatusCancelled.String())
	assert.Equal(t, "Unknown", SaleStatus(42).String())
	assert.Equal(t, "Unknown", SaleStatus(-1).String())
}
