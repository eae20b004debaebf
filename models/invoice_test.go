package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceLineComputeAmount(t *testing.T) {
	line := InvoiceLine{Quantity: d("2"), UnitPrice: d("40.00")}
	line.ComputeAmount()
	assert.True(t, line.Amount.Equal(d("80.00")))

	line.DiscountPercent = d("10")
	line.ComputeAmount()
	assert.True(t, line.Amount.Equal(d("72.00")))

	// Negative price lines (fixed discounts) pass through untouched
	discount := InvoiceLine{Quantity: d("1"), UnitPrice: d("-15.00")}
	discount.ComputeAmount()
	assert.True(t, discount.Amount.Equal(d("-15.00")))
}

func TestInvoiceAmountPaid(t *testing.T) {
	invoice := Invoice{
		AmountTotal:    d("90.00"),
		AmountResidual: d("30.00"),
	}
	assert.True(t, invoice.AmountPaid().Equal(d("60.00")))
}

func TestInvoiceIsOutstanding(t *testing.T) {
	tests := []struct {
		name         string
		state        InvoiceState
		paymentState PaymentState
		want         bool
	}{
		{"posted not paid", InvoiceStatePosted, PaymentStateNotPaid, true},
		{"posted partial", InvoiceStatePosted, PaymentStatePartial, true},
		{"posted paid", InvoiceStatePosted, PaymentStatePaid, false},
		{"draft not paid", InvoiceStateDraft, PaymentStateNotPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice := Invoice{State: tt.state, PaymentState: tt.paymentState}
			assert.Equal(t, tt.want, invoice.IsOutstanding())
		})
	}
}
