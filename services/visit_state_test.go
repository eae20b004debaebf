package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"vetcare-backend/models"
)

func TestDerivePaymentState(t *testing.T) {
	tests := []struct {
		name     string
		invoices []models.Invoice
		want     models.PaymentState
	}{
		{
			name:     "no invoices",
			invoices: nil,
			want:     models.PaymentStateNotPaid,
		},
		{
			name: "single unpaid invoice",
			invoices: []models.Invoice{
				{PaymentState: models.PaymentStateNotPaid},
			},
			want: models.PaymentStatePartial,
		},
		{
			name: "single paid invoice",
			invoices: []models.Invoice{
				{PaymentState: models.PaymentStatePaid},
			},
			want: models.PaymentStatePaid,
		},
		{
			name: "mixed invoices stay partial",
			invoices: []models.Invoice{
				{PaymentState: models.PaymentStatePaid},
				{PaymentState: models.PaymentStatePartial},
			},
			want: models.PaymentStatePartial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePaymentState(tt.invoices))
		})
	}
}

func TestDeriveVisitState(t *testing.T) {
	tests := []struct {
		name         string
		current      models.VisitState
		paymentState models.PaymentState
		hasInvoices  bool
		want         models.VisitState
	}{
		{"cancel is terminal", models.VisitStateCancel, models.PaymentStatePaid, true, models.VisitStateCancel},
		{"paid goes done", models.VisitStateConfirmed, models.PaymentStatePaid, true, models.VisitStateDone},
		{"invoiced but unpaid goes confirmed", models.VisitStateDraft, models.PaymentStatePartial, true, models.VisitStateConfirmed},
		{"no invoices stays draft", models.VisitStateDraft, models.PaymentStateNotPaid, false, models.VisitStateDraft},
		{"done reverts to confirmed if no longer paid", models.VisitStateDone, models.PaymentStatePartial, true, models.VisitStateConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveVisitState(tt.current, tt.paymentState, tt.hasInvoices))
		})
	}
}

func TestCheckDiscountConflict(t *testing.T) {
	visit := &models.Visit{
		DiscountPercent: decimal.RequireFromString("10"),
		DiscountFixed:   decimal.RequireFromString("5"),
	}
	err := CheckDiscountConflict(visit)
	assert.True(t, IsValidationError(err))

	visit.DiscountFixed = decimal.Zero
	assert.NoError(t, CheckDiscountConflict(visit))
}

func TestGuardVisitEdit(t *testing.T) {
	draft := &models.Visit{Reference: "VIS-20260101-AAAAAA", State: models.VisitStateDraft}
	assert.NoError(t, GuardVisitEdit(draft, []string{"treatment_charge"}))

	confirmed := &models.Visit{Reference: "VIS-20260101-BBBBBB", State: models.VisitStateConfirmed}
	assert.NoError(t, GuardVisitEdit(confirmed, []string{"notes"}))

	err := GuardVisitEdit(confirmed, []string{"discount_percent"})
	assert.True(t, IsValidationError(err))

	done := &models.Visit{Reference: "VIS-20260101-CCCCCC", State: models.VisitStateDone}
	err = GuardVisitEdit(done, []string{"treatment_charge"})
	assert.True(t, IsValidationError(err))
}
