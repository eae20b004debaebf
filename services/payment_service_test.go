package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetcare-backend/models"
)

func TestJournalTypeForMethod(t *testing.T) {
	jt, err := journalTypeForMethod("cash")
	assert.NoError(t, err)
	assert.Equal(t, models.JournalTypeCash, jt)

	jt, err = journalTypeForMethod("bank")
	assert.NoError(t, err)
	assert.Equal(t, models.JournalTypeBank, jt)

	_, err = journalTypeForMethod("card")
	assert.True(t, IsValidationError(err))
}

func TestRegisterPaymentRejectsBadInput(t *testing.T) {
	s := &PaymentService{}

	_, err := s.RegisterPayment(uuid.New(), decimal.Zero, "cash")
	assert.True(t, IsPaymentError(err))

	_, err = s.RegisterPayment(uuid.New(), decimal.RequireFromString("-5.00"), "cash")
	assert.True(t, IsPaymentError(err))

	_, err = s.RegisterPayment(uuid.New(), decimal.RequireFromString("10.00"), "cheque")
	assert.True(t, IsValidationError(err))
}

func TestValidatePaymentVisit(t *testing.T) {
	contactID := uuid.New()
	owner := &models.Owner{ContactID: &contactID}

	t.Run("needs a posted invoice", func(t *testing.T) {
		visit := &models.Visit{
			Owner:    owner,
			Invoices: []models.Invoice{{State: models.InvoiceStateDraft}},
		}
		assert.True(t, IsPaymentError(validatePaymentVisit(visit)))
	})

	t.Run("needs a linked customer record", func(t *testing.T) {
		visit := &models.Visit{
			Owner:    &models.Owner{},
			Invoices: []models.Invoice{{State: models.InvoiceStatePosted}},
		}
		assert.True(t, IsPaymentError(validatePaymentVisit(visit)))
	})

	t.Run("posted invoice with a contact passes", func(t *testing.T) {
		visit := &models.Visit{
			Owner:    owner,
			Invoices: []models.Invoice{{State: models.InvoiceStatePosted}},
		}
		assert.NoError(t, validatePaymentVisit(visit))
	})
}

func TestValidatePaymentAmount(t *testing.T) {
	outstanding := []models.Invoice{
		{AmountResidual: decimal.RequireFromString("60.00")},
		{AmountResidual: decimal.RequireFromString("30.00")},
	}

	assert.True(t, IsPaymentError(validatePaymentAmount(nil, decimal.RequireFromString("10.00"))))
	assert.True(t, IsPaymentError(validatePaymentAmount(outstanding, decimal.RequireFromString("120.00"))))
	assert.NoError(t, validatePaymentAmount(outstanding, decimal.RequireFromString("90.00")))
	assert.NoError(t, validatePaymentAmount(outstanding, decimal.RequireFromString("30.00")))
}

// A partial payment leaves the invoice partial and the visit confirmed; paying
// off the residual flips the invoice to paid and the visit to done.
func TestPaymentStateProgression(t *testing.T) {
	invoice := models.Invoice{
		ID:             uuid.New(),
		State:          models.InvoiceStatePosted,
		PaymentState:   models.PaymentStateNotPaid,
		AmountTotal:    decimal.RequireFromString("90.00"),
		AmountResidual: decimal.RequireFromString("90.00"),
	}

	settle := func(amount string) {
		allocations, remaining := AllocateOldestFirst(
			decimal.RequireFromString(amount), []models.Invoice{invoice})
		require.True(t, remaining.IsZero())
		require.Len(t, allocations, 1)
		invoice.AmountResidual = allocations[0].ResidualAfter
		if invoice.AmountResidual.IsZero() {
			invoice.PaymentState = models.PaymentStatePaid
		} else {
			invoice.PaymentState = models.PaymentStatePartial
		}
	}

	settle("30.00")
	assert.Equal(t, models.PaymentStatePartial, invoice.PaymentState)
	assert.True(t, invoice.AmountResidual.Equal(decimal.RequireFromString("60.00")))
	paymentState := DerivePaymentState([]models.Invoice{invoice})
	assert.Equal(t, models.PaymentStatePartial, paymentState)
	assert.Equal(t, models.VisitStateConfirmed,
		DeriveVisitState(models.VisitStateConfirmed, paymentState, true))

	settle("60.00")
	assert.Equal(t, models.PaymentStatePaid, invoice.PaymentState)
	assert.True(t, invoice.AmountResidual.IsZero())
	paymentState = DerivePaymentState([]models.Invoice{invoice})
	assert.Equal(t, models.PaymentStatePaid, paymentState)
	assert.Equal(t, models.VisitStateDone,
		DeriveVisitState(models.VisitStateConfirmed, paymentState, true))
}
