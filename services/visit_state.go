package services

import (
	"gorm.io/gorm"

	"vetcare-backend/models"
)

// DerivePaymentState folds the payment states of a visit's invoices into the
// visit-level one: not_paid without invoices, paid only when every invoice is
// paid, partial otherwise.
func DerivePaymentState(invoices []models.Invoice) models.PaymentState {
	if len(invoices) == 0 {
		return models.PaymentStateNotPaid
	}
	allPaid := true
	for _, inv := range invoices {
		if inv.PaymentState != models.PaymentStatePaid {
			allPaid = false
			break
		}
	}
	if allPaid {
		return models.PaymentStatePaid
	}
	return models.PaymentStatePartial
}

// DeriveVisitState maps {payment state, invoice existence} onto the visit
// lifecycle. Cancel is terminal and never exited here.
func DeriveVisitState(current models.VisitState, paymentState models.PaymentState, hasInvoices bool) models.VisitState {
	if current == models.VisitStateCancel {
		return models.VisitStateCancel
	}
	if paymentState == models.PaymentStatePaid {
		return models.VisitStateDone
	}
	if hasInvoices {
		return models.VisitStateConfirmed
	}
	return models.VisitStateDraft
}

// RecomputeVisitState reloads the visit's invoices and writes back the derived
// payment state and lifecycle state. Idempotent; called after every invoice or
// payment event.
func RecomputeVisitState(tx *gorm.DB, visit *models.Visit) error {
	var invoices []models.Invoice
	if err := tx.Where("visit_id = ?", visit.ID).Find(&invoices).Error; err != nil {
		return err
	}

	paymentState := DerivePaymentState(invoices)
	state := DeriveVisitState(visit.State, paymentState, len(invoices) > 0)

	if paymentState == visit.PaymentState && state == visit.State {
		return nil
	}
	visit.PaymentState = paymentState
	visit.State = state

	return tx.Model(&models.Visit{}).Where("id = ?", visit.ID).
		Updates(map[string]interface{}{
			"payment_state": paymentState,
			"state":         state,
		}).Error
}

// CheckDiscountConflict enforces that percentage and fixed discount are never
// both set.
func CheckDiscountConflict(visit *models.Visit) error {
	if visit.DiscountPercent.IsPositive() && visit.DiscountFixed.IsPositive() {
		return NewValidationError("you cannot use both a percentage and a fixed discount at the same time")
	}
	return nil
}

// visitEditAllowList are the fields a user may still change once a visit is
// confirmed or done. The billing workflow itself writes through the services
// in this package and is not subject to the guard.
var visitEditAllowList = map[string]bool{
	"notes":               true,
	"last_payment_amount": true,
	"state":               true,
}

// GuardVisitEdit rejects user edits of invoiced visits outside the allow-list.
func GuardVisitEdit(visit *models.Visit, fields []string) error {
	if visit.State != models.VisitStateConfirmed && visit.State != models.VisitStateDone {
		return nil
	}
	for _, f := range fields {
		if !visitEditAllowList[f] {
			return NewValidationError("visit %s is already invoiced; field %q can no longer be changed", visit.Reference, f)
		}
	}
	return nil
}
