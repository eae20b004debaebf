package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vetcare-backend/models"
)

// Allocation is one slice of a payment applied to one invoice.
type Allocation struct {
	InvoiceID      uuid.UUID
	Amount         decimal.Decimal
	ResidualBefore decimal.Decimal
	ResidualAfter  decimal.Decimal
}

// AllocateOldestFirst splits amount across the given invoices in order,
// consuming each residual fully before moving to the next. The invoices must
// already be sorted oldest invoice-date first, then by id. Returns the
// allocations and whatever part of the amount was left unapplied.
func AllocateOldestFirst(amount decimal.Decimal, invoices []models.Invoice) ([]Allocation, decimal.Decimal) {
	var allocations []Allocation
	remaining := amount

	for _, inv := range invoices {
		if !remaining.IsPositive() {
			break
		}
		residual := inv.AmountResidual
		if !residual.IsPositive() {
			continue
		}
		applied := decimal.Min(remaining, residual)
		allocations = append(allocations, Allocation{
			InvoiceID:      inv.ID,
			Amount:         applied,
			ResidualBefore: residual,
			ResidualAfter:  residual.Sub(applied),
		})
		remaining = remaining.Sub(applied)
	}

	return allocations, remaining
}
