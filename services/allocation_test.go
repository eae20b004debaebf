package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetcare-backend/models"
)

func invoiceWithResidual(residual string) models.Invoice {
	return models.Invoice{
		ID:             uuid.New(),
		AmountResidual: decimal.RequireFromString(residual),
	}
}

func TestAllocateOldestFirst(t *testing.T) {
	t.Run("pays the oldest invoice fully before touching the next", func(t *testing.T) {
		older := invoiceWithResidual("60.00")
		newer := invoiceWithResidual("50.00")

		allocations, remaining := AllocateOldestFirst(
			decimal.RequireFromString("80.00"),
			[]models.Invoice{older, newer},
		)

		require.Len(t, allocations, 2)
		assert.Equal(t, older.ID, allocations[0].InvoiceID)
		assert.True(t, allocations[0].Amount.Equal(decimal.RequireFromString("60.00")))
		assert.True(t, allocations[0].ResidualAfter.IsZero())

		assert.Equal(t, newer.ID, allocations[1].InvoiceID)
		assert.True(t, allocations[1].Amount.Equal(decimal.RequireFromString("20.00")))
		assert.True(t, allocations[1].ResidualAfter.Equal(decimal.RequireFromString("30.00")))

		assert.True(t, remaining.IsZero())
	})

	t.Run("partial payment only reduces the first invoice", func(t *testing.T) {
		first := invoiceWithResidual("100.00")
		second := invoiceWithResidual("40.00")

		allocations, remaining := AllocateOldestFirst(
			decimal.RequireFromString("25.00"),
			[]models.Invoice{first, second},
		)

		require.Len(t, allocations, 1)
		assert.Equal(t, first.ID, allocations[0].InvoiceID)
		assert.True(t, allocations[0].ResidualAfter.Equal(decimal.RequireFromString("75.00")))
		assert.True(t, remaining.IsZero())
	})

	t.Run("skips invoices without residual", func(t *testing.T) {
		settled := invoiceWithResidual("0.00")
		open := invoiceWithResidual("30.00")

		allocations, remaining := AllocateOldestFirst(
			decimal.RequireFromString("30.00"),
			[]models.Invoice{settled, open},
		)

		require.Len(t, allocations, 1)
		assert.Equal(t, open.ID, allocations[0].InvoiceID)
		assert.True(t, remaining.IsZero())
	})

	t.Run("reports the unapplied excess", func(t *testing.T) {
		only := invoiceWithResidual("10.00")

		allocations, remaining := AllocateOldestFirst(
			decimal.RequireFromString("45.00"),
			[]models.Invoice{only},
		)

		require.Len(t, allocations, 1)
		assert.True(t, remaining.Equal(decimal.RequireFromString("35.00")))
	})

	t.Run("no invoices means nothing applied", func(t *testing.T) {
		allocations, remaining := AllocateOldestFirst(decimal.RequireFromString("20.00"), nil)

		assert.Empty(t, allocations)
		assert.True(t, remaining.Equal(decimal.RequireFromString("20.00")))
	})
}
