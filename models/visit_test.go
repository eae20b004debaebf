package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeTotals(t *testing.T) {
	t.Run("percentage discount applies after treatment charge", func(t *testing.T) {
		visit := Visit{
			TreatmentCharge: d("20.00"),
			DiscountPercent: d("10"),
			Lines: []VisitLine{
				{Subtotal: d("50.00")},
				{Subtotal: d("30.00")},
			},
		}

		visit.ComputeTotals()

		assert.True(t, visit.Subtotal.Equal(d("80.00")), "subtotal %s", visit.Subtotal)
		assert.True(t, visit.TotalAmount.Equal(d("90.00")), "total %s", visit.TotalAmount)
	})

	t.Run("fixed discount subtracts flat", func(t *testing.T) {
		visit := Visit{
			DiscountFixed: d("15.00"),
			Lines: []VisitLine{
				{Subtotal: d("100.00")},
			},
		}

		visit.ComputeTotals()

		assert.True(t, visit.TotalAmount.Equal(d("85.00")), "total %s", visit.TotalAmount)
	})

	t.Run("fixed discount larger than the total leaves it negative", func(t *testing.T) {
		visit := Visit{
			DiscountFixed: d("50.00"),
			Lines: []VisitLine{
				{Subtotal: d("30.00")},
			},
		}

		visit.ComputeTotals()

		assert.True(t, visit.TotalAmount.Equal(d("-20.00")), "total %s", visit.TotalAmount)
	})

	t.Run("no lines and no charges are zero", func(t *testing.T) {
		var visit Visit

		visit.ComputeTotals()

		assert.True(t, visit.Subtotal.IsZero())
		assert.True(t, visit.TotalAmount.IsZero())
	})
}

func TestVisitLineComputeSubtotal(t *testing.T) {
	line := VisitLine{Quantity: d("3"), UnitPrice: d("12.50")}
	line.ComputeSubtotal()
	assert.True(t, line.Subtotal.Equal(d("37.50")))
}

func TestResolveUnitPrice(t *testing.T) {
	service := &Service{Price: d("40.00")}

	line := VisitLine{Service: service}
	assert.True(t, line.ResolveUnitPrice().Equal(d("40.00")))

	service.Product = &Product{ListPrice: d("45.00")}
	assert.True(t, line.ResolveUnitPrice().Equal(d("45.00")))

	// Zero list price falls back to the catalog price
	service.Product.ListPrice = decimal.Zero
	assert.True(t, line.ResolveUnitPrice().Equal(d("40.00")))

	orphan := VisitLine{}
	assert.True(t, orphan.ResolveUnitPrice().IsZero())
}

func TestLinesOfType(t *testing.T) {
	visit := Visit{
		Lines: []VisitLine{
			{LineType: ServiceTypeService},
			{LineType: ServiceTypeTest},
			{LineType: ServiceTypeVaccine},
			{LineType: ServiceTypeService},
		},
	}

	assert.Len(t, visit.ServiceLines(), 2)
	assert.Len(t, visit.TestLines(), 1)
	assert.Len(t, visit.MedicineLines(), 1)
}
