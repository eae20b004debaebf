package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"vetcare-backend/models"
)

func catalogLine(t models.ServiceType, name string, price string, productID *uuid.UUID) models.VisitLine {
	return models.VisitLine{
		LineType:  t,
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.RequireFromString(price),
		Service: &models.Service{
			Name:        name,
			ServiceType: t,
			ProductID:   productID,
		},
	}
}

func TestBuildInvoiceLines(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()
	accountA := uuid.New()
	accountB := uuid.New()

	resolver := func(accounts map[uuid.UUID]uuid.UUID) func(*uuid.UUID) (uuid.UUID, bool) {
		return func(productID *uuid.UUID) (uuid.UUID, bool) {
			if productID == nil {
				return uuid.Nil, false
			}
			id, ok := accounts[*productID]
			return id, ok
		}
	}

	t.Run("orders lines service then test then medicine", func(t *testing.T) {
		visit := &models.Visit{
			Lines: []models.VisitLine{
				catalogLine(models.ServiceTypeVaccine, "Rabies Vaccine", "25.00", &productA),
				catalogLine(models.ServiceTypeService, "Consultation", "40.00", &productA),
				catalogLine(models.ServiceTypeTest, "Blood Panel", "60.00", &productA),
			},
		}

		lines, err := BuildInvoiceLines(visit, resolver(map[uuid.UUID]uuid.UUID{productA: accountA}), uuid.Nil, false)
		require.NoError(t, err)
		require.Len(t, lines, 3)
		assert.Equal(t, "Consultation", lines[0].Name)
		assert.Equal(t, "Blood Panel", lines[1].Name)
		assert.Equal(t, "Rabies Vaccine", lines[2].Name)
	})

	t.Run("first resolved account backs lines without one", func(t *testing.T) {
		visit := &models.Visit{
			Lines: []models.VisitLine{
				catalogLine(models.ServiceTypeService, "Consultation", "40.00", &productA),
				catalogLine(models.ServiceTypeService, "Nail Trim", "10.00", &productB),
			},
		}

		lines, err := BuildInvoiceLines(visit, resolver(map[uuid.UUID]uuid.UUID{productA: accountA}), uuid.Nil, false)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, accountA, lines[0].AccountID)
		assert.Equal(t, accountA, lines[1].AccountID)
	})

	t.Run("unresolvable account with no fallback fails", func(t *testing.T) {
		visit := &models.Visit{
			Lines: []models.VisitLine{
				catalogLine(models.ServiceTypeService, "Consultation", "40.00", &productB),
			},
		}

		_, err := BuildInvoiceLines(visit, resolver(nil), uuid.Nil, false)
		assert.True(t, IsPreconditionError(err))
	})

	t.Run("treatment charge becomes its own line on the first account", func(t *testing.T) {
		visit := &models.Visit{
			TreatmentCharge: decimal.RequireFromString("30.00"),
			Lines: []models.VisitLine{
				catalogLine(models.ServiceTypeService, "Consultation", "40.00", &productA),
			},
		}

		lines, err := BuildInvoiceLines(visit, resolver(map[uuid.UUID]uuid.UUID{productA: accountA}), uuid.Nil, false)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "Treatment Charge", lines[1].Name)
		assert.Equal(t, accountA, lines[1].AccountID)
		assert.True(t, lines[1].UnitPrice.Equal(decimal.RequireFromString("30.00")))
	})

	t.Run("treatment charge alone needs the fallback account", func(t *testing.T) {
		visit := &models.Visit{TreatmentCharge: decimal.RequireFromString("30.00")}

		_, err := BuildInvoiceLines(visit, resolver(nil), uuid.Nil, false)
		assert.True(t, IsPreconditionError(err))

		lines, err := BuildInvoiceLines(visit, resolver(nil), accountB, true)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, accountB, lines[0].AccountID)
	})

	t.Run("percentage discount lands on every line", func(t *testing.T) {
		visit := &models.Visit{
			DiscountPercent: decimal.RequireFromString("10"),
			Lines: []models.VisitLine{
				catalogLine(models.ServiceTypeService, "Consultation", "40.00", &productA),
				catalogLine(models.ServiceTypeTest, "Blood Panel", "60.00", &productA),
			},
		}

		lines, err := BuildInvoiceLines(visit, resolver(map[uuid.UUID]uuid.UUID{productA: accountA}), uuid.Nil, false)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		for _, line := range lines {
			assert.True(t, line.DiscountPercent.Equal(decimal.RequireFromString("10")))
		}
	})

	t.Run("fixed discount becomes one negative line", func(t *testing.T) {
		visit := &models.Visit{
			DiscountFixed: decimal.RequireFromString("15.00"),
			Lines: []models.VisitLine{
				catalogLine(models.ServiceTypeService, "Consultation", "40.00", &productA),
			},
		}

		lines, err := BuildInvoiceLines(visit, resolver(map[uuid.UUID]uuid.UUID{productA: accountA}), uuid.Nil, false)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		discount := lines[1]
		assert.Equal(t, "Discount", discount.Name)
		assert.True(t, discount.UnitPrice.Equal(decimal.RequireFromString("-15.00")))
		assert.True(t, discount.DiscountPercent.IsZero())
	})

	t.Run("zero quantity is billed as one", func(t *testing.T) {
		line := catalogLine(models.ServiceTypeService, "Consultation", "40.00", &productA)
		line.Quantity = decimal.Zero
		visit := &models.Visit{Lines: []models.VisitLine{line}}

		lines, err := BuildInvoiceLines(visit, resolver(map[uuid.UUID]uuid.UUID{productA: accountA}), uuid.Nil, false)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.True(t, lines[0].Quantity.Equal(decimal.NewFromInt(1)))
	})

	t.Run("no billable lines yields no requests", func(t *testing.T) {
		visit := &models.Visit{}

		lines, err := BuildInvoiceLines(visit, resolver(nil), uuid.Nil, false)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestCheckVisitInvoiceable(t *testing.T) {
	owner := &models.Owner{ID: uuid.New()}

	t.Run("a second invoice is rejected and the link set untouched", func(t *testing.T) {
		visit := &models.Visit{
			Owner:    owner,
			State:    models.VisitStateConfirmed,
			Invoices: []models.Invoice{{ID: uuid.New()}},
		}

		err := CheckVisitInvoiceable(visit)
		assert.True(t, IsPreconditionError(err))
		assert.Len(t, visit.Invoices, 1)
	})

	t.Run("cancelled visits cannot be invoiced", func(t *testing.T) {
		visit := &models.Visit{Owner: owner, State: models.VisitStateCancel}
		assert.True(t, IsPreconditionError(CheckVisitInvoiceable(visit)))
	})

	t.Run("conflicting discount modes are rejected", func(t *testing.T) {
		visit := &models.Visit{
			Owner:           owner,
			DiscountPercent: decimal.RequireFromString("10"),
			DiscountFixed:   decimal.RequireFromString("5"),
		}
		assert.True(t, IsValidationError(CheckVisitInvoiceable(visit)))
	})

	t.Run("a visit without an owner cannot be invoiced", func(t *testing.T) {
		visit := &models.Visit{State: models.VisitStateDraft}
		assert.True(t, IsPreconditionError(CheckVisitInvoiceable(visit)))
	})

	t.Run("a plain draft visit passes", func(t *testing.T) {
		visit := &models.Visit{Owner: owner, State: models.VisitStateDraft}
		assert.NoError(t, CheckVisitInvoiceable(visit))
	})
}

// stubLedger satisfies Ledger with canned outstanding invoices.
type stubLedger struct {
	outstanding []models.Invoice
}

func (l *stubLedger) OutstandingInvoices(tx *gorm.DB, contactID uuid.UUID, excludeVisitIDs []uuid.UUID) ([]models.Invoice, error) {
	return l.outstanding, nil
}

func (l *stubLedger) CreateInvoice(tx *gorm.DB, req InvoiceRequest) (*models.Invoice, error) {
	return nil, nil
}

func (l *stubLedger) RegisterPayment(tx *gorm.DB, contactID uuid.UUID, invoices []models.Invoice, amount decimal.Decimal, journalType models.JournalType) (*models.Payment, error) {
	return nil, nil
}

func (l *stubLedger) ManualReceivableEntry(tx *gorm.DB, contactID uuid.UUID, invoices []models.Invoice, amount decimal.Decimal, journalType models.JournalType) (*models.LedgerEntry, error) {
	return nil, nil
}

func (l *stubLedger) ResolveIncomeAccount(tx *gorm.DB, productID *uuid.UUID) (uuid.UUID, bool) {
	return uuid.Nil, false
}

func (l *stubLedger) FallbackIncomeAccount(tx *gorm.DB) (uuid.UUID, bool) {
	return uuid.Nil, false
}

func TestBalanceOnlyLines(t *testing.T) {
	fallbackAccount := uuid.New()
	visit := &models.Visit{ID: uuid.New()}
	contactID := uuid.New()

	outstanding := []models.Invoice{
		{AmountResidual: decimal.RequireFromString("40.00")},
		{AmountResidual: decimal.RequireFromString("20.00")},
	}

	t.Run("disabled carry-forward fails on an empty visit", func(t *testing.T) {
		s := &BillingService{ledger: &stubLedger{outstanding: outstanding}}

		_, err := s.balanceOnlyLines(nil, visit, contactID, fallbackAccount, true)
		assert.True(t, IsPreconditionError(err))
	})

	t.Run("enabled carry-forward invoices the prior balance as one line", func(t *testing.T) {
		s := &BillingService{
			ledger:              &stubLedger{outstanding: outstanding},
			BalanceCarryForward: true,
		}

		lines, err := s.balanceOnlyLines(nil, visit, contactID, fallbackAccount, true)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "Unpaid Balance for Previous Visits", lines[0].Name)
		assert.True(t, lines[0].UnitPrice.Equal(decimal.RequireFromString("60.00")))
		assert.Equal(t, fallbackAccount, lines[0].AccountID)
	})

	t.Run("no prior balance still fails", func(t *testing.T) {
		s := &BillingService{ledger: &stubLedger{}, BalanceCarryForward: true}

		_, err := s.balanceOnlyLines(nil, visit, contactID, fallbackAccount, true)
		assert.True(t, IsPreconditionError(err))
	})

	t.Run("missing income account fails", func(t *testing.T) {
		s := &BillingService{
			ledger:              &stubLedger{outstanding: outstanding},
			BalanceCarryForward: true,
		}

		_, err := s.balanceOnlyLines(nil, visit, contactID, uuid.Nil, false)
		assert.True(t, IsPreconditionError(err))
	})
}
