package services

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vetcare-backend/models"
	"vetcare-backend/utils"
)

// BillingService materializes invoices from visits.
type BillingService struct {
	db     *gorm.DB
	ledger Ledger

	// When no billable lines exist, either fail (default) or invoice the
	// owner's unpaid balance from previous visits as a single line.
	BalanceCarryForward bool
}

func NewBillingService(db *gorm.DB, ledger Ledger) *BillingService {
	return &BillingService{
		db:                  db,
		ledger:              ledger,
		BalanceCarryForward: os.Getenv("BILLING_BALANCE_CARRY_FORWARD") == "true",
	}
}

// BuildInvoiceLines turns a visit's billable lines into invoice line requests.
// resolve maps a product to its income account through the product → template
// → category chain; fallbackAccount seeds the first-account fallback when set.
// The discount is applied per-line for the percentage mode and as one negative
// "Discount" line for the fixed mode.
func BuildInvoiceLines(visit *models.Visit, resolve func(*uuid.UUID) (uuid.UUID, bool), fallbackAccount uuid.UUID, hasFallback bool) ([]InvoiceLineRequest, error) {
	var lines []InvoiceLineRequest
	firstAccount := fallbackAccount
	hasFirst := hasFallback

	// Service, test, then medicine lines, in visit order within each subset.
	subsets := [][]models.VisitLine{visit.ServiceLines(), visit.TestLines(), visit.MedicineLines()}
	for _, subset := range subsets {
		for _, line := range subset {
			var productID *uuid.UUID
			name := ""
			if line.Service != nil {
				name = line.Service.Name
				productID = line.Service.ProductID
				if line.Service.Product != nil {
					name = line.Service.Product.Name
				}
			}

			accountID, ok := resolve(productID)
			if !ok {
				accountID, ok = firstAccount, hasFirst
			}
			if !ok {
				return nil, NewPreconditionError("please configure an income account for product %q", name)
			}
			if !hasFirst {
				firstAccount, hasFirst = accountID, true
			}

			quantity := line.Quantity
			if !quantity.IsPositive() {
				quantity = decimal.NewFromInt(1)
			}

			lines = append(lines, InvoiceLineRequest{
				ProductID: productID,
				Name:      name,
				Quantity:  quantity,
				UnitPrice: line.UnitPrice,
				AccountID: accountID,
			})
		}
	}

	if !visit.TreatmentCharge.IsZero() {
		if !hasFirst {
			return nil, NewPreconditionError("cannot determine an income account for the treatment charge")
		}
		lines = append(lines, InvoiceLineRequest{
			Name:      "Treatment Charge",
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: visit.TreatmentCharge,
			AccountID: firstAccount,
		})
	}

	if visit.DiscountPercent.IsPositive() {
		for i := range lines {
			lines[i].DiscountPercent = visit.DiscountPercent
		}
	} else if visit.DiscountFixed.IsPositive() {
		if !hasFirst {
			return nil, NewPreconditionError("please configure an income account for discounts")
		}
		lines = append(lines, InvoiceLineRequest{
			Name:      "Discount",
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: visit.DiscountFixed.Neg(),
			AccountID: firstAccount,
		})
	}

	return lines, nil
}

// CheckVisitInvoiceable rejects the invoice action before anything is written:
// a visit is invoiced at most once, never after cancellation, never with
// conflicting discount modes, and never without an owner.
func CheckVisitInvoiceable(visit *models.Visit) error {
	if len(visit.Invoices) > 0 {
		return NewPreconditionError("an invoice already exists for this visit")
	}
	if visit.State == models.VisitStateCancel {
		return NewPreconditionError("cannot invoice a cancelled visit")
	}
	if err := CheckDiscountConflict(visit); err != nil {
		return err
	}
	if visit.Owner == nil {
		return NewPreconditionError("please set an owner before creating an invoice")
	}
	return nil
}

// CreateVisitInvoice creates and posts one invoice for the visit. Exactly one
// invoice may ever exist per visit; any failure rolls the whole action back.
func (s *BillingService) CreateVisitInvoice(visitID uuid.UUID) (*models.Invoice, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var visit models.Visit
	if err := tx.Preload("Lines.Service.Product").Preload("Owner.Contact").Preload("Invoices").
		First(&visit, "id = ?", visitID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := CheckVisitInvoiceable(&visit); err != nil {
		tx.Rollback()
		return nil, err
	}

	contact, err := s.ensureContact(tx, visit.Owner)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	fallbackAccount, hasFallback := s.ledger.FallbackIncomeAccount(tx)
	lines, err := BuildInvoiceLines(&visit, func(productID *uuid.UUID) (uuid.UUID, bool) {
		return s.ledger.ResolveIncomeAccount(tx, productID)
	}, fallbackAccount, hasFallback)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if len(lines) == 0 {
		lines, err = s.balanceOnlyLines(tx, &visit, contact.ID, fallbackAccount, hasFallback)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	invoice, err := s.ledger.CreateInvoice(tx, InvoiceRequest{
		ContactID: contact.ID,
		VisitID:   visit.ID,
		Origin:    visit.Reference,
		Date:      utils.BeginningOfDay(time.Now()),
		Lines:     lines,
	})
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Model(&models.VisitLine{}).Where("visit_id = ?", visit.ID).
		Update("invoiced", true).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := RecomputeVisitState(tx, &visit); err != nil {
		tx.Rollback()
		return nil, err
	}

	activity := models.VisitActivity{
		VisitID: visit.ID,
		Message: "Invoice " + invoice.InvoiceNumber + " created and posted",
	}
	if err := tx.Create(&activity).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	log.Printf("Invoice %s created and posted for visit %s", invoice.InvoiceNumber, visit.Reference)
	return invoice, nil
}

// balanceOnlyLines synthesizes the single carry-forward line for a visit
// without billable lines, or fails in the default configuration.
func (s *BillingService) balanceOnlyLines(tx *gorm.DB, visit *models.Visit, contactID uuid.UUID, fallbackAccount uuid.UUID, hasFallback bool) ([]InvoiceLineRequest, error) {
	if !s.BalanceCarryForward {
		return nil, NewPreconditionError("no invoiceable lines found for this visit")
	}

	outstanding, err := s.ledger.OutstandingInvoices(tx, contactID, []uuid.UUID{visit.ID})
	if err != nil {
		return nil, err
	}
	balance := decimal.Zero
	for _, inv := range outstanding {
		balance = balance.Add(inv.AmountResidual)
	}
	if !balance.IsPositive() {
		return nil, NewPreconditionError("no invoiceable lines found for this visit and no unpaid balance for the owner")
	}
	if !hasFallback {
		return nil, NewPreconditionError("please configure an income account for balance invoices")
	}

	return []InvoiceLineRequest{{
		Name:      "Unpaid Balance for Previous Visits",
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: balance,
		AccountID: fallbackAccount,
	}}, nil
}

// OwnerUnpaidBalance sums the residuals of the owner's outstanding invoices,
// always computed on demand.
func (s *BillingService) OwnerUnpaidBalance(ownerID uuid.UUID, excludeVisitIDs []uuid.UUID) (decimal.Decimal, error) {
	var owner models.Owner
	if err := s.db.First(&owner, "id = ?", ownerID).Error; err != nil {
		return decimal.Zero, err
	}
	if owner.ContactID == nil {
		return decimal.Zero, nil
	}

	outstanding, err := s.ledger.OutstandingInvoices(s.db, *owner.ContactID, excludeVisitIDs)
	if err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for _, inv := range outstanding {
		balance = balance.Add(inv.AmountResidual)
	}
	return balance, nil
}

// ensureContact returns the owner's customer record, creating one from the
// owner's name/phone/email on first use. The contact row is locked for the
// duration of the enclosing transaction to serialize billing per customer.
func (s *BillingService) ensureContact(tx *gorm.DB, owner *models.Owner) (*models.Contact, error) {
	if owner.ContactID != nil {
		var contact models.Contact
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&contact, "id = ?", *owner.ContactID).Error; err != nil {
			return nil, err
		}
		return &contact, nil
	}

	contact := models.Contact{
		ID:      uuid.New(),
		Name:    owner.Name,
		Phone:   owner.Phone,
		Email:   owner.Email,
		Address: owner.Address,
	}
	if err := tx.Create(&contact).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Owner{}).Where("id = ?", owner.ID).
		Update("contact_id", contact.ID).Error; err != nil {
		return nil, err
	}
	owner.ContactID = &contact.ID
	return &contact, nil
}
