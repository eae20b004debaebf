package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vetcare-backend/models"
	"vetcare-backend/utils"
)

// InvoiceLineRequest is one line of an invoice request handed to the ledger.
type InvoiceLineRequest struct {
	ProductID       *uuid.UUID
	Name            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	AccountID       uuid.UUID
}

// InvoiceRequest is the full invoice request: customer, ordered lines, date
// and the back-reference to the visit it bills.
type InvoiceRequest struct {
	ContactID uuid.UUID
	VisitID   uuid.UUID
	Origin    string
	Date      time.Time
	Lines     []InvoiceLineRequest
}

// Ledger is the persistent-store/ledger collaborator consumed by the billing
// core. The gorm implementation below is the production one; tests substitute
// their own.
type Ledger interface {
	OutstandingInvoices(tx *gorm.DB, contactID uuid.UUID, excludeVisitIDs []uuid.UUID) ([]models.Invoice, error)
	CreateInvoice(tx *gorm.DB, req InvoiceRequest) (*models.Invoice, error)
	RegisterPayment(tx *gorm.DB, contactID uuid.UUID, invoices []models.Invoice, amount decimal.Decimal, journalType models.JournalType) (*models.Payment, error)
	ManualReceivableEntry(tx *gorm.DB, contactID uuid.UUID, invoices []models.Invoice, amount decimal.Decimal, journalType models.JournalType) (*models.LedgerEntry, error)
	ResolveIncomeAccount(tx *gorm.DB, productID *uuid.UUID) (uuid.UUID, bool)
	FallbackIncomeAccount(tx *gorm.DB) (uuid.UUID, bool)
}

type LedgerService struct{}

func NewLedgerService() *LedgerService {
	return &LedgerService{}
}

// OutstandingInvoices returns the contact's posted, not fully paid invoices in
// deterministic FIFO order (invoice date, then id).
func (s *LedgerService) OutstandingInvoices(tx *gorm.DB, contactID uuid.UUID, excludeVisitIDs []uuid.UUID) ([]models.Invoice, error) {
	query := tx.Where("contact_id = ? AND state = ? AND payment_state IN ?",
		contactID, models.InvoiceStatePosted,
		[]models.PaymentState{models.PaymentStateNotPaid, models.PaymentStatePartial})
	if len(excludeVisitIDs) > 0 {
		query = query.Where("visit_id NOT IN ?", excludeVisitIDs)
	}

	var invoices []models.Invoice
	if err := query.Order("invoice_date asc, id asc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CreateInvoice creates and posts an invoice from the request, together with
// its balanced ledger entry (receivable debit against income credits). The
// residual starts at the full total.
func (s *LedgerService) CreateInvoice(tx *gorm.DB, req InvoiceRequest) (*models.Invoice, error) {
	invoice := models.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: "INV-" + req.Date.Format("20060102") + "-" + utils.GenerateRandomString(6),
		ContactID:     req.ContactID,
		VisitID:       &req.VisitID,
		Origin:        req.Origin,
		InvoiceDate:   req.Date,
		State:         models.InvoiceStateDraft,
		PaymentState:  models.PaymentStateNotPaid,
	}

	total := decimal.Zero
	for _, lr := range req.Lines {
		line := models.InvoiceLine{
			ID:              uuid.New(),
			InvoiceID:       invoice.ID,
			ProductID:       lr.ProductID,
			Name:            lr.Name,
			Quantity:        lr.Quantity,
			UnitPrice:       lr.UnitPrice,
			DiscountPercent: lr.DiscountPercent,
			AccountID:       lr.AccountID,
		}
		line.ComputeAmount()
		total = total.Add(line.Amount)
		invoice.Lines = append(invoice.Lines, line)
	}

	invoice.AmountTotal = total
	invoice.AmountResidual = total

	if err := tx.Create(&invoice).Error; err != nil {
		return nil, err
	}

	// Post: receivable debit for the total, one income credit per line.
	receivable, ok := s.accountByType(tx, models.AccountTypeReceivable)
	if !ok {
		return nil, NewPreconditionError("no receivable account configured")
	}
	entry := models.LedgerEntry{
		ID:        uuid.New(),
		Reference: invoice.InvoiceNumber,
		Date:      req.Date,
		Posted:    true,
		Lines: []models.LedgerLine{{
			ID:        uuid.New(),
			AccountID: receivable,
			ContactID: &req.ContactID,
			InvoiceID: &invoice.ID,
			Debit:     total,
		}},
	}
	for _, line := range invoice.Lines {
		entry.Lines = append(entry.Lines, models.LedgerLine{
			ID:        uuid.New(),
			AccountID: line.AccountID,
			ContactID: &req.ContactID,
			Credit:    line.Amount,
		})
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	if err := tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Update("state", models.InvoiceStatePosted).Error; err != nil {
		return nil, err
	}
	invoice.State = models.InvoiceStatePosted

	return &invoice, nil
}

// RegisterPayment is the primary payment path: it allocates the amount across
// the target invoices oldest-first and records a posted payment with its
// allocations.
func (s *LedgerService) RegisterPayment(tx *gorm.DB, contactID uuid.UUID, invoices []models.Invoice, amount decimal.Decimal, journalType models.JournalType) (*models.Payment, error) {
	var journal models.Journal
	if err := tx.Where("type = ?", journalType).First(&journal).Error; err != nil {
		return nil, fmt.Errorf("no %s journal configured: %w", journalType, err)
	}

	allocations, remaining := AllocateOldestFirst(amount, invoices)
	if remaining.IsPositive() {
		return nil, fmt.Errorf("allocation left %s unapplied", remaining.StringFixed(2))
	}

	payment := models.Payment{
		ID:            uuid.New(),
		PaymentNumber: "PAY-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6),
		ContactID:     contactID,
		JournalID:     journal.ID,
		Amount:        amount,
		Date:          time.Now(),
		Posted:        true,
	}
	for _, alloc := range allocations {
		payment.Allocations = append(payment.Allocations, models.PaymentAllocation{
			ID:        uuid.New(),
			PaymentID: payment.ID,
			InvoiceID: alloc.InvoiceID,
			Amount:    alloc.Amount,
		})
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, err
	}

	if err := s.settleInvoices(tx, allocations); err != nil {
		return nil, err
	}

	return &payment, nil
}

// ManualReceivableEntry is the fallback path: a hand-built balanced entry
// (debit cash/bank, credit receivable) whose receivable line is greedily
// reconciled against the invoices' receivable lines, oldest first.
func (s *LedgerService) ManualReceivableEntry(tx *gorm.DB, contactID uuid.UUID, invoices []models.Invoice, amount decimal.Decimal, journalType models.JournalType) (*models.LedgerEntry, error) {
	debitType := models.AccountTypeCash
	if journalType == models.JournalTypeBank {
		debitType = models.AccountTypeBank
	}
	debitAccount, ok := s.accountByType(tx, debitType)
	if !ok {
		return nil, NewPreconditionError("no %s account configured", debitType)
	}
	receivable, ok := s.accountByType(tx, models.AccountTypeReceivable)
	if !ok {
		return nil, NewPreconditionError("no receivable account configured")
	}

	entry := models.LedgerEntry{
		ID:        uuid.New(),
		Reference: "PMT-" + time.Now().Format("20060102") + "-" + utils.GenerateRandomString(6),
		Date:      time.Now(),
		Posted:    true,
		Lines: []models.LedgerLine{
			{ID: uuid.New(), AccountID: debitAccount, ContactID: &contactID, Debit: amount},
			{ID: uuid.New(), AccountID: receivable, ContactID: &contactID, Credit: amount},
		},
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	// Greedy reconciliation against the invoices, oldest first, until the
	// payment or the receivables run out.
	allocations, _ := AllocateOldestFirst(amount, invoices)
	if err := s.settleInvoices(tx, allocations); err != nil {
		return nil, err
	}

	return &entry, nil
}

// settleInvoices applies the allocations: invoice residual and payment state,
// plus the matching receivable ledger lines.
func (s *LedgerService) settleInvoices(tx *gorm.DB, allocations []Allocation) error {
	for _, alloc := range allocations {
		paymentState := models.PaymentStatePartial
		if alloc.ResidualAfter.IsZero() {
			paymentState = models.PaymentStatePaid
		}
		if err := tx.Model(&models.Invoice{}).Where("id = ?", alloc.InvoiceID).
			Updates(map[string]interface{}{
				"amount_residual": alloc.ResidualAfter,
				"payment_state":   paymentState,
			}).Error; err != nil {
			return err
		}

		var receivable models.LedgerLine
		if err := tx.Where("invoice_id = ? AND debit > 0", alloc.InvoiceID).
			First(&receivable).Error; err != nil {
			return err
		}
		receivable.ReconciledAmount = receivable.ReconciledAmount.Add(alloc.Amount)
		receivable.Reconciled = !receivable.Outstanding().IsPositive()
		if err := tx.Model(&models.LedgerLine{}).Where("id = ?", receivable.ID).
			Updates(map[string]interface{}{
				"reconciled_amount": receivable.ReconciledAmount,
				"reconciled":        receivable.Reconciled,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

// ResolveIncomeAccount walks the product → template → category chain.
func (s *LedgerService) ResolveIncomeAccount(tx *gorm.DB, productID *uuid.UUID) (uuid.UUID, bool) {
	if productID == nil {
		return uuid.Nil, false
	}
	var product models.Product
	if err := tx.Preload("Template.Category").First(&product, "id = ?", *productID).Error; err != nil {
		return uuid.Nil, false
	}
	if product.IncomeAccountID != nil {
		return *product.IncomeAccountID, true
	}
	if product.Template != nil {
		if product.Template.IncomeAccountID != nil {
			return *product.Template.IncomeAccountID, true
		}
		if product.Template.Category != nil && product.Template.Category.IncomeAccountID != nil {
			return *product.Template.Category.IncomeAccountID, true
		}
	}
	return uuid.Nil, false
}

// FallbackIncomeAccount returns the first configured income account.
func (s *LedgerService) FallbackIncomeAccount(tx *gorm.DB) (uuid.UUID, bool) {
	return s.accountByType(tx, models.AccountTypeIncome)
}

func (s *LedgerService) accountByType(tx *gorm.DB, accountType models.AccountType) (uuid.UUID, bool) {
	var account models.Account
	if err := tx.Where("type = ?", accountType).Order("code asc").First(&account).Error; err != nil {
		return uuid.Nil, false
	}
	return account.ID, true
}
