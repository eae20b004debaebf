package services

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vetcare-backend/models"
)

// PaymentReceipt is what callers get back from a successful registration.
type PaymentReceipt struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Fallback  bool            `json:"fallback"`
}

// PaymentService applies inbound payments for a visit's customer against the
// customer's outstanding invoices.
type PaymentService struct {
	db       *gorm.DB
	ledger   Ledger
	notifier *ReceiptNotifier
}

func NewPaymentService(db *gorm.DB, ledger Ledger, notifier *ReceiptNotifier) *PaymentService {
	return &PaymentService{db: db, ledger: ledger, notifier: notifier}
}

func journalTypeForMethod(method string) (models.JournalType, error) {
	switch method {
	case "cash":
		return models.JournalTypeCash, nil
	case "bank":
		return models.JournalTypeBank, nil
	default:
		return "", NewValidationError("unknown payment method %q, expected cash or bank", method)
	}
}

// validatePaymentVisit checks the loaded visit can receive a payment at all:
// a posted invoice must exist and the owner must have a customer record.
func validatePaymentVisit(visit *models.Visit) error {
	posted := false
	for _, inv := range visit.Invoices {
		if inv.State == models.InvoiceStatePosted {
			posted = true
			break
		}
	}
	if !posted {
		return NewPaymentError("no posted invoice for this visit")
	}
	if visit.Owner == nil || visit.Owner.ContactID == nil {
		return NewPaymentError("no linked customer record for this visit's owner")
	}
	return nil
}

// validatePaymentAmount enforces the strict over-payment policy against the
// outstanding set: the amount must not exceed the summed residuals.
func validatePaymentAmount(outstanding []models.Invoice, amount decimal.Decimal) error {
	if len(outstanding) == 0 {
		return NewPaymentError("no unpaid invoices found for this customer")
	}
	totalResidual := decimal.Zero
	for _, inv := range outstanding {
		totalResidual = totalResidual.Add(inv.AmountResidual)
	}
	if amount.GreaterThan(totalResidual) {
		return NewPaymentError("amount %s exceeds the outstanding balance of %s",
			amount.StringFixed(2), totalResidual.StringFixed(2))
	}
	return nil
}

// RegisterPayment applies amount to the outstanding invoices of the visit's
// customer, oldest first. The ledger's standard registration flow is tried
// first; if it fails, a manual balanced entry is constructed and reconciled
// instead, and only a failure of both surfaces as an error. The whole action
// commits or rolls back as one unit.
func (s *PaymentService) RegisterPayment(visitID uuid.UUID, amount decimal.Decimal, method string) (*PaymentReceipt, error) {
	if !amount.IsPositive() {
		return nil, NewPaymentError("payment amount must be positive")
	}
	journalType, err := journalTypeForMethod(method)
	if err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var visit models.Visit
	if err := tx.Preload("Owner.Contact").Preload("Invoices").
		First(&visit, "id = ?", visitID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := validatePaymentVisit(&visit); err != nil {
		tx.Rollback()
		return nil, err
	}
	contactID := *visit.Owner.ContactID

	// Serialize payment registration per customer: everything below runs
	// under a row lock on the contact.
	var contact models.Contact
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&contact, "id = ?", contactID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	outstanding, err := s.ledger.OutstandingInvoices(tx, contactID, nil)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := validatePaymentAmount(outstanding, amount); err != nil {
		tx.Rollback()
		return nil, err
	}

	receipt := &PaymentReceipt{Amount: amount, Method: method}

	payment, primaryErr := s.ledger.RegisterPayment(tx, contactID, outstanding, amount, journalType)
	if primaryErr != nil {
		log.Printf("Payment registration failed for visit %s, falling back to manual entry: %v",
			visit.Reference, primaryErr)
		entry, fallbackErr := s.ledger.ManualReceivableEntry(tx, contactID, outstanding, amount, journalType)
		if fallbackErr != nil {
			tx.Rollback()
			return nil, fmt.Errorf("payment registration failed (%v) and manual fallback failed: %w",
				primaryErr, fallbackErr)
		}
		receipt.Reference = entry.Reference
		receipt.Fallback = true
	} else {
		receipt.Reference = payment.PaymentNumber
	}

	if err := tx.Model(&models.Visit{}).Where("id = ?", visit.ID).
		Update("last_payment_amount", amount).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	visit.LastPaymentAmount = amount

	if err := RecomputeVisitState(tx, &visit); err != nil {
		tx.Rollback()
		return nil, err
	}

	activity := models.VisitActivity{
		VisitID: visit.ID,
		Message: fmt.Sprintf("Applied payment of %s via %s (%s)", amount.StringFixed(2), method, receipt.Reference),
	}
	if err := tx.Create(&activity).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	// Receipt notification is best-effort; a failure is logged, never
	// surfaced as a payment failure.
	if s.notifier != nil {
		s.notifier.SendPaymentReceipt(&contact, &visit, amount)
	}

	return receipt, nil
}
