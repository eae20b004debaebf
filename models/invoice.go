package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceState string

const (
	InvoiceStateDraft  InvoiceState = "draft"
	InvoiceStatePosted InvoiceState = "posted"
)

// Invoice is the ledger document for amounts a contact owes. PaymentState and
// AmountResidual are maintained by the ledger service; billing code reads
// them, it never writes them directly.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	ContactID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Contact       *Contact  `gorm:"foreignKey:ContactID"`

	VisitID *uuid.UUID `gorm:"type:uuid;index"`
	Origin  string

	InvoiceDate time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	State          InvoiceState    `gorm:"type:varchar(20);default:'draft'"`
	PaymentState   PaymentState    `gorm:"type:varchar(20);default:'not_paid'"`
	AmountTotal    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	AmountResidual decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`

	Lines []InvoiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// AmountPaid is the settled part of the invoice.
func (i *Invoice) AmountPaid() decimal.Decimal {
	return i.AmountTotal.Sub(i.AmountResidual)
}

func (i *Invoice) IsOutstanding() bool {
	return i.State == InvoiceStatePosted &&
		(i.PaymentState == PaymentStateNotPaid || i.PaymentState == PaymentStatePartial)
}

type InvoiceLine struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	ProductID *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"not null"`

	Quantity        decimal.Decimal `gorm:"type:decimal(10,2);default:1.0"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0.0"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	AccountID uuid.UUID `gorm:"type:uuid;not null"`
}

// ComputeAmount refreshes the line amount from quantity, price and the
// per-line discount.
func (l *InvoiceLine) ComputeAmount() {
	amount := l.Quantity.Mul(l.UnitPrice)
	if l.DiscountPercent.IsPositive() {
		amount = amount.Sub(amount.Mul(l.DiscountPercent).Div(decimal.NewFromInt(100)))
	}
	l.Amount = amount
}

// Payment is an inbound amount registered against a contact's invoices.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	PaymentNumber string    `gorm:"uniqueIndex;not null"`
	ContactID     uuid.UUID `gorm:"type:uuid;index;not null"`
	JournalID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Journal       *Journal  `gorm:"foreignKey:JournalID"`

	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Date   time.Time       `gorm:"default:CURRENT_TIMESTAMP"`
	Posted bool            `gorm:"default:false"`
	Memo   string

	Allocations []PaymentAllocation `gorm:"foreignKey:PaymentID"`
}

// PaymentAllocation records how much of a payment settled one invoice.
type PaymentAllocation struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	PaymentID uuid.UUID       `gorm:"type:uuid;index;not null"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}
