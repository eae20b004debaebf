package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeIncome     AccountType = "income"
	AccountTypeReceivable AccountType = "receivable"
	AccountTypeCash       AccountType = "cash"
	AccountTypeBank       AccountType = "bank"
)

type Account struct {
	ID   uuid.UUID   `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Code string      `gorm:"uniqueIndex;not null"`
	Name string      `gorm:"not null"`
	Type AccountType `gorm:"type:varchar(20);index;not null"`
}

type JournalType string

const (
	JournalTypeCash JournalType = "cash"
	JournalTypeBank JournalType = "bank"
)

// Journal says where inbound money lands; its account is the debit side of a
// payment entry.
type Journal struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name      string      `gorm:"not null"`
	Type      JournalType `gorm:"type:varchar(20);index;not null"`
	AccountID uuid.UUID   `gorm:"type:uuid;not null"`
	Account   *Account    `gorm:"foreignKey:AccountID"`
}

// LedgerEntry is a balanced double-entry record. Invoices post one entry
// (receivable debit against income credits); the manual payment fallback
// posts another (cash debit against a receivable credit).
type LedgerEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Reference string    `gorm:"index;not null"`
	Date      time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	Posted    bool      `gorm:"default:false"`

	Lines []LedgerLine `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

type LedgerLine struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	EntryID uuid.UUID `gorm:"type:uuid;index;not null"`

	AccountID uuid.UUID  `gorm:"type:uuid;index;not null"`
	ContactID *uuid.UUID `gorm:"type:uuid;index"`
	InvoiceID *uuid.UUID `gorm:"type:uuid;index"`

	Debit  decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	Credit decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`

	Reconciled       bool            `gorm:"default:false"`
	ReconciledAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
}

// Outstanding is the unreconciled remainder of a receivable line.
func (l *LedgerLine) Outstanding() decimal.Decimal {
	return l.Debit.Sub(l.Credit).Sub(l.ReconciledAmount)
}
