package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VisitState string

const (
	VisitStateDraft     VisitState = "draft"
	VisitStateConfirmed VisitState = "confirmed"
	VisitStateDone      VisitState = "done"
	VisitStateCancel    VisitState = "cancel"
)

type PaymentState string

const (
	PaymentStateNotPaid PaymentState = "not_paid"
	PaymentStatePartial PaymentState = "partial"
	PaymentStatePaid    PaymentState = "paid"
)

// Visit is one billable clinic encounter for an animal. Totals and states are
// derived values: subtotal/total from the lines, payment state from the linked
// invoices, lifecycle state from both.
type Visit struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Reference string    `gorm:"uniqueIndex;not null"`
	Date      time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	AnimalID uuid.UUID  `gorm:"type:uuid;index;not null"`
	Animal   *Animal    `gorm:"foreignKey:AnimalID"`
	OwnerID  uuid.UUID  `gorm:"type:uuid;index;not null"`
	Owner    *Owner     `gorm:"foreignKey:OwnerID"`
	DoctorID *uuid.UUID `gorm:"type:uuid;index"`
	Doctor   *Doctor    `gorm:"foreignKey:DoctorID"`

	Notes           string
	TreatmentCharge decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0.0"`
	DiscountFixed   decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`

	State             VisitState      `gorm:"type:varchar(20);default:'draft'"`
	PaymentState      PaymentState    `gorm:"type:varchar(20);default:'not_paid'"`
	LastPaymentAmount decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	Delivered         bool            `gorm:"default:false"`

	Lines    []VisitLine `gorm:"foreignKey:VisitID;constraint:OnDelete:CASCADE"`
	Invoices []Invoice   `gorm:"foreignKey:VisitID"`

	gorm.Model
}

// VisitLine is one billable item of a visit. Subtotal is always recomputed
// from quantity and the resolved unit price, never set directly.
type VisitLine struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	VisitID uuid.UUID `gorm:"type:uuid;index;not null"`

	ServiceID uuid.UUID   `gorm:"type:uuid;index;not null"`
	Service   *Service    `gorm:"foreignKey:ServiceID"`
	LineType  ServiceType `gorm:"type:varchar(20);not null;default:'service'"`

	Quantity  decimal.Decimal `gorm:"type:decimal(10,2);default:1.0"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`

	Invoiced  bool `gorm:"default:false"`
	Delivered bool `gorm:"default:false"`
}

// ResolveUnitPrice picks the line price from the linked product's list price,
// falling back to the catalog price.
func (l *VisitLine) ResolveUnitPrice() decimal.Decimal {
	if l.Service == nil {
		return decimal.Zero
	}
	if l.Service.Product != nil && !l.Service.Product.ListPrice.IsZero() {
		return l.Service.Product.ListPrice
	}
	return l.Service.Price
}

// ComputeSubtotal refreshes the derived line amount.
func (l *VisitLine) ComputeSubtotal() {
	l.Subtotal = l.Quantity.Mul(l.UnitPrice)
}

// LinesOfType returns the visit lines of one catalog type.
func (v *Visit) LinesOfType(t ServiceType) []VisitLine {
	var out []VisitLine
	for _, line := range v.Lines {
		if line.LineType == t {
			out = append(out, line)
		}
	}
	return out
}

func (v *Visit) ServiceLines() []VisitLine  { return v.LinesOfType(ServiceTypeService) }
func (v *Visit) TestLines() []VisitLine     { return v.LinesOfType(ServiceTypeTest) }
func (v *Visit) MedicineLines() []VisitLine { return v.LinesOfType(ServiceTypeVaccine) }

// ComputeTotals recomputes subtotal and total from the current lines,
// treatment charge and discount. The percentage discount applies to the
// post-treatment-charge total; a fixed discount larger than the total leaves
// the total negative on purpose.
func (v *Visit) ComputeTotals() {
	subtotal := decimal.Zero
	for _, line := range v.Lines {
		subtotal = subtotal.Add(line.Subtotal)
	}
	v.Subtotal = subtotal

	total := subtotal.Add(v.TreatmentCharge)
	if v.DiscountPercent.IsPositive() {
		total = total.Sub(total.Mul(v.DiscountPercent).Div(decimal.NewFromInt(100)))
	} else if v.DiscountFixed.IsPositive() {
		total = total.Sub(v.DiscountFixed)
	}
	v.TotalAmount = total
}

func (v *Visit) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
