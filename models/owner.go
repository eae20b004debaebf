package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is the billing-facing customer record. The ledger only ever deals
// with contacts; an Owner without one gets a contact auto-created the first
// time an invoice is needed.
type Contact struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name    string    `gorm:"not null"`
	Phone   string    `gorm:"index"`
	Email   string
	Address string

	gorm.Model
}

type Owner struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ContactID *uuid.UUID `gorm:"type:uuid;index"`
	Contact   *Contact   `gorm:"foreignKey:ContactID"`

	Name     string `gorm:"not null"`
	Phone    string `gorm:"not null;uniqueIndex"`
	Email    string
	Address  string
	Notes    string
	IsActive bool `gorm:"default:true"`

	LastVisit *time.Time

	Animals []Animal `gorm:"foreignKey:OwnerID"`
	Visits  []Visit  `gorm:"foreignKey:OwnerID"`

	gorm.Model
}

func (o *Owner) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}
