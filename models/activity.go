package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisitActivity is the audit trail of a visit: one row per invoice or payment
// event, appended by the billing workflow.
type VisitActivity struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	VisitID uuid.UUID `gorm:"type:uuid;index;not null"`
	Message string    `gorm:"type:text;not null"`

	gorm.Model
}

func (a *VisitActivity) BeforeCreate(tx *gorm.DB) (err error) {
	a.ID = uuid.New()
	return
}

// ReminderTemplate holds the message sent to owners with outstanding balances.
type ReminderTemplate struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	Type     string    `gorm:"type:varchar(20);not null"` // balance
	Message  string    `gorm:"type:text;not null"`
	IsActive bool      `gorm:"default:true"`
	gorm.Model
}

type ReminderLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	OwnerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	TemplateID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Type         string    `gorm:"type:varchar(20)"` // balance
	Message      string    `gorm:"type:text"`
	Status       string    `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string    `gorm:"type:text"`
	Channel      string    `gorm:"type:varchar(20)"` // whatsapp, sms
	SentAt       time.Time
	gorm.Model
}

func (r *ReminderLog) BeforeCreate(tx *gorm.DB) (err error) {
	r.ID = uuid.New()
	return
}
