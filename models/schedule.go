package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleStatus string

const (
	ScheduleStatusDraft     ScheduleStatus = "draft"
	ScheduleStatusConfirmed ScheduleStatus = "confirmed"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// Schedule is an appointment booking for an animal with a doctor on a given
// date. One animal/doctor/date slot may exist only once. Completed and
// cancelled are terminal except through an explicit reset to draft.
type Schedule struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Reference string    `gorm:"uniqueIndex;not null"`

	AnimalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_slot"`
	Animal   *Animal   `gorm:"foreignKey:AnimalID"`
	OwnerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Owner    *Owner    `gorm:"foreignKey:OwnerID"`
	DoctorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_slot"`
	Doctor   *Doctor   `gorm:"foreignKey:DoctorID"`

	AppointmentDate time.Time `gorm:"not null;uniqueIndex:idx_schedule_slot"`
	Reason          string    `gorm:"type:text"`
	Notes           string    `gorm:"type:text"`

	Status   ScheduleStatus `gorm:"type:varchar(20);default:'draft'"`
	IsActive bool           `gorm:"default:true"`

	gorm.Model
}

// CanTransition reports whether the appointment may move to the given status:
// draft confirms, confirmed completes, draft and confirmed cancel, and any
// status resets to draft.
func (s *Schedule) CanTransition(to ScheduleStatus) bool {
	switch to {
	case ScheduleStatusConfirmed:
		return s.Status == ScheduleStatusDraft
	case ScheduleStatusCompleted:
		return s.Status == ScheduleStatusConfirmed
	case ScheduleStatusCancelled:
		return s.Status == ScheduleStatusDraft || s.Status == ScheduleStatusConfirmed
	case ScheduleStatusDraft:
		return s.Status != ScheduleStatusDraft
	default:
		return false
	}
}

func (s *Schedule) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
