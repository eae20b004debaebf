package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Animal struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null"`
	Owner   *Owner    `gorm:"foreignKey:OwnerID"`

	Name        string `gorm:"not null"`
	Species     string
	Breed       string
	MicrochipNo string `gorm:"index"`
	BirthDate   *time.Time
	Notes       string

	Visits []Visit `gorm:"foreignKey:AnimalID"`

	gorm.Model
}

type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name      string    `gorm:"not null"`
	Phone     string
	Specialty string
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}
