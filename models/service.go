package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ServiceType string

const (
	ServiceTypeService ServiceType = "service"
	ServiceTypeTest    ServiceType = "test"
	ServiceTypeVaccine ServiceType = "vaccine"
)

// Service is a catalog entry (service, lab test or vaccine). Each entry is
// backed by a sellable Product which carries the income-account configuration.
type Service struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name        string          `gorm:"not null"`
	ServiceType ServiceType     `gorm:"type:varchar(20);not null;default:'service'"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description string
	IsActive    bool `gorm:"default:true"`

	ProductID *uuid.UUID `gorm:"type:uuid;index"`
	Product   *Product   `gorm:"foreignKey:ProductID"`
}

// ProductConfig maps a service type onto the stock behaviour of its product.
type ProductConfig struct {
	Type     string
	Tracking string
}

func (t ServiceType) ProductConfig() ProductConfig {
	switch t {
	case ServiceTypeVaccine:
		return ProductConfig{Type: "consu", Tracking: "lot"}
	case ServiceTypeTest:
		return ProductConfig{Type: "consu", Tracking: "none"}
	default:
		return ProductConfig{Type: "service", Tracking: "none"}
	}
}

// Product is the sellable item behind a catalog entry. Income accounts resolve
// product-first, then template, then category; a missing chain falls back to
// the first configured income account.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name      string          `gorm:"not null"`
	ListPrice decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	Type      string          `gorm:"type:varchar(20);default:'service'"`
	Tracking  string          `gorm:"type:varchar(20);default:'none'"`

	IncomeAccountID *uuid.UUID       `gorm:"type:uuid"`
	TemplateID      *uuid.UUID       `gorm:"type:uuid;index"`
	Template        *ProductTemplate `gorm:"foreignKey:TemplateID"`
}

type ProductTemplate struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name            string           `gorm:"not null"`
	IncomeAccountID *uuid.UUID       `gorm:"type:uuid"`
	CategoryID      *uuid.UUID       `gorm:"type:uuid;index"`
	Category        *ProductCategory `gorm:"foreignKey:CategoryID"`
}

type ProductCategory struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name            string     `gorm:"not null"`
	IncomeAccountID *uuid.UUID `gorm:"type:uuid"`
}
