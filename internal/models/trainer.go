package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryType describes how a trainer is compensated.
type SalaryType string

const (
	SalaryTypeFixed      SalaryType = "FIXED"
	SalaryTypeCommission SalaryType = "COMMISSION"
	SalaryTypeMixed      SalaryType = "MIXED"
)

// Trainer works at one owner's gym.
type Trainer struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID uint  `gorm:"index;not null" json:"owner"`
	Owner   Owner `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`

	Name              string          `gorm:"type:varchar(255);not null" json:"name"`
	Phone             *string         `gorm:"type:varchar(15)" json:"phone"`
	Specialization    *string         `gorm:"type:varchar(255)" json:"specialization"`
	SalaryType        SalaryType      `gorm:"type:varchar(20);default:'COMMISSION'" json:"salary_type"`
	BaseSalary        decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"base_salary"`
	CommissionPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"commission_percent"`
	IsActive          bool            `gorm:"default:true" json:"is_active"`

	// Relationships
	Payments []TrainerPayment `gorm:"foreignKey:TrainerID" json:"payments,omitempty"`
}
