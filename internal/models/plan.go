package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is the global membership catalog: one row per plan type, shared
// across all owners. Plans are seeded administratively; the API reads only.
type Plan struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PlanType     PlanType        `gorm:"type:varchar(10);uniqueIndex;not null" json:"plan_type"`
	DurationDays int             `gorm:"not null" json:"duration_days"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description  *string         `gorm:"type:text" json:"description"`
}
