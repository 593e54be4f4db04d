package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode is shared by member and trainer payments.
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "Cash"
	PaymentModeUPI    PaymentMode = "UPI"
	PaymentModeOnline PaymentMode = "Online"
)

// ValidPaymentMode reports whether m is one of the accepted modes.
func ValidPaymentMode(m PaymentMode) bool {
	switch m {
	case PaymentModeCash, PaymentModeUPI, PaymentModeOnline:
		return true
	}
	return false
}

// TrainerPayment records a salary/commission payout to a trainer. This is a
// ledger separate from member payments and never feeds dues or revenue.
type TrainerPayment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TrainerID uint    `gorm:"index;not null" json:"trainer"`
	Trainer   Trainer `gorm:"foreignKey:TrainerID;constraint:OnDelete:CASCADE" json:"-"`

	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMode PaymentMode     `gorm:"type:varchar(10);not null" json:"payment_mode"`
	PaymentDate time.Time       `gorm:"type:date;not null" json:"payment_date"`
	Notes       *string         `gorm:"type:text" json:"notes"`
}
