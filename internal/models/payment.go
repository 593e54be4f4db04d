package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records money received from a member. Payments are entered
// manually by the owner; there is no gateway behind them.
type Payment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	MemberID uint   `gorm:"not null;index:idx_payments_member_date,priority:1" json:"member"`
	Member   Member `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`

	ReceiptNumber string          `gorm:"type:varchar(36);uniqueIndex;not null" json:"receipt_number"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMode   PaymentMode     `gorm:"type:varchar(10);not null" json:"payment_mode"`
	PaymentDate   time.Time       `gorm:"type:date;not null;index:idx_payments_member_date,priority:2" json:"payment_date"`
	Notes         *string         `gorm:"type:text" json:"notes"`
}
