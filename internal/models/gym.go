package models

import (
	"time"
)

// Gym holds the profile of an owner's gym. At most one per owner; creating
// a second is treated as an update of the first.
type Gym struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID uint  `gorm:"uniqueIndex;not null" json:"owner"`
	Owner   Owner `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`

	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	Phone        *string `gorm:"type:varchar(15)" json:"phone"`
	AddressLine1 *string `gorm:"type:varchar(255)" json:"address_line1"`
	AddressLine2 *string `gorm:"type:varchar(255)" json:"address_line2"`
	City         *string `gorm:"type:varchar(100)" json:"city"`
	State        *string `gorm:"type:varchar(100)" json:"state"`
	Country      string  `gorm:"type:varchar(100);default:'India'" json:"country"`
	PostalCode   *string `gorm:"type:varchar(20)" json:"postal_code"`
	Description  *string `gorm:"type:text" json:"description"`
	OpeningHours *string `gorm:"type:varchar(255)" json:"opening_hours"`
}
