package models

import (
	"time"
)

// Owner is the tenant root: a gym owner account. Every tenant-scoped row
// (gym, trainer, member and their payments) hangs off exactly one owner.
type Owner struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username     string  `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string  `gorm:"type:varchar(255)" json:"email"`
	Phone        *string `gorm:"type:varchar(15);uniqueIndex" json:"phone"`
	PasswordHash string  `gorm:"type:varchar(255);not null" json:"-"`
	IsSuperuser  bool    `gorm:"default:false" json:"is_superuser"`

	// Relationships
	Trainers []Trainer `gorm:"foreignKey:OwnerID" json:"trainers,omitempty"`
	Members  []Member  `gorm:"foreignKey:OwnerID" json:"members,omitempty"`
}
