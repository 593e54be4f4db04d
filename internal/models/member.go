package models

import (
	"time"
)

// PlanType selects the membership catalog entry for a member.
type PlanType string

const (
	PlanTypeGeneral PlanType = "GENERAL"
	PlanTypePT      PlanType = "PT"
)

// ValidPlanType reports whether p is one of the accepted plan types.
func ValidPlanType(p PlanType) bool {
	return p == PlanTypeGeneral || p == PlanTypePT
}

// Display returns the human-readable plan name used in notifications.
func (p PlanType) Display() string {
	switch p {
	case PlanTypeGeneral:
		return "General Training"
	case PlanTypePT:
		return "Personal Training"
	}
	return string(p)
}

// MemberStatus is the membership lifecycle state. FROZEN is a manual
// override; the automatic lifecycle only ever moves ACTIVE to EXPIRED.
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "ACTIVE"
	MemberStatusExpired MemberStatus = "EXPIRED"
	MemberStatusFrozen  MemberStatus = "FROZEN"
)

// ValidMemberStatus reports whether s is one of the accepted statuses.
func ValidMemberStatus(s MemberStatus) bool {
	switch s {
	case MemberStatusActive, MemberStatusExpired, MemberStatusFrozen:
		return true
	}
	return false
}

// Member is a gym member enrolled under one owner. Phone is deliberately
// not unique: families and walk-ins share numbers in practice.
type Member struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID uint  `gorm:"not null;index:idx_members_owner_status,priority:1;index:idx_members_owner_plan_type,priority:1" json:"owner"`
	Owner   Owner `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`

	Name            string       `gorm:"type:varchar(255);not null" json:"name"`
	Phone           string       `gorm:"type:varchar(15);not null" json:"phone"`
	PlanType        PlanType     `gorm:"type:varchar(10);not null;index:idx_members_owner_plan_type,priority:2" json:"plan_type"`
	StartDate       time.Time    `gorm:"type:date;not null" json:"start_date"`
	EndDate         time.Time    `gorm:"type:date;not null;index" json:"end_date"`
	Status          MemberStatus `gorm:"type:varchar(10);default:'ACTIVE';index:idx_members_owner_status,priority:2" json:"status"`
	AssignedTrainer *string      `gorm:"type:varchar(255)" json:"assigned_trainer"`

	// Relationships
	Payments []Payment `gorm:"foreignKey:MemberID" json:"payments,omitempty"`
}
