// Package scope is the single authorization mechanism of the API: a Scope
// value is built once per request from the authenticated owner and threaded
// through every query. There is no per-resource permission table.
package scope

import (
	"gorm.io/gorm"

	"gymdesk/internal/models"
)

// Scope restricts queries to the rows a principal may see or mutate:
// either everything (superuser) or rows owned by a single owner.
type Scope struct {
	all     bool
	ownerID uint
}

// All returns the unrestricted scope used for superusers and for
// cross-tenant batch jobs (status sweep, reminders).
func All() Scope {
	return Scope{all: true}
}

// OwnedBy returns a scope restricted to rows owned by the given owner.
func OwnedBy(ownerID uint) Scope {
	return Scope{ownerID: ownerID}
}

// ForPrincipal derives the scope for an authenticated owner.
func ForPrincipal(o models.Owner) Scope {
	if o.IsSuperuser {
		return All()
	}
	return OwnedBy(o.ID)
}

// IsAll reports whether the scope is unrestricted.
func (s Scope) IsAll() bool {
	return s.all
}

// OwnerID returns the owning owner id for a restricted scope. The second
// return is false for the unrestricted scope.
func (s Scope) OwnerID() (uint, bool) {
	if s.all {
		return 0, false
	}
	return s.ownerID, true
}

// AllowsOwner reports whether rows owned by ownerID are inside the scope.
// Cross-tenant writes are gated on this before any row is created.
func (s Scope) AllowsOwner(ownerID uint) bool {
	return s.all || s.ownerID == ownerID
}

// Owned filters a query on an entity carrying its own owner_id column
// (members, trainers, gyms).
func (s Scope) Owned(db *gorm.DB) *gorm.DB {
	if s.all {
		return db
	}
	return db.Where("owner_id = ?", s.ownerID)
}

// ViaMember filters payments through their member's owner. The member join
// is always present so callers may select or filter on members.* columns.
func (s Scope) ViaMember(db *gorm.DB) *gorm.DB {
	q := db.Joins("JOIN members ON members.id = payments.member_id")
	if s.all {
		return q
	}
	return q.Where("members.owner_id = ?", s.ownerID)
}

// ViaTrainer filters trainer payments through their trainer's owner. The
// trainer join is always present, mirroring ViaMember.
func (s Scope) ViaTrainer(db *gorm.DB) *gorm.DB {
	q := db.Joins("JOIN trainers ON trainers.id = trainer_payments.trainer_id")
	if s.all {
		return q
	}
	return q.Where("trainers.owner_id = ?", s.ownerID)
}
