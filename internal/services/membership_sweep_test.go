package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gymdesk/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Owner{}, &models.Member{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func seedMember(t *testing.T, db *gorm.DB, ownerID uint, status models.MemberStatus, endDate time.Time) models.Member {
	t.Helper()
	m := models.Member{
		OwnerID:   ownerID,
		Name:      "Member " + string(status),
		Phone:     "9876543210",
		PlanType:  models.PlanTypeGeneral,
		StartDate: endDate.AddDate(0, -1, 0),
		EndDate:   endDate,
		Status:    status,
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("seeding member: %v", err)
	}
	return m
}

func memberStatus(t *testing.T, db *gorm.DB, id uint) models.MemberStatus {
	t.Helper()
	var m models.Member
	if err := db.First(&m, id).Error; err != nil {
		t.Fatalf("reloading member %d: %v", id, err)
	}
	return m.Status
}

func TestUpdateMemberStatuses(t *testing.T) {
	db := openTestDB(t)

	owner := models.Owner{Username: "asha", PasswordHash: "x"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("seeding owner: %v", err)
	}

	today := date(2026, time.March, 10)
	pastDue := seedMember(t, db, owner.ID, models.MemberStatusActive, today.AddDate(0, 0, -1))
	dueToday := seedMember(t, db, owner.ID, models.MemberStatusActive, today)
	current := seedMember(t, db, owner.ID, models.MemberStatusActive, today.AddDate(0, 0, 5))
	frozen := seedMember(t, db, owner.ID, models.MemberStatusFrozen, today.AddDate(0, 0, -30))
	expired := seedMember(t, db, owner.ID, models.MemberStatusExpired, today.AddDate(0, 0, -60))

	affected, err := UpdateMemberStatuses(db, today)
	if err != nil {
		t.Fatalf("UpdateMemberStatuses() error: %v", err)
	}
	if affected != 2 {
		t.Errorf("rows affected = %d; want 2", affected)
	}

	if got := memberStatus(t, db, pastDue.ID); got != models.MemberStatusExpired {
		t.Errorf("member past end date: status = %s; want EXPIRED", got)
	}
	if got := memberStatus(t, db, dueToday.ID); got != models.MemberStatusExpired {
		t.Errorf("member ending today: status = %s; want EXPIRED", got)
	}
	if got := memberStatus(t, db, current.ID); got != models.MemberStatusActive {
		t.Errorf("member with future end date: status = %s; want ACTIVE", got)
	}
	if got := memberStatus(t, db, frozen.ID); got != models.MemberStatusFrozen {
		t.Errorf("frozen member: status = %s; want FROZEN", got)
	}
	if got := memberStatus(t, db, expired.ID); got != models.MemberStatusExpired {
		t.Errorf("already expired member: status = %s; want EXPIRED", got)
	}
}

func TestUpdateMemberStatusesIdempotent(t *testing.T) {
	db := openTestDB(t)

	owner := models.Owner{Username: "asha", PasswordHash: "x"}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("seeding owner: %v", err)
	}

	today := date(2026, time.March, 10)
	m := seedMember(t, db, owner.ID, models.MemberStatusActive, today.AddDate(0, 0, -1))

	if _, err := UpdateMemberStatuses(db, today); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	affected, err := UpdateMemberStatuses(db, today)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if affected != 0 {
		t.Errorf("second run affected %d rows; want 0", affected)
	}
	if got := memberStatus(t, db, m.ID); got != models.MemberStatusExpired {
		t.Errorf("status after repeated runs = %s; want EXPIRED", got)
	}
}
