package services

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gymdesk/internal/models"
)

// DateOnly truncates t to midnight UTC so comparisons line up with the
// date columns in the store.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UpdateMemberStatuses moves every ACTIVE member whose membership has run
// out (end_date <= today) to EXPIRED. FROZEN members are never touched and
// expired members are never reactivated here; reactivation is an explicit
// owner write. Re-running the sweep is a no-op once applied.
func UpdateMemberStatuses(db *gorm.DB, today time.Time) (int64, error) {
	res := db.Model(&models.Member{}).
		Where("status = ? AND end_date <= ?", models.MemberStatusActive, DateOnly(today)).
		Update("status", models.MemberStatusExpired)
	return res.RowsAffected, res.Error
}

// ExpiresWithin reports whether an ACTIVE member's end date falls inside
// [today, today+days], both ends inclusive.
func ExpiresWithin(m models.Member, today time.Time, days int) bool {
	if m.Status != models.MemberStatusActive {
		return false
	}
	from := DateOnly(today)
	end := DateOnly(m.EndDate)
	return !end.Before(from) && !end.After(from.AddDate(0, 0, days))
}

// SelectExpiring returns ACTIVE members across all owners whose end_date
// falls within the reminder window. This is a cross-tenant batch query run
// by the worker, not by an owner request.
func SelectExpiring(db *gorm.DB, today time.Time, days int) ([]models.Member, error) {
	from := DateOnly(today)
	to := from.AddDate(0, 0, days)

	var members []models.Member
	err := db.
		Where("status = ? AND end_date >= ? AND end_date <= ?", models.MemberStatusActive, from, to).
		Find(&members).Error
	return members, err
}

// NotifiedMember identifies a member whose reminder went out.
type NotifiedMember struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	ExpiryDate string `json:"expiry_date"`
}

// ReminderReport aggregates one reminder run.
type ReminderReport struct {
	Total           int              `json:"total_members"`
	Successful      int              `json:"successful"`
	Failed          int              `json:"failed"`
	MembersNotified []NotifiedMember `json:"members_notified"`
}

// NotifyExpiring sends one reminder per member through the notifier. A
// failed send is counted and the loop moves on; one member's failure never
// aborts the rest of the batch.
func NotifyExpiring(members []models.Member, n Notifier, log *zap.Logger) ReminderReport {
	report := ReminderReport{
		Total:           len(members),
		MembersNotified: []NotifiedMember{},
	}

	for _, m := range members {
		if err := n.Notify(m.Name, m.Phone, ReminderMessage(m)); err != nil {
			report.Failed++
			log.Warn("reminder delivery failed",
				zap.Uint("member_id", m.ID),
				zap.String("name", m.Name),
				zap.Error(err))
			continue
		}
		report.Successful++
		report.MembersNotified = append(report.MembersNotified, NotifiedMember{
			ID:         m.ID,
			Name:       m.Name,
			Phone:      m.Phone,
			ExpiryDate: DateOnly(m.EndDate).Format("2006-01-02"),
		})
	}

	return report
}

// SendExpiryReminders selects members expiring within the window and
// notifies each of them, returning the aggregate report.
func SendExpiryReminders(db *gorm.DB, n Notifier, today time.Time, days int, log *zap.Logger) (ReminderReport, error) {
	members, err := SelectExpiring(db, today, days)
	if err != nil {
		return ReminderReport{MembersNotified: []NotifiedMember{}}, err
	}
	return NotifyExpiring(members, n, log), nil
}
