package services

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"gymdesk/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2026, time.March, 15, 18, 45, 12, 999, time.UTC)
	got := DateOnly(in)
	want := date(2026, time.March, 15)
	if !got.Equal(want) {
		t.Errorf("DateOnly(%v) = %v; want %v", in, got, want)
	}
}

func TestExpiresWithin(t *testing.T) {
	today := date(2026, time.March, 10)

	tests := []struct {
		name     string
		status   models.MemberStatus
		endDate  time.Time
		expected bool
	}{
		{
			name:     "expires today",
			status:   models.MemberStatusActive,
			endDate:  date(2026, time.March, 10),
			expected: true,
		},
		{
			name:     "expires at window boundary",
			status:   models.MemberStatusActive,
			endDate:  date(2026, time.March, 17),
			expected: true,
		},
		{
			name:     "expires one day past window",
			status:   models.MemberStatusActive,
			endDate:  date(2026, time.March, 18),
			expected: false,
		},
		{
			name:     "already past end date",
			status:   models.MemberStatusActive,
			endDate:  date(2026, time.March, 9),
			expected: false,
		},
		{
			name:     "frozen member inside window",
			status:   models.MemberStatusFrozen,
			endDate:  date(2026, time.March, 12),
			expected: false,
		},
		{
			name:     "expired member inside window",
			status:   models.MemberStatusExpired,
			endDate:  date(2026, time.March, 12),
			expected: false,
		},
		{
			name:     "end date carries a time component",
			status:   models.MemberStatusActive,
			endDate:  time.Date(2026, time.March, 17, 23, 30, 0, 0, time.UTC),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := models.Member{Status: tt.status, EndDate: tt.endDate}
			got := ExpiresWithin(m, today, 7)
			if got != tt.expected {
				t.Errorf("ExpiresWithin(end=%v, status=%s) = %v; want %v", tt.endDate, tt.status, got, tt.expected)
			}
		})
	}
}

func TestReminderMessage(t *testing.T) {
	m := models.Member{
		Name:     "Asha",
		PlanType: models.PlanTypePT,
		EndDate:  date(2026, time.April, 2),
	}

	got := ReminderMessage(m)
	want := "Hi Asha,\n\nYour Personal Training membership at the gym is expiring on 2026-04-02.\nPlease renew your membership to continue enjoying our services.\n\nThank you!"
	if got != want {
		t.Errorf("ReminderMessage() = %q; want %q", got, want)
	}
}

// failingNotifier fails for a fixed set of phone numbers.
type failingNotifier struct {
	failFor map[string]bool
	sent    []string
}

func (n *failingNotifier) Notify(name, phone, message string) error {
	if n.failFor[phone] {
		return errors.New("delivery refused")
	}
	n.sent = append(n.sent, phone)
	return nil
}

func TestNotifyExpiring(t *testing.T) {
	members := []models.Member{
		{ID: 1, Name: "Asha", Phone: "9876543210", EndDate: date(2026, time.March, 12)},
		{ID: 2, Name: "Ravi", Phone: "9123456789", EndDate: date(2026, time.March, 14)},
		{ID: 3, Name: "Maya", Phone: "9988776655", EndDate: date(2026, time.March, 16)},
	}

	t.Run("all succeed", func(t *testing.T) {
		n := &failingNotifier{failFor: map[string]bool{}}
		report := NotifyExpiring(members, n, zap.NewNop())

		if report.Total != 3 || report.Successful != 3 || report.Failed != 0 {
			t.Errorf("report = %+v; want total=3 successful=3 failed=0", report)
		}
		if len(report.MembersNotified) != 3 {
			t.Fatalf("members_notified has %d entries; want 3", len(report.MembersNotified))
		}
		if report.MembersNotified[0].ExpiryDate != "2026-03-12" {
			t.Errorf("expiry_date = %q; want 2026-03-12", report.MembersNotified[0].ExpiryDate)
		}
	})

	t.Run("one failure does not stop the batch", func(t *testing.T) {
		n := &failingNotifier{failFor: map[string]bool{"9123456789": true}}
		report := NotifyExpiring(members, n, zap.NewNop())

		if report.Total != 3 || report.Successful != 2 || report.Failed != 1 {
			t.Errorf("report = %+v; want total=3 successful=2 failed=1", report)
		}
		if len(n.sent) != 2 {
			t.Errorf("notifier sent %d messages; want 2", len(n.sent))
		}
		for _, m := range report.MembersNotified {
			if m.Phone == "9123456789" {
				t.Errorf("failed member %d listed in members_notified", m.ID)
			}
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		n := &failingNotifier{failFor: map[string]bool{}}
		report := NotifyExpiring(nil, n, zap.NewNop())

		if report.Total != 0 || report.Successful != 0 || report.Failed != 0 {
			t.Errorf("report = %+v; want zero counts", report)
		}
		if report.MembersNotified == nil {
			t.Error("members_notified should be an empty slice, not nil")
		}
	})
}
