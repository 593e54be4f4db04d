package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gymdesk/internal/models"
	"gymdesk/internal/scope"
)

// RecentPayment is a dashboard row with the member name denormalized in.
type RecentPayment struct {
	ID          uint            `json:"id"`
	MemberName  string          `json:"member_name"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	PaymentDate string          `json:"payment_date"`
}

// ExpiringMember is a dashboard row for the expiring-soon list.
type ExpiringMember struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	EndDate  string `json:"end_date"`
	PlanType string `json:"plan_type"`
}

// DashboardStats is the role-appropriate aggregate view: tenant-wide for a
// superuser, single-owner otherwise. Sums are zero when nothing matches.
type DashboardStats struct {
	IsSuperuser    bool             `json:"is_superuser"`
	TotalMembers   int64            `json:"total_members"`
	ActiveMembers  int64            `json:"active_members"`
	ExpiredMembers int64            `json:"expired_members"`
	FrozenMembers  int64            `json:"frozen_members"`
	MonthlyRevenue decimal.Decimal  `json:"monthly_revenue"`
	PTRevenue      decimal.Decimal  `json:"pt_revenue"`
	GeneralRevenue decimal.Decimal  `json:"general_revenue"`
	RecentPayments []RecentPayment  `json:"recent_payments"`
	ExpiringSoon   []ExpiringMember `json:"expiring_soon"`
}

func memberCount(db *gorm.DB, sc scope.Scope, status models.MemberStatus) (int64, error) {
	q := sc.Owned(db.Model(&models.Member{}))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func paymentSum(db *gorm.DB, sc scope.Scope, cond string, args ...interface{}) (decimal.Decimal, error) {
	q := sc.ViaMember(db.Model(&models.Payment{}))
	if cond != "" {
		q = q.Where(cond, args...)
	}
	var total decimal.Decimal
	row := q.Select("COALESCE(SUM(payments.amount), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// ComputeDashboardStats gathers the dashboard aggregates for one scope.
func ComputeDashboardStats(db *gorm.DB, sc scope.Scope, now time.Time) (DashboardStats, error) {
	stats := DashboardStats{
		IsSuperuser:    sc.IsAll(),
		MonthlyRevenue: decimal.Zero,
		PTRevenue:      decimal.Zero,
		GeneralRevenue: decimal.Zero,
		RecentPayments: []RecentPayment{},
		ExpiringSoon:   []ExpiringMember{},
	}

	var err error
	if stats.TotalMembers, err = memberCount(db, sc, ""); err != nil {
		return stats, err
	}
	if stats.ActiveMembers, err = memberCount(db, sc, models.MemberStatusActive); err != nil {
		return stats, err
	}
	if stats.ExpiredMembers, err = memberCount(db, sc, models.MemberStatusExpired); err != nil {
		return stats, err
	}
	if stats.FrozenMembers, err = memberCount(db, sc, models.MemberStatusFrozen); err != nil {
		return stats, err
	}

	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if stats.MonthlyRevenue, err = paymentSum(db, sc, "payments.payment_date >= ?", startOfMonth); err != nil {
		return stats, err
	}
	if stats.PTRevenue, err = paymentSum(db, sc, "members.plan_type = ?", models.PlanTypePT); err != nil {
		return stats, err
	}
	if stats.GeneralRevenue, err = paymentSum(db, sc, "members.plan_type = ?", models.PlanTypeGeneral); err != nil {
		return stats, err
	}

	type recentRow struct {
		ID          uint
		MemberName  string
		Amount      decimal.Decimal
		PaymentMode string
		PaymentDate time.Time
	}
	var recent []recentRow
	err = sc.ViaMember(db.Model(&models.Payment{})).
		Select("payments.id, members.name AS member_name, payments.amount, payments.payment_mode, payments.payment_date").
		Order("payments.payment_date DESC, payments.created_at DESC").
		Limit(10).
		Scan(&recent).Error
	if err != nil {
		return stats, err
	}
	for _, r := range recent {
		stats.RecentPayments = append(stats.RecentPayments, RecentPayment{
			ID:          r.ID,
			MemberName:  r.MemberName,
			Amount:      r.Amount,
			PaymentMode: r.PaymentMode,
			PaymentDate: DateOnly(r.PaymentDate).Format("2006-01-02"),
		})
	}

	type expiringRow struct {
		ID       uint
		Name     string
		Phone    string
		EndDate  time.Time
		PlanType string
	}
	today := DateOnly(now)
	var expiring []expiringRow
	err = sc.Owned(db.Model(&models.Member{})).
		Select("id, name, phone, end_date, plan_type").
		Where("status = ? AND end_date >= ? AND end_date <= ?",
			models.MemberStatusActive, today, today.AddDate(0, 0, 7)).
		Scan(&expiring).Error
	if err != nil {
		return stats, err
	}
	for _, e := range expiring {
		stats.ExpiringSoon = append(stats.ExpiringSoon, ExpiringMember{
			ID:       e.ID,
			Name:     e.Name,
			Phone:    e.Phone,
			EndDate:  DateOnly(e.EndDate).Format("2006-01-02"),
			PlanType: e.PlanType,
		})
	}

	return stats, nil
}
