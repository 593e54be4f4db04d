package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gymdesk/internal/models"
)

// OutstandingDues returns how much a member still owes against the plan
// price: max(0, price - paid). Overpayment yields zero, never a negative
// balance.
func OutstandingDues(planPrice decimal.Decimal, totalPaid decimal.Decimal) decimal.Decimal {
	due := planPrice.Sub(totalPaid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// PlanPrice looks up the catalog price for a plan type. A missing catalog
// row is not an error; the price is simply zero.
func PlanPrice(db *gorm.DB, planType models.PlanType) (decimal.Decimal, error) {
	var plan models.Plan
	err := db.Where("plan_type = ?", planType).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return plan.Price, nil
}

// MemberPaymentsTotal sums every payment recorded for a member. The sum is
// computed in the store's exact numeric type, so no float drift.
func MemberPaymentsTotal(db *gorm.DB, memberID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := db.Model(&models.Payment{}).
		Where("member_id = ?", memberID).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// MemberOutstandingDues resolves the plan price and payment history for a
// member and returns (plan price, total paid, outstanding).
func MemberOutstandingDues(db *gorm.DB, m models.Member) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	price, err := PlanPrice(db, m.PlanType)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	paid, err := MemberPaymentsTotal(db, m.ID)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	return price, paid, OutstandingDues(price, paid), nil
}
