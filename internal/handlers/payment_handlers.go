package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gymdesk/internal/middleware"
	"gymdesk/internal/models"
	"gymdesk/internal/services"
)

// PaymentHandler records membership fee payments and answers the dues
// queries built on them. Scoping runs through the member's owner.
type PaymentHandler struct {
	db    *gorm.DB
	cache *services.RedisCache
}

func NewPaymentHandler(db *gorm.DB, cache *services.RedisCache) *PaymentHandler {
	return &PaymentHandler{db: db, cache: cache}
}

var paymentOrdering = map[string]string{
	"payment_date": "payments.payment_date",
	"created_at":   "payments.created_at",
	"amount":       "payments.amount",
}

type paymentRequest struct {
	Member      uint               `json:"member" validate:"required"`
	Amount      decimal.Decimal    `json:"amount"`
	PaymentMode models.PaymentMode `json:"payment_mode" validate:"required,oneof=Cash UPI Online"`
	PaymentDate string             `json:"payment_date" validate:"required"`
	Notes       *string            `json:"notes"`
}

type paymentUpdateRequest struct {
	Member      *uint               `json:"member"`
	Amount      *decimal.Decimal    `json:"amount"`
	PaymentMode *models.PaymentMode `json:"payment_mode" validate:"omitempty,oneof=Cash UPI Online"`
	PaymentDate *string             `json:"payment_date"`
	Notes       *string             `json:"notes"`
}

type paymentResponse struct {
	ID            uint            `json:"id"`
	Member        uint            `json:"member"`
	MemberName    string          `json:"member_name"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMode   string          `json:"payment_mode"`
	PaymentDate   string          `json:"payment_date"`
	ReceiptNumber string          `json:"receipt_number"`
	Notes         *string         `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toPaymentResponse(p models.Payment, memberName string) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		Member:        p.MemberID,
		MemberName:    memberName,
		Amount:        p.Amount,
		PaymentMode:   string(p.PaymentMode),
		PaymentDate:   fmtDate(p.PaymentDate),
		ReceiptNumber: p.ReceiptNumber,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

type paymentRow struct {
	ID            uint
	MemberID      uint
	MemberName    string
	Amount        decimal.Decimal
	PaymentMode   string
	PaymentDate   time.Time
	ReceiptNumber string
	Notes         *string
	CreatedAt     time.Time
}

func (r paymentRow) response() paymentResponse {
	return paymentResponse{
		ID:            r.ID,
		Member:        r.MemberID,
		MemberName:    r.MemberName,
		Amount:        r.Amount,
		PaymentMode:   r.PaymentMode,
		PaymentDate:   fmtDate(r.PaymentDate),
		ReceiptNumber: r.ReceiptNumber,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}

const paymentRowSelect = "payments.id, payments.member_id, members.name AS member_name, payments.amount, payments.payment_mode, payments.payment_date, payments.receipt_number, payments.notes, payments.created_at"

// List returns the scoped payment history, newest first.
func (h *PaymentHandler) List(c echo.Context) error {
	base := currentScope(c).ViaMember(h.db.Model(&models.Payment{}))

	if mode := c.QueryParam("payment_mode"); models.ValidPaymentMode(models.PaymentMode(mode)) {
		base = base.Where("payments.payment_mode = ?", mode)
	}

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return err
	}

	page := pagination(c)
	var rows []paymentRow
	err := base.
		Select(paymentRowSelect).
		Order(ordering(c, paymentOrdering, "payments.payment_date DESC, payments.created_at DESC")).
		Offset(page.offset()).Limit(page.pageSize).
		Scan(&rows).Error
	if err != nil {
		return err
	}

	items := make([]paymentResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.response())
	}
	return c.JSON(http.StatusOK, pagedResponse{Count: count, Results: items})
}

// Create records a payment against a member of the requesting owner.
// Receipt numbers are generated server side and never accepted as input.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req paymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if req.Amount.IsNegative() {
		return middleware.NewValidationError("amount", "Ensure this value is greater than or equal to 0.")
	}

	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return middleware.NewValidationError("payment_date", "Date has wrong format. Use YYYY-MM-DD.")
	}

	var member models.Member
	err = h.db.First(&member, req.Member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.NewValidationError("member", "Invalid member.")
	}
	if err != nil {
		return err
	}
	if !currentScope(c).AllowsOwner(member.OwnerID) {
		return middleware.NewValidationError("member", "You can only create payments for your own members.")
	}

	payment := models.Payment{
		MemberID:      member.ID,
		Amount:        req.Amount,
		PaymentMode:   req.PaymentMode,
		PaymentDate:   paymentDate,
		ReceiptNumber: uuid.New().String(),
		Notes:         req.Notes,
	}
	if err := h.db.Create(&payment).Error; err != nil {
		return err
	}
	invalidateDashboard(h.cache, c.Request().Context(), member.OwnerID)
	return c.JSON(http.StatusCreated, toPaymentResponse(payment, member.Name))
}

func (h *PaymentHandler) fetchScoped(c echo.Context, id uint) (models.Payment, error) {
	var p models.Payment
	err := currentScope(c).ViaMember(h.db.Model(&models.Payment{})).
		Where("payments.id = ?", id).
		Select("payments.*").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, echo.NewHTTPError(http.StatusNotFound, "Payment not found")
	}
	return p, err
}

func (h *PaymentHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	payment, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}

	var member models.Member
	if err := h.db.First(&member, payment.MemberID).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPaymentResponse(payment, member.Name))
}

// Update applies the provided fields; omitted ones keep their stored
// values. The receipt number is immutable, and moving the payment to
// another owner's member fails the same way Create does.
func (h *PaymentHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	payment, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}

	var req paymentUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return middleware.NewValidationError("amount", "Ensure this value is greater than or equal to 0.")
		}
		payment.Amount = *req.Amount
	}
	if req.PaymentMode != nil {
		payment.PaymentMode = *req.PaymentMode
	}
	if req.PaymentDate != nil {
		paymentDate, err := parseDate(*req.PaymentDate)
		if err != nil {
			return middleware.NewValidationError("payment_date", "Date has wrong format. Use YYYY-MM-DD.")
		}
		payment.PaymentDate = paymentDate
	}
	if req.Notes != nil {
		payment.Notes = req.Notes
	}
	if req.Member != nil {
		payment.MemberID = *req.Member
	}

	var member models.Member
	err = h.db.First(&member, payment.MemberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.NewValidationError("member", "Invalid member.")
	}
	if err != nil {
		return err
	}
	if !currentScope(c).AllowsOwner(member.OwnerID) {
		return middleware.NewValidationError("member", "You can only create payments for your own members.")
	}

	if err := h.db.Save(&payment).Error; err != nil {
		return err
	}
	invalidateDashboard(h.cache, c.Request().Context(), member.OwnerID)
	return c.JSON(http.StatusOK, toPaymentResponse(payment, member.Name))
}

func (h *PaymentHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	payment, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}

	var member models.Member
	if err := h.db.First(&member, payment.MemberID).Error; err != nil {
		return err
	}
	if err := h.db.Delete(&payment).Error; err != nil {
		return err
	}
	invalidateDashboard(h.cache, c.Request().Context(), member.OwnerID)
	return c.NoContent(http.StatusNoContent)
}

// memberParam resolves the member_id query parameter within the caller's
// scope. Members outside the scope read as absent.
func (h *PaymentHandler) memberParam(c echo.Context) (models.Member, error) {
	raw := c.QueryParam("member_id")
	if raw == "" {
		return models.Member{}, echo.NewHTTPError(http.StatusBadRequest, "member_id parameter is required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return models.Member{}, echo.NewHTTPError(http.StatusBadRequest, "member_id parameter is required")
	}

	var member models.Member
	err = currentScope(c).Owned(h.db.Model(&models.Member{})).
		Where("id = ?", id).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return member, echo.NewHTTPError(http.StatusNotFound, "Member not found")
	}
	return member, err
}

// MemberPayments lists the full payment history of one member.
func (h *PaymentHandler) MemberPayments(c echo.Context) error {
	member, err := h.memberParam(c)
	if err != nil {
		return err
	}

	var payments []models.Payment
	err = h.db.Where("member_id = ?", member.ID).
		Order("payment_date DESC, created_at DESC").
		Find(&payments).Error
	if err != nil {
		return err
	}

	items := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, toPaymentResponse(p, member.Name))
	}
	return c.JSON(http.StatusOK, items)
}

// OutstandingDues reports how much of the member's plan price is unpaid.
func (h *PaymentHandler) OutstandingDues(c echo.Context) error {
	member, err := h.memberParam(c)
	if err != nil {
		return err
	}

	planPrice, totalPaid, due, err := services.MemberOutstandingDues(h.db, member)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"member_id":        member.ID,
		"member_name":      member.Name,
		"plan_price":       planPrice,
		"total_payments":   totalPaid,
		"outstanding_dues": due,
	})
}
