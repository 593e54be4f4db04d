package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gymdesk/internal/middleware"
	"gymdesk/internal/models"
)

// TrainerPaymentHandler records payouts to trainers. Scoping runs through
// the trainer's owner; paying another tenant's trainer is a validation
// error unless the principal is a superuser.
type TrainerPaymentHandler struct {
	db *gorm.DB
}

func NewTrainerPaymentHandler(db *gorm.DB) *TrainerPaymentHandler {
	return &TrainerPaymentHandler{db: db}
}

var trainerPaymentOrdering = map[string]string{
	"payment_date": "trainer_payments.payment_date",
	"created_at":   "trainer_payments.created_at",
}

type trainerPaymentRequest struct {
	Trainer     uint               `json:"trainer" validate:"required"`
	Amount      decimal.Decimal    `json:"amount"`
	PaymentMode models.PaymentMode `json:"payment_mode" validate:"required,oneof=Cash UPI Online"`
	PaymentDate string             `json:"payment_date" validate:"required"`
	Notes       *string            `json:"notes"`
}

type trainerPaymentUpdateRequest struct {
	Trainer     *uint               `json:"trainer"`
	Amount      *decimal.Decimal    `json:"amount"`
	PaymentMode *models.PaymentMode `json:"payment_mode" validate:"omitempty,oneof=Cash UPI Online"`
	PaymentDate *string             `json:"payment_date"`
	Notes       *string             `json:"notes"`
}

type trainerPaymentResponse struct {
	ID          uint            `json:"id"`
	Trainer     uint            `json:"trainer"`
	TrainerName string          `json:"trainer_name"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	PaymentDate string          `json:"payment_date"`
	Notes       *string         `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toTrainerPaymentResponse(p models.TrainerPayment, trainerName string) trainerPaymentResponse {
	return trainerPaymentResponse{
		ID:          p.ID,
		Trainer:     p.TrainerID,
		TrainerName: trainerName,
		Amount:      p.Amount,
		PaymentMode: string(p.PaymentMode),
		PaymentDate: fmtDate(p.PaymentDate),
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

// List returns the scoped trainer-payment ledger, newest first.
func (h *TrainerPaymentHandler) List(c echo.Context) error {
	base := currentScope(c).ViaTrainer(h.db.Model(&models.TrainerPayment{}))

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return err
	}

	type row struct {
		ID          uint
		TrainerID   uint
		TrainerName string
		Amount      decimal.Decimal
		PaymentMode string
		PaymentDate time.Time
		Notes       *string
		CreatedAt   time.Time
	}

	page := pagination(c)
	var rows []row
	err := base.
		Select("trainer_payments.id, trainer_payments.trainer_id, trainers.name AS trainer_name, trainer_payments.amount, trainer_payments.payment_mode, trainer_payments.payment_date, trainer_payments.notes, trainer_payments.created_at").
		Order(ordering(c, trainerPaymentOrdering, "trainer_payments.payment_date DESC, trainer_payments.created_at DESC")).
		Offset(page.offset()).Limit(page.pageSize).
		Scan(&rows).Error
	if err != nil {
		return err
	}

	items := make([]trainerPaymentResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, trainerPaymentResponse{
			ID:          r.ID,
			Trainer:     r.TrainerID,
			TrainerName: r.TrainerName,
			Amount:      r.Amount,
			PaymentMode: r.PaymentMode,
			PaymentDate: fmtDate(r.PaymentDate),
			Notes:       r.Notes,
			CreatedAt:   r.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, pagedResponse{Count: count, Results: items})
}

// Create records a payout. The referenced trainer must belong to the
// requesting owner; no row is created otherwise.
func (h *TrainerPaymentHandler) Create(c echo.Context) error {
	var req trainerPaymentRequest
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

	var trainer models.Trainer
	err = h.db.First(&trainer, req.Trainer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.NewValidationError("trainer", "Invalid trainer.")
	}
	if err != nil {
		return err
	}
	if !currentScope(c).AllowsOwner(trainer.OwnerID) {
		return middleware.NewValidationError("trainer", "You can only pay your own trainers.")
	}

	payment := models.TrainerPayment{
		TrainerID:   trainer.ID,
		Amount:      req.Amount,
		PaymentMode: req.PaymentMode,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
	}
	if err := h.db.Create(&payment).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTrainerPaymentResponse(payment, trainer.Name))
}

func (h *TrainerPaymentHandler) fetchScoped(c echo.Context, id uint) (models.TrainerPayment, error) {
	var p models.TrainerPayment
	err := currentScope(c).ViaTrainer(h.db.Model(&models.TrainerPayment{})).
		Where("trainer_payments.id = ?", id).
		Select("trainer_payments.*").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, echo.NewHTTPError(http.StatusNotFound, "Trainer payment not found")
	}
	return p, err
}

func (h *TrainerPaymentHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	payment, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}

	var trainer models.Trainer
	if err := h.db.First(&trainer, payment.TrainerID).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTrainerPaymentResponse(payment, trainer.Name))
}

// Update applies the provided fields; omitted ones keep their stored
// values. Moving the payout to a trainer of another owner fails the same
// way Create does.
func (h *TrainerPaymentHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	payment, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}

	var req trainerPaymentUpdateRequest
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
	if req.Trainer != nil {
		payment.TrainerID = *req.Trainer
	}

	var trainer models.Trainer
	err = h.db.First(&trainer, payment.TrainerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.NewValidationError("trainer", "Invalid trainer.")
	}
	if err != nil {
		return err
	}
	if !currentScope(c).AllowsOwner(trainer.OwnerID) {
		return middleware.NewValidationError("trainer", "You can only pay your own trainers.")
	}

	if err := h.db.Save(&payment).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTrainerPaymentResponse(payment, trainer.Name))
}

// Delete removes a payout record.
func (h *TrainerPaymentHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	payment, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}

	if err := h.db.Delete(&payment).Error; err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
