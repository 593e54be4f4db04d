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

// TrainerHandler manages the trainers of the requesting owner's gym.
type TrainerHandler struct {
	db *gorm.DB
}

func NewTrainerHandler(db *gorm.DB) *TrainerHandler {
	return &TrainerHandler{db: db}
}

var trainerOrdering = map[string]string{
	"created_at": "created_at",
	"name":       "name",
}

type trainerRequest struct {
	Name              string            `json:"name" validate:"required,max=255"`
	Phone             *string           `json:"phone" validate:"omitempty,phone"`
	Specialization    *string           `json:"specialization" validate:"omitempty,max=255"`
	SalaryType        models.SalaryType `json:"salary_type" validate:"omitempty,oneof=FIXED COMMISSION MIXED"`
	BaseSalary        *decimal.Decimal  `json:"base_salary"`
	CommissionPercent *decimal.Decimal  `json:"commission_percent"`
	IsActive          *bool             `json:"is_active"`
}

type trainerUpdateRequest struct {
	Name              *string            `json:"name" validate:"omitempty,max=255"`
	Phone             *string            `json:"phone" validate:"omitempty,phone"`
	Specialization    *string            `json:"specialization" validate:"omitempty,max=255"`
	SalaryType        *models.SalaryType `json:"salary_type" validate:"omitempty,oneof=FIXED COMMISSION MIXED"`
	BaseSalary        *decimal.Decimal   `json:"base_salary"`
	CommissionPercent *decimal.Decimal   `json:"commission_percent"`
	IsActive          *bool              `json:"is_active"`
}

type trainerListItem struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Phone          *string   `json:"phone"`
	Specialization *string   `json:"specialization"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type trainerResponse struct {
	trainerListItem
	Owner             uint              `json:"owner"`
	SalaryType        models.SalaryType `json:"salary_type"`
	BaseSalary        decimal.Decimal   `json:"base_salary"`
	CommissionPercent decimal.Decimal   `json:"commission_percent"`
}

func toTrainerListItem(t models.Trainer) trainerListItem {
	return trainerListItem{
		ID:             t.ID,
		Name:           t.Name,
		Phone:          t.Phone,
		Specialization: t.Specialization,
		IsActive:       t.IsActive,
		CreatedAt:      t.CreatedAt,
	}
}

func toTrainerResponse(t models.Trainer) trainerResponse {
	return trainerResponse{
		trainerListItem:   toTrainerListItem(t),
		Owner:             t.OwnerID,
		SalaryType:        t.SalaryType,
		BaseSalary:        t.BaseSalary,
		CommissionPercent: t.CommissionPercent,
	}
}

func (h *TrainerHandler) fetchScoped(c echo.Context, id uint) (models.Trainer, error) {
	var t models.Trainer
	err := currentScope(c).Owned(h.db).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return t, echo.NewHTTPError(http.StatusNotFound, "Trainer not found")
	}
	return t, err
}

// List returns the scoped trainers with search over name, phone and
// specialization.
func (h *TrainerHandler) List(c echo.Context) error {
	q := currentScope(c).Owned(h.db.Model(&models.Trainer{}))

	if search := c.QueryParam("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR phone ILIKE ? OR specialization ILIKE ?", like, like, like)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}

	page := pagination(c)
	var trainers []models.Trainer
	err := q.Order(ordering(c, trainerOrdering, "created_at DESC")).
		Offset(page.offset()).Limit(page.pageSize).
		Find(&trainers).Error
	if err != nil {
		return err
	}

	items := make([]trainerListItem, 0, len(trainers))
	for _, t := range trainers {
		items = append(items, toTrainerListItem(t))
	}
	return c.JSON(http.StatusOK, pagedResponse{Count: count, Results: items})
}

func trainerFromRequest(req trainerRequest) (models.Trainer, error) {
	t := models.Trainer{
		Name:           req.Name,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		SalaryType:     models.SalaryTypeCommission,
		IsActive:       true,
	}
	if req.SalaryType != "" {
		t.SalaryType = req.SalaryType
	}
	if req.BaseSalary != nil {
		if req.BaseSalary.IsNegative() {
			return t, middleware.NewValidationError("base_salary", "Ensure this value is greater than or equal to 0.")
		}
		t.BaseSalary = *req.BaseSalary
	}
	if req.CommissionPercent != nil {
		if req.CommissionPercent.IsNegative() {
			return t, middleware.NewValidationError("commission_percent", "Ensure this value is greater than or equal to 0.")
		}
		t.CommissionPercent = *req.CommissionPercent
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	return t, nil
}

// Create registers a trainer under the requesting owner.
func (h *TrainerHandler) Create(c echo.Context) error {
	var req trainerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	trainer, err := trainerFromRequest(req)
	if err != nil {
		return err
	}
	trainer.OwnerID = currentOwner(c).ID

	if err := h.db.Create(&trainer).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTrainerResponse(trainer))
}

func (h *TrainerHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	trainer, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTrainerResponse(trainer))
}

// Update applies the provided fields. This services both PUT and PATCH;
// omitted fields keep their stored values.
func (h *TrainerHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	trainer, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}

	var req trainerUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if req.Name != nil {
		trainer.Name = *req.Name
	}
	if req.Phone != nil {
		trainer.Phone = req.Phone
	}
	if req.Specialization != nil {
		trainer.Specialization = req.Specialization
	}
	if req.SalaryType != nil {
		trainer.SalaryType = *req.SalaryType
	}
	if req.BaseSalary != nil {
		if req.BaseSalary.IsNegative() {
			return middleware.NewValidationError("base_salary", "Ensure this value is greater than or equal to 0.")
		}
		trainer.BaseSalary = *req.BaseSalary
	}
	if req.CommissionPercent != nil {
		if req.CommissionPercent.IsNegative() {
			return middleware.NewValidationError("commission_percent", "Ensure this value is greater than or equal to 0.")
		}
		trainer.CommissionPercent = *req.CommissionPercent
	}
	if req.IsActive != nil {
		trainer.IsActive = *req.IsActive
	}

	if err := h.db.Save(&trainer).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTrainerResponse(trainer))
}

// Delete removes a trainer; its payment ledger goes with it.
func (h *TrainerHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	trainer, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}

	if err := h.db.Delete(&trainer).Error; err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
