package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"gymdesk/internal/models"
)

// PlanHandler exposes the global plan catalog. Plans are shared across
// tenants and read-only over the API.
type PlanHandler struct {
	db *gorm.DB
}

func NewPlanHandler(db *gorm.DB) *PlanHandler {
	return &PlanHandler{db: db}
}

func (h *PlanHandler) List(c echo.Context) error {
	var plans []models.Plan
	if err := h.db.Order("plan_type ASC").Find(&plans).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagedResponse{Count: int64(len(plans)), Results: plans})
}

func (h *PlanHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var plan models.Plan
	err = h.db.First(&plan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Plan not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plan)
}
