package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"gymdesk/internal/models"
)

// GymHandler manages the one gym profile each owner has. Creating a
// profile when one already exists updates it in place instead of
// failing on the unique owner constraint.
type GymHandler struct {
	db *gorm.DB
}

func NewGymHandler(db *gorm.DB) *GymHandler {
	return &GymHandler{db: db}
}

type gymRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,phone"`
	AddressLine1 *string `json:"address_line1" validate:"omitempty,max=255"`
	AddressLine2 *string `json:"address_line2" validate:"omitempty,max=255"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	State        *string `json:"state" validate:"omitempty,max=100"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
	PostalCode   *string `json:"postal_code" validate:"omitempty,max=20"`
	Description  *string `json:"description"`
	OpeningHours *string `json:"opening_hours" validate:"omitempty,max=255"`
}

func (r gymRequest) apply(g *models.Gym) {
	g.Name = r.Name
	g.Phone = r.Phone
	g.AddressLine1 = r.AddressLine1
	g.AddressLine2 = r.AddressLine2
	g.City = r.City
	g.State = r.State
	if r.Country != nil {
		g.Country = *r.Country
	}
	g.PostalCode = r.PostalCode
	g.Description = r.Description
	g.OpeningHours = r.OpeningHours
}

type gymUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,phone"`
	AddressLine1 *string `json:"address_line1" validate:"omitempty,max=255"`
	AddressLine2 *string `json:"address_line2" validate:"omitempty,max=255"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	State        *string `json:"state" validate:"omitempty,max=100"`
	Country      *string `json:"country" validate:"omitempty,max=100"`
	PostalCode   *string `json:"postal_code" validate:"omitempty,max=20"`
	Description  *string `json:"description"`
	OpeningHours *string `json:"opening_hours" validate:"omitempty,max=255"`
}

func (r gymUpdateRequest) apply(g *models.Gym) {
	if r.Name != nil {
		g.Name = *r.Name
	}
	if r.Phone != nil {
		g.Phone = r.Phone
	}
	if r.AddressLine1 != nil {
		g.AddressLine1 = r.AddressLine1
	}
	if r.AddressLine2 != nil {
		g.AddressLine2 = r.AddressLine2
	}
	if r.City != nil {
		g.City = r.City
	}
	if r.State != nil {
		g.State = r.State
	}
	if r.Country != nil {
		g.Country = *r.Country
	}
	if r.PostalCode != nil {
		g.PostalCode = r.PostalCode
	}
	if r.Description != nil {
		g.Description = r.Description
	}
	if r.OpeningHours != nil {
		g.OpeningHours = r.OpeningHours
	}
}

func (h *GymHandler) List(c echo.Context) error {
	var gyms []models.Gym
	err := currentScope(c).Owned(h.db.Model(&models.Gym{})).
		Order("created_at DESC").
		Find(&gyms).Error
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagedResponse{Count: int64(len(gyms)), Results: gyms})
}

// Create registers the owner's gym profile, or updates the existing one.
func (h *GymHandler) Create(c echo.Context) error {
	var req gymRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	owner := currentOwner(c)

	var gym models.Gym
	err := h.db.Where("owner_id = ?", owner.ID).First(&gym).Error
	switch {
	case err == nil:
		req.apply(&gym)
		if err := h.db.Save(&gym).Error; err != nil {
			return err
		}
		return c.JSON(http.StatusOK, gym)
	case errors.Is(err, gorm.ErrRecordNotFound):
		gym = models.Gym{OwnerID: owner.ID, Country: "India"}
		req.apply(&gym)
		if err := h.db.Create(&gym).Error; err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, gym)
	default:
		return err
	}
}

func (h *GymHandler) fetchScoped(c echo.Context, id uint) (models.Gym, error) {
	var gym models.Gym
	err := currentScope(c).Owned(h.db.Model(&models.Gym{})).
		Where("id = ?", id).
		First(&gym).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gym, echo.NewHTTPError(http.StatusNotFound, "Gym not found")
	}
	return gym, err
}

func (h *GymHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	gym, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, gym)
}

// Update applies the provided fields. This services both PUT and PATCH;
// omitted fields keep their stored values.
func (h *GymHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	gym, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}

	var req gymUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	req.apply(&gym)
	if err := h.db.Save(&gym).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, gym)
}

func (h *GymHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	gym, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}
	if err := h.db.Delete(&gym).Error; err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
