package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"gymdesk/internal/middleware"
	"gymdesk/internal/models"
	"gymdesk/internal/services"
)

// MemberHandler exposes member CRUD. Every query goes through the
// request's scope, and the owning owner is always stamped server-side.
type MemberHandler struct {
	db    *gorm.DB
	cache *services.RedisCache
}

func NewMemberHandler(db *gorm.DB, cache *services.RedisCache) *MemberHandler {
	return &MemberHandler{db: db, cache: cache}
}

var memberOrdering = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"end_date":   "end_date",
}

type memberRequest struct {
	Name            string              `json:"name" validate:"required,max=255"`
	Phone           string              `json:"phone" validate:"required,phone"`
	PlanType        models.PlanType     `json:"plan_type" validate:"required,oneof=GENERAL PT"`
	StartDate       string              `json:"start_date" validate:"required"`
	EndDate         string              `json:"end_date" validate:"required"`
	Status          models.MemberStatus `json:"status" validate:"omitempty,oneof=ACTIVE EXPIRED FROZEN"`
	AssignedTrainer *string             `json:"assigned_trainer"`
}

type memberUpdateRequest struct {
	Name            *string              `json:"name" validate:"omitempty,max=255"`
	Phone           *string              `json:"phone" validate:"omitempty,phone"`
	PlanType        *models.PlanType     `json:"plan_type" validate:"omitempty,oneof=GENERAL PT"`
	StartDate       *string              `json:"start_date"`
	EndDate         *string              `json:"end_date"`
	Status          *models.MemberStatus `json:"status" validate:"omitempty,oneof=ACTIVE EXPIRED FROZEN"`
	AssignedTrainer *string              `json:"assigned_trainer"`
}

type memberListItem struct {
	ID              uint                `json:"id"`
	Name            string              `json:"name"`
	Phone           string              `json:"phone"`
	PlanType        models.PlanType     `json:"plan_type"`
	StartDate       string              `json:"start_date"`
	EndDate         string              `json:"end_date"`
	Status          models.MemberStatus `json:"status"`
	AssignedTrainer *string             `json:"assigned_trainer"`
	CreatedAt       time.Time           `json:"created_at"`
}

type memberResponse struct {
	memberListItem
	Owner     uint      `json:"owner"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toMemberListItem(m models.Member) memberListItem {
	return memberListItem{
		ID:              m.ID,
		Name:            m.Name,
		Phone:           m.Phone,
		PlanType:        m.PlanType,
		StartDate:       fmtDate(m.StartDate),
		EndDate:         fmtDate(m.EndDate),
		Status:          m.Status,
		AssignedTrainer: m.AssignedTrainer,
		CreatedAt:       m.CreatedAt,
	}
}

func toMemberResponse(m models.Member) memberResponse {
	return memberResponse{
		memberListItem: toMemberListItem(m),
		Owner:          m.OwnerID,
		UpdatedAt:      m.UpdatedAt,
	}
}

// memberDates parses and orders the membership period. end_date must be
// strictly after start_date.
func memberDates(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := parseDate(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, middleware.NewValidationError("start_date", "Date has wrong format. Use YYYY-MM-DD.")
	}
	end, err := parseDate(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, middleware.NewValidationError("end_date", "Date has wrong format. Use YYYY-MM-DD.")
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, middleware.NewValidationError("end_date", "End date must be after start date.")
	}
	return start, end, nil
}

func (h *MemberHandler) fetchScoped(c echo.Context, id uint) (models.Member, error) {
	var m models.Member
	err := currentScope(c).Owned(h.db).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, echo.NewHTTPError(http.StatusNotFound, "Member not found")
	}
	return m, err
}

func (h *MemberHandler) listQuery(c echo.Context) *gorm.DB {
	q := currentScope(c).Owned(h.db.Model(&models.Member{}))

	if pt := c.QueryParam("plan_type"); pt != "" {
		q = q.Where("plan_type = ?", pt)
	}
	if st := c.QueryParam("status"); st != "" {
		q = q.Where("status = ?", st)
	}
	if search := c.QueryParam("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR phone ILIKE ?", like, like)
	}

	return q
}

// List returns the scoped member collection with filtering, search,
// ordering and pagination.
func (h *MemberHandler) List(c echo.Context) error {
	q := h.listQuery(c)

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}

	page := pagination(c)
	var members []models.Member
	err := q.Order(ordering(c, memberOrdering, "created_at DESC")).
		Offset(page.offset()).Limit(page.pageSize).
		Find(&members).Error
	if err != nil {
		return err
	}

	items := make([]memberListItem, 0, len(members))
	for _, m := range members {
		items = append(items, toMemberListItem(m))
	}
	return c.JSON(http.StatusOK, pagedResponse{Count: count, Results: items})
}

// Search combines free-text search over name/phone with the plan/status
// filters in one endpoint.
func (h *MemberHandler) Search(c echo.Context) error {
	q := currentScope(c).Owned(h.db.Model(&models.Member{}))

	if query := c.QueryParam("q"); query != "" {
		like := "%" + query + "%"
		q = q.Where("name ILIKE ? OR phone ILIKE ?", like, like)
	}
	if pt := c.QueryParam("plan_type"); pt != "" {
		q = q.Where("plan_type = ?", pt)
	}
	if st := c.QueryParam("status"); st != "" {
		q = q.Where("status = ?", st)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}

	page := pagination(c)
	var members []models.Member
	err := q.Order("created_at DESC").
		Offset(page.offset()).Limit(page.pageSize).
		Find(&members).Error
	if err != nil {
		return err
	}

	items := make([]memberListItem, 0, len(members))
	for _, m := range members {
		items = append(items, toMemberListItem(m))
	}
	return c.JSON(http.StatusOK, pagedResponse{Count: count, Results: items})
}

// Create enrolls a member under the requesting owner. The owner FK is
// always server-assigned; client-supplied values for it are ignored.
func (h *MemberHandler) Create(c echo.Context) error {
	var req memberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	start, end, err := memberDates(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = models.MemberStatusActive
	}

	owner := currentOwner(c)
	member := models.Member{
		OwnerID:         owner.ID,
		Name:            req.Name,
		Phone:           req.Phone,
		PlanType:        req.PlanType,
		StartDate:       start,
		EndDate:         end,
		Status:          status,
		AssignedTrainer: req.AssignedTrainer,
	}
	if err := h.db.Create(&member).Error; err != nil {
		return err
	}

	invalidateDashboard(h.cache, c.Request().Context(), owner.ID)
	return c.JSON(http.StatusCreated, toMemberResponse(member))
}

// Get returns a single member. Rows outside the caller's scope are
// indistinguishable from absent ones.
func (h *MemberHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	member, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// Update applies the provided fields. This services both PUT and PATCH;
// omitted fields keep their stored values.
func (h *MemberHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	member, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}

	var req memberUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.PlanType != nil {
		member.PlanType = *req.PlanType
	}
	if req.Status != nil {
		member.Status = *req.Status
	}
	if req.AssignedTrainer != nil {
		member.AssignedTrainer = req.AssignedTrainer
	}

	startStr := fmtDate(member.StartDate)
	endStr := fmtDate(member.EndDate)
	if req.StartDate != nil {
		startStr = *req.StartDate
	}
	if req.EndDate != nil {
		endStr = *req.EndDate
	}
	member.StartDate, member.EndDate, err = memberDates(startStr, endStr)
	if err != nil {
		return err
	}

	if err := h.db.Save(&member).Error; err != nil {
		return err
	}

	invalidateDashboard(h.cache, c.Request().Context(), member.OwnerID)
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// Delete removes a member; recorded payments go with it.
func (h *MemberHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	member, err := h.fetchScoped(c, id)
	if err != nil {
		return err
	}

	if err := h.db.Delete(&member).Error; err != nil {
		return err
	}

	invalidateDashboard(h.cache, c.Request().Context(), member.OwnerID)
	return c.NoContent(http.StatusNoContent)
}
