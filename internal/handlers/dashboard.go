package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"gymdesk/internal/services"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardHandler serves the aggregate stats view. Results are cached
// per scope for a short window since the queries fan out over several
// tables.
type DashboardHandler struct {
	db    *gorm.DB
	cache *services.RedisCache
}

func NewDashboardHandler(db *gorm.DB, cache *services.RedisCache) *DashboardHandler {
	return &DashboardHandler{db: db, cache: cache}
}

func (h *DashboardHandler) Stats(c echo.Context) error {
	sc := currentScope(c)

	if h.cache == nil {
		stats, err := services.ComputeDashboardStats(h.db, sc, time.Now())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, stats)
	}

	stats, err := services.GetOrSet(h.cache, c.Request().Context(), dashboardCacheKey(sc), dashboardCacheTTL,
		func() (services.DashboardStats, error) {
			return services.ComputeDashboardStats(h.db, sc, time.Now())
		})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
