package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"gymdesk/internal/middleware"
	"gymdesk/internal/models"
	"gymdesk/internal/scope"
	"gymdesk/internal/services"
)

// phoneMessage mirrors the stored column constraint: loose international
// pattern, up to 15 digits.
const phoneMessage = "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	// Report errors under the json field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "phone":
		return phoneMessage
	case "oneof":
		return fmt.Sprintf("Value must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	}
	return "Invalid value."
}

// bindAndValidate decodes the JSON body into dst and runs struct
// validation, converting failures into field-level validation errors.
func bindAndValidate(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = validationMessage(fe)
			}
			return &middleware.ValidationError{Fields: fields}
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	return nil
}

// currentOwner returns the authenticated owner attached by RequireAuth.
func currentOwner(c echo.Context) models.Owner {
	o, _ := c.Get(middleware.ContextOwner).(models.Owner)
	return o
}

// currentScope returns the tenant scope attached by RequireAuth. A missing
// scope degrades to an empty owner scope that matches nothing.
func currentScope(c echo.Context) scope.Scope {
	s, ok := c.Get(middleware.ContextScope).(scope.Scope)
	if !ok {
		return scope.OwnedBy(0)
	}
	return s
}

func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return uint(id), nil
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type pageParams struct {
	page     int
	pageSize int
}

func pagination(c echo.Context) pageParams {
	p := pageParams{page: 1, pageSize: defaultPageSize}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		p.page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 {
		if v > maxPageSize {
			v = maxPageSize
		}
		p.pageSize = v
	}
	return p
}

func (p pageParams) offset() int {
	return (p.page - 1) * p.pageSize
}

type pagedResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}

// ordering resolves the ?ordering= parameter against a whitelist of
// exposed field names, honoring the "-" prefix for descending order.
func ordering(c echo.Context, allowed map[string]string, fallback string) string {
	raw := c.QueryParam("ordering")
	if raw == "" {
		return fallback
	}
	desc := strings.HasPrefix(raw, "-")
	col, ok := allowed[strings.TrimPrefix(raw, "-")]
	if !ok {
		return fallback
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func fmtDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func dashboardCacheKey(sc scope.Scope) string {
	if sc.IsAll() {
		return "dashboard:all"
	}
	id, _ := sc.OwnerID()
	return fmt.Sprintf("dashboard:owner:%d", id)
}

// invalidateDashboard drops the cached dashboard for the affected owner
// and the cross-tenant superuser view. Cache errors are ignored; the next
// read recomputes.
func invalidateDashboard(cache *services.RedisCache, ctx context.Context, ownerID uint) {
	if cache == nil {
		return
	}
	_ = cache.Delete(ctx, dashboardCacheKey(scope.OwnedBy(ownerID)), dashboardCacheKey(scope.All()))
}
