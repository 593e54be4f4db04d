package middleware

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

const uniqueViolation = "23505"

// ValidationError carries field-level detail for malformed or
// cross-tenant-inconsistent input. The request has no side effect.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// JSONErrorHandler renders every error as a JSON body. Validation errors
// become 400 with a fields map; rows outside the caller's tenant scope
// surface as plain 404s upstream, indistinguishable from absent rows.
func JSONErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		_ = c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
		return
	}

	// Unique violations that race past the pre-insert checks (concurrent
	// registrations, duplicate receipt numbers) are conflicts, not crashes.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		_ = c.JSON(http.StatusConflict, map[string]string{"error": "duplicate value violates a unique constraint"})
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok && msg != "" {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	_ = c.JSON(code, map[string]string{"error": message})
}
