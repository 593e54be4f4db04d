package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

func renderError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	JSONErrorHandler(err, c)
	return rec
}

func TestJSONErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "validation error",
			err:      NewValidationError("phone", "Invalid phone."),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"validation failed","fields":{"phone":"Invalid phone."}}`,
		},
		{
			name:     "http error passes through",
			err:      echo.NewHTTPError(http.StatusNotFound, "Member not found"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Member not found"}`,
		},
		{
			name:     "unique violation maps to conflict",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "idx_owners_username"},
			wantCode: http.StatusConflict,
			wantBody: `{"error":"duplicate value violates a unique constraint"}`,
		},
		{
			name:     "wrapped unique violation",
			err:      fmt.Errorf("create owner: %w", &pgconn.PgError{Code: "23505"}),
			wantCode: http.StatusConflict,
			wantBody: `{"error":"duplicate value violates a unique constraint"}`,
		},
		{
			name:     "other pg error stays internal",
			err:      &pgconn.PgError{Code: "23503"},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"internal server error"}`,
		},
		{
			name:     "unknown error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := renderError(t, tt.err)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d; want %d", rec.Code, tt.wantCode)
			}

			var got, want interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
			}
			if err := json.Unmarshal([]byte(tt.wantBody), &want); err != nil {
				t.Fatalf("bad expectation: %v", err)
			}
			if fmt.Sprint(got) != fmt.Sprint(want) {
				t.Errorf("body = %s; want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}
