package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"gymdesk/internal/middleware"
)

func jsonContext(t *testing.T, body string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec)
}

// Every update request accepts an empty body: omitted fields mean
// "keep the stored value", so nothing is required.
func TestUpdateRequestsAllowEmptyBody(t *testing.T) {
	tests := []struct {
		name string
		dst  interface{}
	}{
		{name: "member", dst: &memberUpdateRequest{}},
		{name: "trainer", dst: &trainerUpdateRequest{}},
		{name: "gym", dst: &gymUpdateRequest{}},
		{name: "payment", dst: &paymentUpdateRequest{}},
		{name: "trainer payment", dst: &trainerPaymentUpdateRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := bindAndValidate(jsonContext(t, "{}"), tt.dst); err != nil {
				t.Errorf("bindAndValidate({}) = %v; want nil", err)
			}
		})
	}
}

// Create requests keep their required fields; an empty body must fail.
func TestCreateRequestsRejectEmptyBody(t *testing.T) {
	tests := []struct {
		name      string
		dst       interface{}
		wantField string
	}{
		{name: "member", dst: &memberRequest{}, wantField: "name"},
		{name: "trainer", dst: &trainerRequest{}, wantField: "name"},
		{name: "gym", dst: &gymRequest{}, wantField: "name"},
		{name: "payment", dst: &paymentRequest{}, wantField: "member"},
		{name: "trainer payment", dst: &trainerPaymentRequest{}, wantField: "trainer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bindAndValidate(jsonContext(t, "{}"), tt.dst)
			var verr *middleware.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("bindAndValidate({}) = %v; want *middleware.ValidationError", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("validation fields = %v; want %q present", verr.Fields, tt.wantField)
			}
		})
	}
}

// Provided fields are still validated even though they are optional.
func TestUpdateRequestsValidateProvidedFields(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		dst       interface{}
		wantField string
	}{
		{
			name:      "bad phone on trainer",
			body:      `{"phone": "nope"}`,
			dst:       &trainerUpdateRequest{},
			wantField: "phone",
		},
		{
			name:      "bad payment mode",
			body:      `{"payment_mode": "Barter"}`,
			dst:       &paymentUpdateRequest{},
			wantField: "payment_mode",
		},
		{
			name:      "bad member status",
			body:      `{"status": "DORMANT"}`,
			dst:       &memberUpdateRequest{},
			wantField: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bindAndValidate(jsonContext(t, tt.body), tt.dst)
			var verr *middleware.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("bindAndValidate(%s) = %v; want *middleware.ValidationError", tt.body, err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("validation fields = %v; want %q present", verr.Fields, tt.wantField)
			}
		})
	}
}
