package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"gymdesk/internal/scope"
)

func testContext(t *testing.T, query string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec)
}

func TestPhonePattern(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "ten digits",
			input:    "9876543210",
			expected: true,
		},
		{
			name:     "with plus prefix",
			input:    "+919876543210",
			expected: true,
		},
		{
			name:     "too short",
			input:    "12345678",
			expected: false,
		},
		{
			name:     "too long",
			input:    "1234567890123456",
			expected: false,
		},
		{
			name:     "contains letters",
			input:    "98765abcde",
			expected: false,
		},
		{
			name:     "contains spaces",
			input:    "98765 43210",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := phonePattern.MatchString(tt.input); got != tt.expected {
				t.Errorf("phonePattern.MatchString(%q) = %v; want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{
			name:       "defaults",
			query:      "",
			wantPage:   1,
			wantSize:   10,
			wantOffset: 0,
		},
		{
			name:       "explicit page and size",
			query:      "page=3&page_size=25",
			wantPage:   3,
			wantSize:   25,
			wantOffset: 50,
		},
		{
			name:       "size capped",
			query:      "page_size=500",
			wantPage:   1,
			wantSize:   100,
			wantOffset: 0,
		},
		{
			name:       "garbage falls back to defaults",
			query:      "page=abc&page_size=-4",
			wantPage:   1,
			wantSize:   10,
			wantOffset: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pagination(testContext(t, tt.query))
			if p.page != tt.wantPage || p.pageSize != tt.wantSize || p.offset() != tt.wantOffset {
				t.Errorf("pagination(%q) = page=%d size=%d offset=%d; want page=%d size=%d offset=%d",
					tt.query, p.page, p.pageSize, p.offset(), tt.wantPage, tt.wantSize, tt.wantOffset)
			}
		})
	}
}

func TestOrdering(t *testing.T) {
	allowed := map[string]string{
		"name":       "name",
		"created_at": "created_at",
	}

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{
			name:     "empty uses fallback",
			query:    "",
			expected: "created_at DESC",
		},
		{
			name:     "ascending",
			query:    "ordering=name",
			expected: "name ASC",
		},
		{
			name:     "descending",
			query:    "ordering=-name",
			expected: "name DESC",
		},
		{
			name:     "unknown column uses fallback",
			query:    "ordering=password_hash",
			expected: "created_at DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ordering(testContext(t, tt.query), allowed, "created_at DESC")
			if got != tt.expected {
				t.Errorf("ordering(%q) = %q; want %q", tt.query, got, tt.expected)
			}
		})
	}
}

func TestDashboardCacheKey(t *testing.T) {
	if got := dashboardCacheKey(scope.All()); got != "dashboard:all" {
		t.Errorf("dashboardCacheKey(All) = %q; want dashboard:all", got)
	}
	if got := dashboardCacheKey(scope.OwnedBy(7)); got != "dashboard:owner:7" {
		t.Errorf("dashboardCacheKey(OwnedBy(7)) = %q; want dashboard:owner:7", got)
	}
}
