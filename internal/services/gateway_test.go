package services

import (
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "local number with leading zero",
			input:    "09876543210",
			expected: "919876543210",
		},
		{
			name:     "number with country code",
			input:    "919876543210",
			expected: "919876543210",
		},
		{
			name:     "plus prefix",
			input:    "+919876543210",
			expected: "919876543210",
		},
		{
			name:     "spaces and dashes",
			input:    "+91 98765-43210",
			expected: "919876543210",
		},
		{
			name:     "surrounding whitespace",
			input:    "  +919876543210 ",
			expected: "919876543210",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizePhone(tt.input, "91")
			if result != tt.expected {
				t.Errorf("NormalizePhone(%q) = %q; want %q", tt.input, result, tt.expected)
			}
		})
	}
}
