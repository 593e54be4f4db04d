package scope

import (
	"testing"

	"gymdesk/internal/models"
)

func TestForPrincipal(t *testing.T) {
	tests := []struct {
		name    string
		owner   models.Owner
		wantAll bool
	}{
		{
			name:    "superuser gets the unrestricted scope",
			owner:   models.Owner{ID: 1, IsSuperuser: true},
			wantAll: true,
		},
		{
			name:    "regular owner is restricted to own rows",
			owner:   models.Owner{ID: 7},
			wantAll: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := ForPrincipal(tt.owner)
			if sc.IsAll() != tt.wantAll {
				t.Errorf("IsAll() = %v; want %v", sc.IsAll(), tt.wantAll)
			}
			if !tt.wantAll {
				id, ok := sc.OwnerID()
				if !ok || id != tt.owner.ID {
					t.Errorf("OwnerID() = (%d, %v); want (%d, true)", id, ok, tt.owner.ID)
				}
			}
		})
	}
}

func TestAllowsOwner(t *testing.T) {
	tests := []struct {
		name     string
		scope    Scope
		ownerID  uint
		expected bool
	}{
		{
			name:     "unrestricted scope allows any owner",
			scope:    All(),
			ownerID:  42,
			expected: true,
		},
		{
			name:     "restricted scope allows its own owner",
			scope:    OwnedBy(7),
			ownerID:  7,
			expected: true,
		},
		{
			name:     "restricted scope rejects another owner",
			scope:    OwnedBy(7),
			ownerID:  8,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.AllowsOwner(tt.ownerID); got != tt.expected {
				t.Errorf("AllowsOwner(%d) = %v; want %v", tt.ownerID, got, tt.expected)
			}
		})
	}
}

func TestOwnerIDUnrestricted(t *testing.T) {
	if _, ok := All().OwnerID(); ok {
		t.Error("OwnerID() on the unrestricted scope should report false")
	}
}
