package models

import "testing"

// TestPartyTier verifies that the display tier is derived from substrings of
// the status, case-insensitively, with "national" taking precedence.
func TestPartyTier(t *testing.T) {
	tests := []struct {
		name   string
		status *string
		want   PartyTier
	}{
		{name: "national party", status: strPtr("National Party"), want: TierNational},
		{name: "lowercase national", status: strPtr("recognised national party"), want: TierNational},
		{name: "state party", status: strPtr("State Party"), want: TierState},
		{name: "uppercase STATE", status: strPtr("STATE-RECOGNISED"), want: TierState},
		{name: "both substrings", status: strPtr("National (formerly State)"), want: TierNational},
		{name: "unrecognised", status: strPtr("Registered (Unrecognised)"), want: TierNone},
		{name: "nil status", status: nil, want: TierNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Party{Status: tt.status}
			if got := p.Tier(); got != tt.want {
				t.Errorf("Party{Status: %q}.Tier() = %q, want %q", Deref(tt.status), got, tt.want)
			}
		})
	}
}

func TestDerefAndIntOrZero(t *testing.T) {
	if got := Deref(nil); got != "" {
		t.Errorf("Deref(nil) = %q, want empty", got)
	}
	if got := Deref(strPtr("x")); got != "x" {
		t.Errorf("Deref(x) = %q, want x", got)
	}
	if got := IntOrZero(nil); got != 0 {
		t.Errorf("IntOrZero(nil) = %d, want 0", got)
	}
	n := 7
	if got := IntOrZero(&n); got != 7 {
		t.Errorf("IntOrZero(7) = %d, want 7", got)
	}
}

func strPtr(s string) *string { return &s }
