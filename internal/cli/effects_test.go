package cli

import (
	"strings"
	"testing"
)

func TestShortEffectName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"wear_effect", "wear"},
		{"tilt_transform", "tilt"},
		{"geometric_distortion", "geometric_distortion"},
	}
	for _, tt := range tests {
		if got := shortEffectName(tt.in); got != tt.want {
			t.Errorf("shortEffectName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConflictCell(t *testing.T) {
	cell := conflictCell("tilt_transform")
	if !strings.Contains(cell, "perspective") {
		t.Errorf("conflictCell(tilt_transform) = %q, want perspective listed", cell)
	}

	// Aging effects conflict with nothing.
	if got := conflictCell("wear_effect"); got != "-" {
		t.Errorf("conflictCell(wear_effect) = %q, want -", got)
	}
}
