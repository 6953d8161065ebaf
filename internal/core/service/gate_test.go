package service

import (
	"testing"

	"github.com/growthai/guardrail-engine/internal/core/domain"
)

func TestEmotionalLockGate_IsActive(t *testing.T) {
	cases := []struct {
		mood int
		want bool
	}{
		{0, false}, // not answered yet
		{1, true},
		{2, true},
		{3, false},
		{4, false},
		{5, false},
	}

	var gate EmotionalLockGate
	for _, tc := range cases {
		got := gate.IsActive(domain.Profile{MoodScore: tc.mood})
		if got != tc.want {
			t.Errorf("mood %d: expected active=%v, got %v", tc.mood, tc.want, got)
		}
	}
}

func TestEmotionalLockGate_Advisory(t *testing.T) {
	var gate EmotionalLockGate

	if got := gate.Advisory(domain.Profile{MoodScore: 2}); got != emotionalLockAdvisory {
		t.Errorf("expected advisory under lock, got %q", got)
	}
	if got := gate.Advisory(domain.Profile{MoodScore: 3}); got != "" {
		t.Errorf("expected no advisory without lock, got %q", got)
	}
}
