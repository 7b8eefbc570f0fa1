package services

import (
	"testing"

	types "github.com/yungbote/mycoach-backend/internal/domain"
)

func TestComputeAdherence(t *testing.T) {
	if got := ComputeAdherence(nil); got.AdherencePct != 0.0 || got.TotalSessions != 0 {
		t.Fatalf("empty plan: %+v", got)
	}

	sessions := []*types.PlannedSession{
		{Completed: true},
		{Completed: true},
		{Completed: false},
	}
	got := ComputeAdherence(sessions)
	if got.TotalSessions != 3 || got.CompletedSessions != 2 {
		t.Fatalf("counts: %+v", got)
	}
	if got.AdherencePct != 66.7 {
		t.Fatalf("pct = %v, want 66.7", got.AdherencePct)
	}
}

func TestWrapLine(t *testing.T) {
	lines := wrapLine("Upper Body Strength Session", 12)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	for _, l := range lines {
		if len(l) > 12+15 {
			t.Fatalf("line too long: %q", l)
		}
	}
	if got := truncateLine("short", 20); got != "short" {
		t.Fatalf("truncateLine short: %q", got)
	}
	if got := truncateLine("aaaaaaaaaaaaaaaaaaaaaaaaa", 10); len(got) != 10 {
		t.Fatalf("truncateLine long: %q", got)
	}
}
