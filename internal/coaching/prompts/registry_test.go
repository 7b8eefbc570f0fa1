package prompts

import (
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	RegisterAll()
	m.Run()
}

func TestBuildDailyBriefingRendersFields(t *testing.T) {
	p, err := Build(PromptDailyBriefing, Input{
		HealthToday:      "- Resting HR: 47",
		HealthTrends:     "No recent health data.",
		RecentActivities: "- 2025-07-01: Push Day [gym]",
		PlannedWorkout:   "No planned workout for today.",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.Name != "daily_briefing" || p.Version != 1 {
		t.Fatalf("unexpected identity %s v%d", p.Name, p.Version)
	}
	if p.VersionTag() != "v1" {
		t.Fatalf("unexpected version tag %q", p.VersionTag())
	}
	if !strings.Contains(p.User, "Resting HR: 47") {
		t.Fatal("health block not rendered")
	}
	if !strings.Contains(p.User, "readiness_verdict") {
		t.Fatal("output contract missing from user prompt")
	}
	if !strings.Contains(p.System, "JSON") {
		t.Fatal("system prompt missing JSON instruction")
	}
}

func TestBuildUnknownPromptFails(t *testing.T) {
	if _, err := Build(PromptName("nope"), Input{}); err == nil {
		t.Fatal("expected error for unknown prompt")
	}
}

func TestBuildWeeklyPlanRequiresAvailability(t *testing.T) {
	if _, err := Build(PromptWeeklyPlan, Input{}); err == nil {
		t.Fatal("expected validator to reject empty availability")
	}

	p, err := Build(PromptWeeklyPlan, Input{
		Availability:     "- Monday at 07:00 (60 min) - gym",
		MesocycleContext: "No mesocycle configured. Use general progressive programming.",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(p.User, "Monday at 07:00") {
		t.Fatal("availability block not rendered")
	}
}

func TestBuildPostWorkoutRequiresActivity(t *testing.T) {
	if _, err := Build(PromptPostWorkout, Input{}); err == nil {
		t.Fatal("expected validator to reject missing activity")
	}
}

func TestBuildSleepCoachingRendersTrends(t *testing.T) {
	p, err := Build(PromptSleepCoaching, Input{
		SleepTrends:     "### 2025-07-01\n- Sleep score: 85",
		TomorrowWorkout: "No workout planned for tomorrow.",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(p.User, "Sleep score: 85") {
		t.Fatal("sleep trends not rendered")
	}
	if !strings.Contains(p.User, "hygiene_tips") {
		t.Fatal("output contract missing")
	}
}
