package coaching

import (
	"strings"
	"testing"
)

const validBriefingJSON = `{
  "sleep_assessment": "Solid 7.5h with good deep sleep.",
  "recovery_status": "HRV stable, body battery recharged to 92.",
  "readiness_verdict": "go_hard",
  "readiness_explanation": "All recovery markers green.",
  "workout_adjustments": "Proceed with planned intensity.",
  "sleep_recommendation": "Keep the 22:30 bedtime.",
  "key_metrics": {"body_battery": 92, "sleep_score": 84, "resting_hr": 47}
}`

func TestParseDailyBriefingRaw(t *testing.T) {
	r, err := ParseDailyBriefing(validBriefingJSON)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.ReadinessVerdict != "go_hard" {
		t.Fatalf("unexpected verdict %q", r.ReadinessVerdict)
	}
	if r.KeyMetrics.BodyBattery == nil || *r.KeyMetrics.BodyBattery != 92 {
		t.Fatalf("unexpected body battery %v", r.KeyMetrics.BodyBattery)
	}
}

func TestParseDailyBriefingFencedBlock(t *testing.T) {
	wrapped := "Here is the briefing:\n```json\n" + validBriefingJSON + "\n```\nLet me know."
	r, err := ParseDailyBriefing(wrapped)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.SleepAssessment == "" {
		t.Fatal("expected fields populated")
	}
}

func TestParseDailyBriefingProseWithBraces(t *testing.T) {
	wrapped := "Sure thing!\n" + validBriefingJSON + "\nHope that helps."
	if _, err := ParseDailyBriefing(wrapped); err != nil {
		t.Fatalf("parse: %v", err)
	}
}

func TestParseDailyBriefingRejectsBadVerdict(t *testing.T) {
	bad := strings.Replace(validBriefingJSON, "go_hard", "sprint", 1)
	if _, err := ParseDailyBriefing(bad); err == nil {
		t.Fatal("expected enum rejection")
	}
}

func TestParseDailyBriefingRejectsMissingField(t *testing.T) {
	if _, err := ParseDailyBriefing(`{"sleep_assessment": "ok"}`); err == nil {
		t.Fatal("expected missing-field rejection")
	}
}

func TestParseDailyBriefingRejectsNonJSON(t *testing.T) {
	if _, err := ParseDailyBriefing("I could not produce a briefing today."); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestParseWeeklyPlan(t *testing.T) {
	valid := `{
	  "summary": "Two strength days and one swim, easy week.",
	  "sessions": [
	    {"day_of_week": 0, "sport": "gym", "title": "Upper Body", "duration_minutes": 60,
	     "details": {"exercises": ["bench press", "rows"]}, "notes": "Leave a rep in reserve."},
	    {"day_of_week": 3, "sport": "swimming", "title": "Technique Swim"}
	  ]
	}`
	r, err := ParseWeeklyPlan(valid)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(r.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(r.Sessions))
	}
	if r.Sessions[0].Details["exercises"] == nil {
		t.Fatal("expected details carried through")
	}

	if _, err := ParseWeeklyPlan(`{"summary": "empty week", "sessions": []}`); err == nil {
		t.Fatal("expected rejection of zero sessions")
	}
	if _, err := ParseWeeklyPlan(`{"summary": "bad day", "sessions": [{"day_of_week": 7, "sport": "gym", "title": "X"}]}`); err == nil {
		t.Fatal("expected rejection of day_of_week 7")
	}
}

func TestParsePostWorkout(t *testing.T) {
	valid := `{
	  "performance_summary": "Solid session.",
	  "planned_vs_actual": "Matched planned workout.",
	  "performance_trends": "Improving steadily.",
	  "hr_analysis": "Average HR 130bpm, zone 2-3.",
	  "training_effect_assessment": "Good aerobic stimulus.",
	  "key_highlights": ["PR on bench press"],
	  "areas_for_improvement": ["Rest times"],
	  "next_session_recommendations": "Add 2.5kg.",
	  "recovery_notes": "Sleep 7+ hours."
	}`
	r, err := ParsePostWorkout(valid)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(r.KeyHighlights) != 1 {
		t.Fatalf("unexpected highlights %v", r.KeyHighlights)
	}

	empty := strings.Replace(valid, `["PR on bench press"]`, `[]`, 1)
	if _, err := ParsePostWorkout(empty); err == nil {
		t.Fatal("expected rejection of empty key_highlights")
	}
}

func TestParseSleepCoaching(t *testing.T) {
	valid := `{
	  "sleep_quality_summary": "Good quality overall.",
	  "consistency_analysis": "Bedtime varies by 45 min.",
	  "sleep_architecture": "Healthy deep/REM split.",
	  "performance_correlation": "Sleep tracks readiness well.",
	  "recommended_bedtime": "22:30",
	  "recommended_wake_time": "06:00",
	  "sleep_debt_assessment": "No significant debt.",
	  "hygiene_tips": ["No screens after 21:30", "Keep the room at 18C"],
	  "key_concern": "None"
	}`
	r, err := ParseSleepCoaching(valid)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.RecommendedBedtime != "22:30" {
		t.Fatalf("unexpected bedtime %q", r.RecommendedBedtime)
	}

	oneTip := strings.Replace(valid, `["No screens after 21:30", "Keep the room at 18C"]`, `["Only one"]`, 1)
	if _, err := ParseSleepCoaching(oneTip); err == nil {
		t.Fatal("expected rejection of a single hygiene tip")
	}
}

func TestExtractJSONPrefersFencedBlock(t *testing.T) {
	text := "intro {\"decoy\": true}\n```\n{\"a\": 1}\n```"
	if got := ExtractJSON(text); got != `{"a": 1}` {
		t.Fatalf("unexpected extraction %q", got)
	}
}
