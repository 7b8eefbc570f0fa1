package hevy

import (
	"strings"
	"testing"
)

const sampleHeader = "title,start_time,end_time,description,exercise_title,superset_id,exercise_notes,set_index,set_type,weight_lbs,reps,distance_miles,duration_seconds,rpe"

func TestParseCSVGroupsRowsIntoWorkouts(t *testing.T) {
	csv := strings.Join([]string{
		sampleHeader,
		`Push Day,2025-07-02 18:00:00,2025-07-02 19:05:00,,Bench Press (Barbell),,,0,warmup,135,10,,,`,
		`Push Day,2025-07-02 18:00:00,2025-07-02 19:05:00,,Bench Press (Barbell),,,1,normal,185,8,,,8.5`,
		`Pull Day,2025-07-04 18:30:00,2025-07-04 19:40:00,,Deadlift (Barbell),,,0,normal,225,5,,,`,
	}, "\n")

	res := ParseCSV(csv)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Workouts) != 2 {
		t.Fatalf("expected 2 workouts, got %d", len(res.Workouts))
	}
	if res.RowsParsed != 3 {
		t.Fatalf("expected 3 rows parsed, got %d", res.RowsParsed)
	}

	push := res.Workouts[0]
	if push.Title != "Push Day" {
		t.Fatalf("expected first workout Push Day, got %q", push.Title)
	}
	if len(push.Sets) != 2 {
		t.Fatalf("expected 2 sets, got %d", len(push.Sets))
	}
	if push.EndTime == nil {
		t.Fatal("expected end time parsed")
	}
	if got := push.EndTime.Sub(push.StartTime).Minutes(); got != 65 {
		t.Fatalf("expected 65 minute workout, got %v", got)
	}
}

func TestParseCSVConvertsUnits(t *testing.T) {
	csv := strings.Join([]string{
		sampleHeader,
		`Legs,2025-07-02 18:00:00,,,Squat (Barbell),,,0,normal,225,5,,,`,
		`Run,2025-07-02 18:00:00,,,Treadmill Run,,,0,normal,,,1.5,600,`,
	}, "\n")

	res := ParseCSV(csv)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}

	squat := res.Workouts[0].Sets[0]
	if squat.WeightKG == nil || *squat.WeightKG != 102.06 {
		t.Fatalf("expected 225 lbs -> 102.06 kg, got %v", squat.WeightKG)
	}

	run := res.Workouts[1].Sets[0]
	if run.DistanceMeters == nil || *run.DistanceMeters != 2414.0 {
		t.Fatalf("expected 1.5 mi -> 2414.0 m, got %v", run.DistanceMeters)
	}
	if run.DurationSeconds == nil || *run.DurationSeconds != 600 {
		t.Fatalf("expected 600s duration, got %v", run.DurationSeconds)
	}
}

func TestParseCSVStripsBOM(t *testing.T) {
	csv := "\ufeff" + strings.Join([]string{
		sampleHeader,
		`Push Day,2025-07-02 18:00:00,,,Bench Press (Barbell),,,0,normal,135,10,,,`,
	}, "\n")

	res := ParseCSV(csv)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if len(res.Workouts) != 1 {
		t.Fatalf("expected 1 workout, got %d", len(res.Workouts))
	}
}

func TestParseCSVMissingRequiredColumns(t *testing.T) {
	res := ParseCSV("title,start_time\nPush Day,2025-07-02 18:00:00")
	if len(res.Errors) != 1 {
		t.Fatalf("expected one error, got %v", res.Errors)
	}
	if !strings.Contains(res.Errors[0], "Missing required columns") {
		t.Fatalf("unexpected error: %s", res.Errors[0])
	}
	if len(res.Workouts) != 0 {
		t.Fatal("expected no workouts")
	}
}

func TestParseCSVBadRowsAreSkippedWithRowNumbers(t *testing.T) {
	csv := strings.Join([]string{
		sampleHeader,
		`,2025-07-02 18:00:00,,,Bench Press (Barbell),,,0,normal,,,,,`,
		`Push Day,not-a-date,,,Bench Press (Barbell),,,0,normal,,,,,`,
		`Push Day,2025-07-02 18:00:00,,,Bench Press (Barbell),,,notanumber,normal,,,,,`,
		`Push Day,2025-07-02 18:00:00,,,Bench Press (Barbell),,,0,normal,135,10,,,`,
	}, "\n")

	res := ParseCSV(csv)
	if res.RowsSkipped != 3 {
		t.Fatalf("expected 3 rows skipped, got %d (%v)", res.RowsSkipped, res.Errors)
	}
	if res.RowsParsed != 1 {
		t.Fatalf("expected 1 row parsed, got %d", res.RowsParsed)
	}
	// Data rows are numbered from 2; the header is row 1.
	if !strings.Contains(res.Errors[0], "Row 2") {
		t.Fatalf("expected row 2 in first error, got %s", res.Errors[0])
	}
	if !strings.Contains(res.Errors[1], "invalid start_time") {
		t.Fatalf("unexpected second error: %s", res.Errors[1])
	}
	if !strings.Contains(res.Errors[2], "set_index") {
		t.Fatalf("unexpected third error: %s", res.Errors[2])
	}
}

func TestParseCSVOutOfRangeRPEIsDropped(t *testing.T) {
	csv := strings.Join([]string{
		sampleHeader,
		`Push Day,2025-07-02 18:00:00,,,Bench Press (Barbell),,,0,normal,135,10,,,11`,
	}, "\n")

	res := ParseCSV(csv)
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "out of range") {
		t.Fatalf("expected RPE range error, got %v", res.Errors)
	}
	// The row itself still parses.
	if res.RowsParsed != 1 {
		t.Fatalf("expected row to parse, got %d", res.RowsParsed)
	}
	if res.Workouts[0].Sets[0].RPE != nil {
		t.Fatal("expected RPE dropped")
	}
}

func TestParseCSVUnknownSetTypeFallsBackToNormal(t *testing.T) {
	csv := strings.Join([]string{
		sampleHeader,
		`Push Day,2025-07-02 18:00:00,,,Bench Press (Barbell),,,0,superset,135,10,,,`,
	}, "\n")

	res := ParseCSV(csv)
	if got := res.Workouts[0].Sets[0].SetType; got != "normal" {
		t.Fatalf("expected normal, got %q", got)
	}
}
