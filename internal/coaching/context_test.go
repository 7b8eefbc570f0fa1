package coaching

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/mycoach-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mycoach-backend/internal/domain"
)

func TestMondayIndexedWeekday(t *testing.T) {
	// 2025-07-07 is a Monday.
	monday := time.Date(2025, 7, 7, 10, 0, 0, 0, time.UTC)
	if got := MondayIndexedWeekday(monday); got != 0 {
		t.Fatalf("monday = %d", got)
	}
	sunday := monday.AddDate(0, 0, 6)
	if got := MondayIndexedWeekday(sunday); got != 6 {
		t.Fatalf("sunday = %d", got)
	}
	if got := MondayOf(sunday); !got.Equal(time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("MondayOf(sunday) = %v", got)
	}
	if got := MondayOf(monday); !got.Equal(time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("MondayOf(monday) = %v", got)
	}
}

func TestFormatHealthEmptyStates(t *testing.T) {
	if got := formatHealth(nil); got != "No health data available for today." {
		t.Fatalf("nil snapshot: %q", got)
	}
	if got := formatHealth(&types.DailyHealthSnapshot{}); got != "No health data available for today." {
		t.Fatalf("empty snapshot: %q", got)
	}
}

func TestFormatHealthFields(t *testing.T) {
	s := &types.DailyHealthSnapshot{
		RestingHR:            testutil.PtrInt(47),
		SleepDurationMinutes: testutil.PtrInt(452),
		SleepScore:           testutil.PtrInt(84),
		TrainingStatus:       "productive",
		VO2Max:               testutil.PtrFloat(51.0),
	}
	got := formatHealth(s)
	for _, want := range []string{"- Resting HR: 47", "- Sleep duration (min): 452", "- Sleep score: 84", "- Training status: productive", "- VO2 max: 51"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatActivities(t *testing.T) {
	if got := formatActivities(nil); got != "No recent activities." {
		t.Fatalf("empty: %q", got)
	}
	acts := []*types.Activity{{
		Title:           "Push Day",
		Sport:           types.SportGym,
		StartTime:       time.Date(2025, 7, 2, 18, 0, 0, 0, time.UTC),
		DurationMinutes: testutil.PtrInt(60),
	}}
	got := formatActivities(acts)
	if got != "- 2025-07-02 18:00: Push Day [gym] (60 min)" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestFormatAvailability(t *testing.T) {
	if got := formatAvailability(nil); got != "No availability slots set." {
		t.Fatalf("empty: %q", got)
	}
	slots := []*types.WeeklyAvailability{
		{DayOfWeek: 0, StartTime: "07:00", DurationMinutes: 60, PreferredSport: types.SportGym},
		{DayOfWeek: 6, StartTime: "09:30", DurationMinutes: 45},
	}
	got := formatAvailability(slots)
	if !strings.Contains(got, "- Monday at 07:00 (60 min) - gym") {
		t.Fatalf("monday line missing:\n%s", got)
	}
	if !strings.Contains(got, "- Sunday at 09:30 (45 min) - any") {
		t.Fatalf("sunday line missing:\n%s", got)
	}
}

func TestFormatMesocyclesEmpty(t *testing.T) {
	got := formatMesocycles(nil)
	if got != "No mesocycle configured. Use general progressive programming." {
		t.Fatalf("empty: %q", got)
	}
}

func TestFormatGymDetailsGroupsByExercise(t *testing.T) {
	if got := formatGymDetails(nil); got != "No gym workout details recorded." {
		t.Fatalf("empty: %q", got)
	}
	details := []*types.GymWorkoutDetail{
		{ExerciseTitle: "Bench Press", SetIndex: 1, SetType: "warmup", WeightKG: testutil.PtrFloat(40), Reps: testutil.PtrInt(10)},
		{ExerciseTitle: "Bench Press", SetIndex: 2, SetType: "normal", WeightKG: testutil.PtrFloat(80), Reps: testutil.PtrInt(8), RPE: testutil.PtrFloat(7.5)},
		{ExerciseTitle: "Row", SetIndex: 1, SetType: "normal", WeightKG: testutil.PtrFloat(60), Reps: testutil.PtrInt(10)},
	}
	got := formatGymDetails(details)
	if strings.Count(got, "**Bench Press**") != 1 {
		t.Fatalf("expected one Bench Press header:\n%s", got)
	}
	for _, want := range []string{"**Row**", "80.0kg", "x8", "RPE 7.5", "(warmup)"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "(normal)") {
		t.Fatal("normal sets must not carry a set-type suffix")
	}
}

func TestFormatPlannedSession(t *testing.T) {
	if got := formatPlannedSession(nil); got != "No planned session matched this workout." {
		t.Fatalf("nil: %q", got)
	}
	s := &types.PlannedSession{
		Title:           "Upper Body Strength",
		Sport:           types.SportGym,
		DurationMinutes: testutil.PtrInt(60),
		Notes:           "Focus on form",
	}
	got := formatPlannedSession(s)
	if !strings.Contains(got, "Upper Body Strength") || !strings.Contains(got, "Focus on form") {
		t.Fatalf("unexpected block:\n%s", got)
	}
}

func TestFormatSleepTrends(t *testing.T) {
	if got := formatSleepTrends(nil); got != "No sleep data available." {
		t.Fatalf("empty: %q", got)
	}
	snaps := []*types.DailyHealthSnapshot{
		{
			SnapshotDate:         time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			SleepDurationMinutes: testutil.PtrInt(450),
			SleepScore:           testutil.PtrInt(85),
			RestingHR:            testutil.PtrInt(52),
		},
		{
			SnapshotDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			SleepScore:   testutil.PtrInt(78),
		},
	}
	got := formatSleepTrends(snaps)
	for _, want := range []string{"### 2025-07-01", "- Sleep duration (min): 450", "- Sleep score: 85", "- Resting HR: 52", "### 2025-06-30"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatActivityDetail(t *testing.T) {
	if got := formatActivityDetail(nil); got != "No activity data." {
		t.Fatalf("nil: %q", got)
	}
	a := &types.Activity{
		Title:                 "Upper Body",
		Sport:                 types.SportGym,
		StartTime:             time.Date(2025, 7, 2, 9, 0, 0, 0, time.UTC),
		DurationMinutes:       testutil.PtrInt(60),
		AvgHR:                 testutil.PtrInt(130),
		TrainingEffectAerobic: testutil.PtrFloat(3.2),
	}
	got := formatActivityDetail(a)
	for _, want := range []string{"Upper Body", "gym", "- Avg HR: 130", "- Aerobic training effect: 3.2"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}
