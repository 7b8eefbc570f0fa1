package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		FitnessLevel: "intermediate",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport, source, title string, start time.Time, durationMin int) *types.Activity {
	tb.Helper()
	end := start.Add(time.Duration(durationMin) * time.Minute)
	a := &types.Activity{
		ID:              uuid.New(),
		UserID:          userID,
		Sport:           sport,
		Title:           title,
		StartTime:       start,
		EndTime:         &end,
		DurationMinutes: PtrInt(durationMin),
		DataSource:      source,
	}
	if source == types.SourceGarmin {
		gid := uuid.NewString()
		a.GarminActivityID = &gid
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return a
}

func SeedGymSet(tb testing.TB, ctx context.Context, tx *gorm.DB, activityID uuid.UUID, exercise string, setIndex int, weightKG float64, reps int) *types.GymWorkoutDetail {
	tb.Helper()
	d := &types.GymWorkoutDetail{
		ID:            uuid.New(),
		ActivityID:    activityID,
		ExerciseTitle: exercise,
		SetIndex:      setIndex,
		SetType:       types.SetTypeNormal,
		WeightKG:      PtrFloat(weightKG),
		Reps:          PtrInt(reps),
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed gym set: %v", err)
	}
	return d
}

func SeedSnapshot(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) *types.DailyHealthSnapshot {
	tb.Helper()
	s := &types.DailyHealthSnapshot{
		ID:                   uuid.New(),
		UserID:               userID,
		SnapshotDate:         date,
		RestingHR:            PtrInt(48),
		SleepScore:           PtrInt(82),
		SleepDurationMinutes: PtrInt(452),
		BodyBatteryHigh:      PtrInt(90),
		BodyBatteryLow:       PtrInt(35),
		TrainingReadiness:    PtrInt(70),
		DataSource:           types.SourceGarmin,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed snapshot: %v", err)
	}
	return s
}

func SeedPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time) *types.WeeklyPlan {
	tb.Helper()
	p := &types.WeeklyPlan{
		ID:            uuid.New(),
		UserID:        userID,
		WeekStart:     weekStart,
		PromptVersion: "v1",
		Status:        types.PlanStatusActive,
		Summary:       "test plan",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed plan: %v", err)
	}
	return p
}

func SeedPlannedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, planID uuid.UUID, dayOfWeek int, sport, title string) *types.PlannedSession {
	tb.Helper()
	s := &types.PlannedSession{
		ID:        uuid.New(),
		PlanID:    planID,
		DayOfWeek: dayOfWeek,
		Sport:     sport,
		Title:     title,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed planned session: %v", err)
	}
	return s
}

func SeedAvailability(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time, dayOfWeek int, startTime string, durationMin int) *types.WeeklyAvailability {
	tb.Helper()
	a := &types.WeeklyAvailability{
		ID:              uuid.New(),
		UserID:          userID,
		WeekStart:       weekStart,
		DayOfWeek:       dayOfWeek,
		StartTime:       startTime,
		DurationMinutes: durationMin,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed availability: %v", err)
	}
	return a
}

func PtrInt(v int) *int             { return &v }
func PtrFloat(v float64) *float64   { return &v }
func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
func PtrTime(v time.Time) *time.Time { return &v }
func PtrString(v string) *string     { return &v }
