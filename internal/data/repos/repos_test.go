package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	"github.com/yungbote/mycoach-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mycoach-backend/internal/domain"
)

func TestActivityRepoListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := repos.NewActivityRepo(db, log)

	user := testutil.SeedUser(t, ctx, tx, "activities@test.local")
	base := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	gym := testutil.SeedActivity(t, ctx, tx, user.ID, types.SportGym, types.SourceHevy, "Push Day", base, 60)
	testutil.SeedActivity(t, ctx, tx, user.ID, types.SportCardio, types.SourceGarmin, "Morning Run", base.AddDate(0, 0, 1), 45)
	testutil.SeedActivity(t, ctx, tx, user.ID, types.SportGym, types.SourceMerged, "Pull Day", base.AddDate(0, 0, 2), 55)

	got, err := repo.List(ctx, tx, user.ID, repos.ActivityFilter{Sport: types.SportGym})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("gym filter returned %d rows, want 2", len(got))
	}

	from := base.AddDate(0, 0, 1)
	got, err = repo.List(ctx, tx, user.ID, repos.ActivityFilter{From: &from})
	if err != nil {
		t.Fatalf("List from: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("from filter returned %d rows, want 2", len(got))
	}

	got, err = repo.List(ctx, tx, user.ID, repos.ActivityFilter{Limit: 1})
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("limit filter returned %d rows, want 1", len(got))
	}

	similar, err := repo.ListSimilar(ctx, tx, user.ID, types.SportGym, gym.ID, 5)
	if err != nil {
		t.Fatalf("ListSimilar: %v", err)
	}
	if len(similar) != 1 || similar[0].Title != "Pull Day" {
		t.Fatalf("ListSimilar = %+v, want only Pull Day", similar)
	}
}

func TestActivityRepoListForMergeSkipsMerged(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := repos.NewActivityRepo(db, log)

	user := testutil.SeedUser(t, ctx, tx, "merge-candidates@test.local")
	base := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	testutil.SeedActivity(t, ctx, tx, user.ID, types.SportGym, types.SourceHevy, "Hevy Gym", base, 60)
	testutil.SeedActivity(t, ctx, tx, user.ID, types.SportGym, types.SourceMerged, "Merged Gym", base.Add(time.Hour), 60)

	got, err := repo.ListForMerge(ctx, tx, user.ID, types.SportGym, types.SourceHevy)
	if err != nil {
		t.Fatalf("ListForMerge: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Hevy Gym" {
		t.Fatalf("ListForMerge = %+v, want only Hevy Gym", got)
	}
}

func TestHealthSnapshotListRangeBounds(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := repos.NewHealthSnapshotRepo(db, log)

	user := testutil.SeedUser(t, ctx, tx, "snapshots@test.local")
	for day := 1; day <= 5; day++ {
		testutil.SeedSnapshot(t, ctx, tx, user.ID, time.Date(2025, 7, day, 0, 0, 0, 0, time.UTC))
	}

	from := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	got, err := repo.ListRange(ctx, tx, user.ID, from, to, true)
	if err != nil {
		t.Fatalf("ListRange: %v", err)
	}
	// from is exclusive, to inclusive.
	if len(got) != 2 {
		t.Fatalf("ListRange returned %d rows, want 2", len(got))
	}
	if !got[0].SnapshotDate.After(got[1].SnapshotDate) {
		t.Error("ListRange desc should return newest first")
	}

	ok, err := repo.ExistsForDate(ctx, tx, user.ID, from)
	if err != nil {
		t.Fatalf("ExistsForDate: %v", err)
	}
	if !ok {
		t.Error("ExistsForDate = false for a seeded date")
	}
}

func TestWeeklyPlanGetActiveForWeek(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := repos.NewWeeklyPlanRepo(db, log)

	user := testutil.SeedUser(t, ctx, tx, "plans@test.local")
	weekStart := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)

	old := testutil.SeedPlan(t, ctx, tx, user.ID, weekStart)
	old.Status = types.PlanStatusSuperseded
	if err := repo.Update(ctx, tx, old); err != nil {
		t.Fatalf("Update: %v", err)
	}
	active := testutil.SeedPlan(t, ctx, tx, user.ID, weekStart)

	got, err := repo.GetActiveForWeek(ctx, tx, user.ID, weekStart)
	if err != nil {
		t.Fatalf("GetActiveForWeek: %v", err)
	}
	if got == nil || got.ID != active.ID {
		t.Fatalf("GetActiveForWeek = %+v, want the active plan", got)
	}

	got, err = repo.GetActiveForWeek(ctx, tx, user.ID, weekStart.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("GetActiveForWeek next week: %v", err)
	}
	if got != nil {
		t.Fatalf("GetActiveForWeek for an empty week = %+v, want nil", got)
	}
}

func TestPlannedSessionFindMatch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := repos.NewPlannedSessionRepo(db, log)

	user := testutil.SeedUser(t, ctx, tx, "sessions@test.local")
	weekStart := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)
	plan := testutil.SeedPlan(t, ctx, tx, user.ID, weekStart)
	want := testutil.SeedPlannedSession(t, ctx, tx, plan.ID, 2, types.SportGym, "Upper Body")
	testutil.SeedPlannedSession(t, ctx, tx, plan.ID, 2, types.SportCardio, "Zone 2 Run")

	got, err := repo.FindMatch(ctx, tx, user.ID, weekStart, 2, types.SportGym)
	if err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if got == nil || got.ID != want.ID {
		t.Fatalf("FindMatch = %+v, want %s", got, want.ID)
	}

	got, err = repo.FindMatch(ctx, tx, user.ID, weekStart, 3, types.SportGym)
	if err != nil {
		t.Fatalf("FindMatch other day: %v", err)
	}
	if got != nil {
		t.Fatalf("FindMatch on a day without sessions = %+v, want nil", got)
	}

	// Superseded plans never match.
	plan.Status = types.PlanStatusSuperseded
	if err := repos.NewWeeklyPlanRepo(db, log).Update(ctx, tx, plan); err != nil {
		t.Fatalf("supersede plan: %v", err)
	}
	got, err = repo.FindMatch(ctx, tx, user.ID, weekStart, 2, types.SportGym)
	if err != nil {
		t.Fatalf("FindMatch superseded: %v", err)
	}
	if got != nil {
		t.Fatalf("FindMatch against a superseded plan = %+v, want nil", got)
	}
}

func TestAvailabilityReplaceWeek(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := repos.NewAvailabilityRepo(db, log)

	user := testutil.SeedUser(t, ctx, tx, "availability@test.local")
	weekStart := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)
	testutil.SeedAvailability(t, ctx, tx, user.ID, weekStart, 0, "07:00", 60)
	testutil.SeedAvailability(t, ctx, tx, user.ID, weekStart, 2, "18:00", 45)

	replaced, err := repo.ReplaceWeek(ctx, tx, user.ID, weekStart, []*types.WeeklyAvailability{
		{UserID: user.ID, WeekStart: weekStart, DayOfWeek: 4, StartTime: "06:30", DurationMinutes: 90},
	})
	if err != nil {
		t.Fatalf("ReplaceWeek: %v", err)
	}
	if len(replaced) != 1 {
		t.Fatalf("ReplaceWeek returned %d rows, want 1", len(replaced))
	}

	got, err := repo.ListForWeek(ctx, tx, user.ID, weekStart)
	if err != nil {
		t.Fatalf("ListForWeek: %v", err)
	}
	if len(got) != 1 || got[0].DayOfWeek != 4 {
		t.Fatalf("ListForWeek after replace = %+v, want the single new slot", got)
	}
}

func TestInsightCountByType(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := repos.NewCoachingInsightRepo(db, log)

	user := testutil.SeedUser(t, ctx, tx, "insights@test.local")
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	rows := []*types.CoachingInsight{
		{UserID: user.ID, InsightDate: day, InsightType: types.InsightDailyBriefing, Content: "{}", PromptVersion: "v1"},
		{UserID: user.ID, InsightDate: day.AddDate(0, 0, 1), InsightType: types.InsightDailyBriefing, Content: "{}", PromptVersion: "v1"},
		{UserID: user.ID, InsightDate: day, InsightType: types.InsightSleep, Content: "{}", PromptVersion: "v1"},
	}
	if _, err := repo.Create(ctx, tx, rows); err != nil {
		t.Fatalf("Create: %v", err)
	}

	counts, err := repo.CountByType(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("CountByType: %v", err)
	}
	if counts[types.InsightDailyBriefing] != 2 || counts[types.InsightSleep] != 1 {
		t.Fatalf("CountByType = %v", counts)
	}
}

func TestDataSourceConfigUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()
	repo := repos.NewDataSourceConfigRepo(db, log)

	user := testutil.SeedUser(t, ctx, tx, "sourceconfig@test.local")

	first, err := repo.Upsert(ctx, tx, &types.DataSourceConfig{
		UserID:               user.ID,
		SourceType:           types.SourceGarmin,
		CredentialsEncrypted: "sealed-1",
		Enabled:              true,
	})
	if err != nil {
		t.Fatalf("Upsert create: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatal("Upsert did not assign an id")
	}

	second, err := repo.Upsert(ctx, tx, &types.DataSourceConfig{
		UserID:               user.ID,
		SourceType:           types.SourceGarmin,
		CredentialsEncrypted: "sealed-2",
		Enabled:              false,
	})
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Upsert created a second row: %s vs %s", second.ID, first.ID)
	}
	if second.CredentialsEncrypted != "sealed-2" || second.Enabled {
		t.Errorf("Upsert did not update fields: %+v", second)
	}
}
