package hevy

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	"github.com/yungbote/mycoach-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mycoach-backend/internal/domain"
)

func TestImportCreatesActivityWithDetails(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "hevy-import@test.local")

	activityRepo := repos.NewActivityRepo(db, log)
	detailRepo := repos.NewGymWorkoutDetailRepo(db, log)
	im := NewImporter(db, log, activityRepo, detailRepo)

	csv := strings.Join([]string{
		sampleHeader,
		`Push Day,2025-07-02 18:00:00,2025-07-02 19:05:00,,Bench Press (Barbell),,,0,warmup,135,10,,,`,
		`Push Day,2025-07-02 18:00:00,2025-07-02 19:05:00,,Bench Press (Barbell),,,1,normal,185,8,,,8`,
	}, "\n")

	res, err := im.Import(ctx, tx, user.ID, ParseCSV(csv))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.ActivitiesCreated != 1 || res.ActivitiesSkipped != 0 {
		t.Fatalf("expected 1 created 0 skipped, got %+v", res)
	}

	acts, err := activityRepo.List(ctx, tx, user.ID, repos.ActivityFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(acts) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(acts))
	}
	a := acts[0]
	if a.Sport != types.SportGym || a.DataSource != types.SourceHevy {
		t.Fatalf("unexpected activity: sport=%s source=%s", a.Sport, a.DataSource)
	}
	if a.DurationMinutes == nil || *a.DurationMinutes != 65 {
		t.Fatalf("expected 65 minute duration, got %v", a.DurationMinutes)
	}

	details, err := detailRepo.ListByActivity(ctx, tx, a.ID)
	if err != nil {
		t.Fatalf("list details: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 detail rows, got %d", len(details))
	}
}

func TestImportSkipsDuplicateWorkouts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "hevy-dedup@test.local")

	activityRepo := repos.NewActivityRepo(db, log)
	detailRepo := repos.NewGymWorkoutDetailRepo(db, log)
	im := NewImporter(db, log, activityRepo, detailRepo)

	csv := strings.Join([]string{
		sampleHeader,
		`Push Day,2025-07-02 18:00:00,2025-07-02 19:05:00,,Bench Press (Barbell),,,0,normal,135,10,,,`,
	}, "\n")

	if _, err := im.Import(ctx, tx, user.ID, ParseCSV(csv)); err != nil {
		t.Fatalf("first import: %v", err)
	}
	res, err := im.Import(ctx, tx, user.ID, ParseCSV(csv))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if res.ActivitiesCreated != 0 || res.ActivitiesSkipped != 1 {
		t.Fatalf("expected re-upload to be a no-op, got %+v", res)
	}
}

func TestImportSkipsWorkoutAlreadyMerged(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "hevy-merged@test.local")

	activityRepo := repos.NewActivityRepo(db, log)
	detailRepo := repos.NewGymWorkoutDetailRepo(db, log)
	im := NewImporter(db, log, activityRepo, detailRepo)

	csv := strings.Join([]string{
		sampleHeader,
		`Push Day,2025-07-02 18:00:00,2025-07-02 19:05:00,,Bench Press (Barbell),,,0,normal,135,10,,,`,
	}, "\n")
	pr := ParseCSV(csv)

	// Simulate a prior import whose row has since been merged with Garmin.
	testutil.SeedActivity(t, ctx, tx, user.ID, types.SportGym, types.SourceMerged,
		"Push Day", pr.Workouts[0].StartTime, 65)

	res, err := im.Import(ctx, tx, user.ID, pr)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.ActivitiesCreated != 0 || res.ActivitiesSkipped != 1 {
		t.Fatalf("expected merged row to dedupe the upload, got %+v", res)
	}
}
