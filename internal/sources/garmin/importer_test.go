package garmin

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	"github.com/yungbote/mycoach-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mycoach-backend/internal/domain"
)

func TestImportSnapshotSkipsExistingDate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "garmin-snap@test.local")
	day := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)

	snapshotRepo := repos.NewHealthSnapshotRepo(db, log)
	activityRepo := repos.NewActivityRepo(db, log)
	im := NewImporter(log, snapshotRepo, activityRepo)

	created, err := im.ImportSnapshot(ctx, tx, MapHealthSnapshot(user.ID, day, SnapshotBundle{}))
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if !created {
		t.Fatal("expected first snapshot created")
	}

	created, err = im.ImportSnapshot(ctx, tx, MapHealthSnapshot(user.ID, day, SnapshotBundle{}))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if created {
		t.Fatal("expected second snapshot skipped")
	}
}

func TestImportActivitiesDedupesAndReportsMissingIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "garmin-acts@test.local")

	snapshotRepo := repos.NewHealthSnapshotRepo(db, log)
	activityRepo := repos.NewActivityRepo(db, log)
	im := NewImporter(log, snapshotRepo, activityRepo)

	raws := []map[string]any{
		{
			"activityId":     float64(111),
			"activityName":   "Morning Run",
			"activityType":   map[string]any{"typeKey": "running"},
			"startTimeLocal": "2025-07-02T07:00:00.000",
			"duration":       float64(1800),
		},
		{
			// No activityId: reported per item, never aborts the batch.
			"activityName": "Mystery Session",
		},
	}

	res, err := im.ImportActivities(ctx, tx, user.ID, raws)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.ActivitiesCreated != 1 {
		t.Fatalf("expected 1 created, got %d", res.ActivitiesCreated)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "Mystery Session") {
		t.Fatalf("expected missing-id error, got %v", res.Errors)
	}

	// Same batch again: the imported row dedupes on garmin_activity_id.
	res, err = im.ImportActivities(ctx, tx, user.ID, raws)
	if err != nil {
		t.Fatalf("reimport: %v", err)
	}
	if res.ActivitiesCreated != 0 || res.ActivitiesSkipped != 1 {
		t.Fatalf("expected reimport skipped, got %+v", res)
	}

	acts, err := activityRepo.List(ctx, tx, user.ID, repos.ActivityFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(acts) != 1 || acts[0].Sport != types.SportCardio {
		t.Fatalf("unexpected activities: %v", acts)
	}
}
