package garmin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/sources"
)

// Importer writes mapped Garmin rows. Snapshots dedupe on (user, date);
// activities dedupe on the provider's activity id.
type Importer struct {
	log          *logger.Logger
	snapshotRepo repos.HealthSnapshotRepo
	activityRepo repos.ActivityRepo
}

func NewImporter(baseLog *logger.Logger, snapshotRepo repos.HealthSnapshotRepo, activityRepo repos.ActivityRepo) *Importer {
	return &Importer{
		log:          baseLog.With("importer", "garmin"),
		snapshotRepo: snapshotRepo,
		activityRepo: activityRepo,
	}
}

// ImportSnapshot persists one snapshot unless the date is already covered.
// Returns whether a row was created.
func (im *Importer) ImportSnapshot(ctx context.Context, tx *gorm.DB, snapshot *types.DailyHealthSnapshot) (bool, error) {
	exists, err := im.snapshotRepo.ExistsForDate(ctx, tx, snapshot.UserID, snapshot.SnapshotDate)
	if err != nil {
		return false, err
	}
	if exists {
		im.log.Debug("Snapshot already exists, skipping",
			"date", snapshot.SnapshotDate.Format("2006-01-02"))
		return false, nil
	}
	if _, err := im.snapshotRepo.Create(ctx, tx, []*types.DailyHealthSnapshot{snapshot}); err != nil {
		return false, err
	}
	return true, nil
}

// ImportActivities maps and persists raw activity dicts. An item without an
// activityId lands in the result errors; it never aborts the batch.
func (im *Importer) ImportActivities(ctx context.Context, tx *gorm.DB, userID uuid.UUID, raws []map[string]any) (*sources.ImportResult, error) {
	result := &sources.ImportResult{SourceType: types.SourceGarmin}

	for _, raw := range raws {
		garminID, ok := raw["activityId"]
		if !ok || garminID == nil {
			name := "unknown"
			if n, ok := raw["activityName"].(string); ok && n != "" {
				name = n
			}
			result.AddError(fmt.Sprintf("Activity missing activityId: %s", name))
			continue
		}

		activity := MapActivity(userID, raw)
		if activity.GarminActivityID == nil {
			result.AddError(fmt.Sprintf("Activity missing activityId: %s", activity.Title))
			continue
		}

		exists, err := im.activityRepo.ExistsByGarminID(ctx, tx, *activity.GarminActivityID)
		if err != nil {
			return nil, err
		}
		if exists {
			result.ActivitiesSkipped++
			continue
		}

		if _, err := im.activityRepo.Create(ctx, tx, []*types.Activity{activity}); err != nil {
			return nil, err
		}
		result.ActivitiesCreated++
	}

	return result, nil
}
