package hevy

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/sources"
)

const SourceType = "hevy_csv"

// Importer writes parsed workouts into the store. A workout whose
// (title, start_time) already exists as a hevy or merged row is skipped,
// so re-uploading the same export is a no-op.
type Importer struct {
	db           *gorm.DB
	log          *logger.Logger
	activityRepo repos.ActivityRepo
	detailRepo   repos.GymWorkoutDetailRepo
}

func NewImporter(db *gorm.DB, baseLog *logger.Logger, activityRepo repos.ActivityRepo, detailRepo repos.GymWorkoutDetailRepo) *Importer {
	return &Importer{
		db:           db,
		log:          baseLog.With("importer", "hevy"),
		activityRepo: activityRepo,
		detailRepo:   detailRepo,
	}
}

func computeDuration(w *Workout) *int {
	if w.EndTime == nil {
		return nil
	}
	minutes := int(w.EndTime.Sub(w.StartTime).Minutes())
	if minutes <= 0 {
		return nil
	}
	return &minutes
}

// Import persists the parse result inside one transaction when tx is nil.
// Parse errors carry over into the returned result.
func (im *Importer) Import(ctx context.Context, tx *gorm.DB, userID uuid.UUID, pr *ParseResult) (*sources.ImportResult, error) {
	result := &sources.ImportResult{
		SourceType: SourceType,
		Errors:     append([]string{}, pr.Errors...),
	}

	run := func(t *gorm.DB) error {
		for _, w := range pr.Workouts {
			exists, err := im.activityRepo.ExistsByNaturalKey(ctx, t, userID, w.Title, w.StartTime,
				[]string{types.SourceHevy, types.SourceMerged})
			if err != nil {
				return err
			}
			if exists {
				result.ActivitiesSkipped++
				continue
			}

			activity := &types.Activity{
				UserID:          userID,
				Sport:           types.SportGym,
				Title:           w.Title,
				StartTime:       w.StartTime,
				EndTime:         w.EndTime,
				DurationMinutes: computeDuration(w),
				DataSource:      types.SourceHevy,
			}
			if _, err := im.activityRepo.Create(ctx, t, []*types.Activity{activity}); err != nil {
				return err
			}

			details := make([]*types.GymWorkoutDetail, 0, len(w.Sets))
			for _, s := range w.Sets {
				details = append(details, &types.GymWorkoutDetail{
					ActivityID:      activity.ID,
					ExerciseTitle:   s.ExerciseTitle,
					SupersetID:      s.SupersetID,
					ExerciseNotes:   s.ExerciseNotes,
					SetIndex:        s.SetIndex,
					SetType:         s.SetType,
					WeightKG:        s.WeightKG,
					Reps:            s.Reps,
					DistanceMeters:  s.DistanceMeters,
					DurationSeconds: s.DurationSeconds,
					RPE:             s.RPE,
				})
			}
			if _, err := im.detailRepo.Create(ctx, t, details); err != nil {
				return err
			}

			result.ActivitiesCreated++
		}
		return nil
	}

	if tx != nil {
		if err := run(tx); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := im.db.Transaction(func(t *gorm.DB) error { return run(t) }); err != nil {
		return nil, err
	}

	im.log.Info("Hevy import finished",
		"created", result.ActivitiesCreated,
		"skipped", result.ActivitiesSkipped,
		"errors", len(result.Errors),
	)
	return result, nil
}
