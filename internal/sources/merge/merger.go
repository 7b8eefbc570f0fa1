// Package merge reconciles overlapping Garmin and Hevy gym activities into
// single merged rows. Hevy is the source of truth for exercise detail; the
// Garmin twin contributes the HR/calorie/training-effect overlay and is
// deleted after its fields are copied over.
package merge

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

// Two activities match when their tolerance-expanded intervals overlap.
const OverlapTolerance = 30 * time.Minute

type Result struct {
	Merged int
	Errors []string
}

type Merger struct {
	db           *gorm.DB
	log          *logger.Logger
	activityRepo repos.ActivityRepo
}

func NewMerger(db *gorm.DB, baseLog *logger.Logger, activityRepo repos.ActivityRepo) *Merger {
	return &Merger{
		db:           db,
		log:          baseLog.With("service", "Merger"),
		activityRepo: activityRepo,
	}
}

func activityEnd(a *types.Activity) time.Time {
	if a.EndTime != nil {
		return *a.EndTime
	}
	if a.DurationMinutes != nil && *a.DurationMinutes > 0 {
		return a.StartTime.Add(time.Duration(*a.DurationMinutes) * time.Minute)
	}
	return a.StartTime.Add(OverlapTolerance)
}

// overlapSeconds measures the overlap of the two tolerance-expanded
// intervals. Zero or negative means no match.
func overlapSeconds(hevy, garmin *types.Activity) float64 {
	hevyStart := hevy.StartTime.Add(-OverlapTolerance)
	hevyEnd := activityEnd(hevy).Add(OverlapTolerance)
	garminStart := garmin.StartTime.Add(-OverlapTolerance)
	garminEnd := activityEnd(garmin).Add(OverlapTolerance)

	start := hevyStart
	if garminStart.After(start) {
		start = garminStart
	}
	end := hevyEnd
	if garminEnd.Before(end) {
		end = garminEnd
	}
	return end.Sub(start).Seconds()
}

func findOverlapping(hevy *types.Activity, garminRows []*types.Activity, matched map[uuid.UUID]bool) *types.Activity {
	var best *types.Activity
	bestOverlap := 0.0

	for _, g := range garminRows {
		if matched[g.ID] {
			continue
		}
		if secs := overlapSeconds(hevy, g); secs > bestOverlap {
			bestOverlap = secs
			best = g
		}
	}
	return best
}

// Run merges overlapping gym rows for one user. Merged rows are excluded
// from both candidate sets, so running it again is a no-op.
func (m *Merger) Run(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*Result, error) {
	result := &Result{}

	run := func(t *gorm.DB) error {
		hevyRows, err := m.activityRepo.ListForMerge(ctx, t, userID, types.SportGym, types.SourceHevy)
		if err != nil {
			return err
		}
		if len(hevyRows) == 0 {
			return nil
		}

		garminRows, err := m.activityRepo.ListForMerge(ctx, t, userID, types.SportGym, types.SourceGarmin)
		if err != nil {
			return err
		}
		if len(garminRows) == 0 {
			return nil
		}

		matched := make(map[uuid.UUID]bool)

		for _, hevy := range hevyRows {
			match := findOverlapping(hevy, garminRows, matched)
			if match == nil {
				continue
			}
			matched[match.ID] = true

			// Delete the Garmin row first to free its unique
			// garmin_activity_id before it moves to the merged row.
			if err := m.activityRepo.DeleteByID(ctx, t, match.ID); err != nil {
				return err
			}

			hevy.AvgHR = match.AvgHR
			hevy.MaxHR = match.MaxHR
			hevy.Calories = match.Calories
			hevy.HRZones = match.HRZones
			hevy.TrainingEffectAerobic = match.TrainingEffectAerobic
			hevy.TrainingEffectAnaerobic = match.TrainingEffectAnaerobic
			hevy.GarminActivityID = match.GarminActivityID
			hevy.DataSource = types.SourceMerged

			if hevy.DurationMinutes == nil && match.DurationMinutes != nil {
				hevy.DurationMinutes = match.DurationMinutes
			}

			if err := m.activityRepo.Update(ctx, t, hevy); err != nil {
				return err
			}

			result.Merged++
			m.log.Info("Merged Garmin activity into Hevy activity",
				"garmin_activity_id", strOrEmpty(hevy.GarminActivityID),
				"activity_id", hevy.ID.String(),
				"title", hevy.Title,
				"start_time", hevy.StartTime,
			)
		}
		return nil
	}

	if tx != nil {
		if err := run(tx); err != nil {
			return nil, err
		}
		return result, nil
	}
	if err := m.db.Transaction(func(t *gorm.DB) error { return run(t) }); err != nil {
		return nil, err
	}
	return result, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
