package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/mycoach-backend/internal/data/repos"
	types "github.com/yungbote/mycoach-backend/internal/domain"
	apperrors "github.com/yungbote/mycoach-backend/internal/pkg/errors"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/sources"
	"github.com/yungbote/mycoach-backend/internal/sources/merge"
)

// How many per-day snapshot fetches run concurrently.
const fetchConcurrency = 3

// Credentials unseals stored provider credentials for a user.
type Credentials interface {
	Open(sealed string) (email, password string, err error)
}

// EventSink receives sync lifecycle events for live subscribers. Nil is
// allowed; events are then dropped.
type EventSink interface {
	Publish(channel string, event string, payload any)
}

// Source implements sources.DataSource for Garmin Connect. A sync fetches
// per-day snapshot bundles concurrently, imports everything in one
// transaction, runs the merger, and records a SyncRun audit row.
type Source struct {
	db     *gorm.DB
	log    *logger.Logger
	client Client

	configRepo   repos.DataSourceConfigRepo
	syncRunRepo  repos.SyncRunRepo
	snapshotRepo repos.HealthSnapshotRepo
	activityRepo repos.ActivityRepo

	importer *Importer
	merger   *merge.Merger

	credentials Credentials
	events      EventSink
}

func NewSource(
	db *gorm.DB,
	baseLog *logger.Logger,
	client Client,
	configRepo repos.DataSourceConfigRepo,
	syncRunRepo repos.SyncRunRepo,
	snapshotRepo repos.HealthSnapshotRepo,
	activityRepo repos.ActivityRepo,
	merger *merge.Merger,
	credentials Credentials,
	events EventSink,
) *Source {
	return &Source{
		db:           db,
		log:          baseLog.With("source", "garmin"),
		client:       client,
		configRepo:   configRepo,
		syncRunRepo:  syncRunRepo,
		snapshotRepo: snapshotRepo,
		activityRepo: activityRepo,
		importer:     NewImporter(baseLog, snapshotRepo, activityRepo),
		merger:       merger,
		credentials:  credentials,
		events:       events,
	}
}

func (s *Source) SourceType() string { return types.SourceGarmin }

func (s *Source) publish(event string, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish("sync", event, payload)
}

// Sync pulls the last `days` days (default 7) and imports them.
func (s *Source) Sync(ctx context.Context, userID uuid.UUID, days int) (*sources.ImportResult, error) {
	if days <= 0 {
		days = 7
	}

	cfg, err := s.configRepo.GetByType(ctx, nil, userID, types.SourceGarmin)
	if err != nil {
		return nil, err
	}
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("garmin source not configured: %w", apperrors.ErrInvalidArgument)
	}

	email, password, err := s.credentials.Open(cfg.CredentialsEncrypted)
	if err != nil {
		return nil, fmt.Errorf("unseal garmin credentials: %w", err)
	}

	run := &types.SyncRun{
		UserID:     userID,
		SourceType: types.SourceGarmin,
		Status:     types.SyncStatusRunning,
		StartedAt:  time.Now().UTC(),
	}
	if _, err := s.syncRunRepo.Create(ctx, nil, []*types.SyncRun{run}); err != nil {
		return nil, err
	}

	cfg.SyncStatus = types.SyncStatusRunning
	cfg.SyncError = ""
	if err := s.configRepo.Update(ctx, nil, cfg); err != nil {
		return nil, err
	}

	s.publish("sync_started", map[string]any{"source": types.SourceGarmin, "days": days})

	result, syncErr := s.sync(ctx, userID, email, password, days)
	s.finish(ctx, cfg, run, result, syncErr)

	if syncErr != nil {
		s.publish("sync_failed", map[string]any{"source": types.SourceGarmin, "error": syncErr.Error()})
		return nil, syncErr
	}
	s.publish("sync_finished", map[string]any{"source": types.SourceGarmin, "result": result})
	return result, nil
}

func (s *Source) sync(ctx context.Context, userID uuid.UUID, email, password string, days int) (*sources.ImportResult, error) {
	result := &sources.ImportResult{SourceType: types.SourceGarmin}

	if err := s.client.Connect(ctx, email, password); err != nil {
		return nil, err
	}

	endDate := time.Now().UTC().Truncate(24 * time.Hour)
	startDate := endDate.AddDate(0, 0, -days)

	type dayFetch struct {
		day    time.Time
		bundle SnapshotBundle
	}

	var fetchDays []time.Time
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		fetchDays = append(fetchDays, d)
	}

	fetches := make([]dayFetch, len(fetchDays))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, day := range fetchDays {
		g.Go(func() error {
			fetches[i] = dayFetch{day: day, bundle: s.fetchDay(gctx, day)}
			return nil
		})
	}
	_ = g.Wait()

	var rawActivities []map[string]any
	activities, actErr := s.client.ActivitiesByDate(ctx, startDate, endDate)
	if actErr != nil {
		result.AddError(fmt.Sprintf("Activities fetch failed: %v", actErr))
		s.log.Warn("Activities fetch failed", "error", actErr)
	} else {
		rawActivities = activities
	}

	err := s.db.Transaction(func(t *gorm.DB) error {
		for _, f := range fetches {
			snapshot := MapHealthSnapshot(userID, f.day, f.bundle)
			created, err := s.importer.ImportSnapshot(ctx, t, snapshot)
			if err != nil {
				return err
			}
			if created {
				result.SnapshotsCreated++
			} else {
				result.SnapshotsSkipped++
			}
		}

		if len(rawActivities) > 0 {
			actResult, err := s.importer.ImportActivities(ctx, t, userID, rawActivities)
			if err != nil {
				return err
			}
			result.ActivitiesCreated = actResult.ActivitiesCreated
			result.ActivitiesSkipped = actResult.ActivitiesSkipped
			result.Errors = append(result.Errors, actResult.Errors...)
		}

		mergeResult, err := s.merger.Run(ctx, t, userID)
		if err != nil {
			return err
		}
		result.ActivitiesMerged = mergeResult.Merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// fetchDay gathers one day's bundle. Individual endpoint failures degrade
// the snapshot to empty fields; the day is still captured.
func (s *Source) fetchDay(ctx context.Context, day time.Time) SnapshotBundle {
	var b SnapshotBundle

	b.Stats = s.safeMap(ctx, day, "stats", s.client.Stats)
	if b.Stats == nil {
		b.Stats = map[string]any{}
	}

	b.Sleep = s.safeMap(ctx, day, "sleep", s.client.SleepData)
	b.HRV = s.safeMap(ctx, day, "hrv", s.client.HRVData)
	b.Stress = s.safeMap(ctx, day, "stress", s.client.StressData)
	b.TrainingReadiness = s.safeMap(ctx, day, "training_readiness", s.client.TrainingReadiness)
	b.TrainingStatus = s.safeMap(ctx, day, "training_status", s.client.TrainingStatus)
	b.MaxMetrics = s.safeMap(ctx, day, "max_metrics", s.client.MaxMetrics)
	b.Respiration = s.safeMap(ctx, day, "respiration", s.client.RespirationData)
	b.SpO2 = s.safeMap(ctx, day, "spo2", s.client.SpO2Data)

	if bb, err := s.client.BodyBattery(ctx, day, day); err != nil {
		s.log.Debug("Garmin body_battery call failed", "date", day.Format("2006-01-02"), "error", err)
	} else {
		b.BodyBattery = bb
	}

	return b
}

func (s *Source) safeMap(ctx context.Context, day time.Time, name string, call func(context.Context, time.Time) (map[string]any, error)) map[string]any {
	out, err := call(ctx, day)
	if err != nil {
		s.log.Debug("Garmin API call failed", "endpoint", name, "date", day.Format("2006-01-02"), "error", err)
		return nil
	}
	return out
}

func (s *Source) finish(ctx context.Context, cfg *types.DataSourceConfig, run *types.SyncRun, result *sources.ImportResult, syncErr error) {
	now := time.Now().UTC()
	run.FinishedAt = &now

	if syncErr != nil {
		run.Status = types.SyncStatusError
		run.Errors = mustJSON([]string{syncErr.Error()})
		cfg.SyncStatus = types.SyncStatusError
		cfg.SyncError = syncErr.Error()
	} else {
		run.Status = types.SyncStatusOK
		run.Counters = mustJSON(result)
		if len(result.Errors) > 0 {
			run.Errors = mustJSON(result.Errors)
		}
		cfg.SyncStatus = types.SyncStatusOK
		cfg.SyncError = ""
		cfg.LastSyncAt = &now
	}

	if err := s.syncRunRepo.Update(ctx, nil, run); err != nil {
		s.log.Warn("failed to finalize sync run", "error", err)
	}
	if err := s.configRepo.Update(ctx, nil, cfg); err != nil {
		s.log.Warn("failed to update source config", "error", err)
	}
}

func mustJSON(v any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(data)
}
