package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	apperrors "github.com/yungbote/mycoach-backend/internal/pkg/errors"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
	"github.com/yungbote/mycoach-backend/internal/sources"
)

// SyncRunner triggers a provider sync for one user.
type SyncRunner interface {
	Sync(ctx context.Context, userID uuid.UUID, days int) (*sources.ImportResult, error)
}

// CoachingGenerator is the slice of the coaching engine the scheduler drives.
type CoachingGenerator interface {
	GenerateDailyBriefing(ctx context.Context, tx *gorm.DB, userID uuid.UUID, today time.Time) (*types.CoachingInsight, error)
	GenerateWeeklyPlan(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time) (*types.WeeklyPlan, error)
}

type SchedulerConfig struct {
	Enabled      bool
	SyncHour     int // Garmin sync, local hour
	BriefingHour int // daily briefing, local hour
	PlanDOW      int // weekly plan day, 0=Monday..6=Sunday
	PlanHour     int
}

// Scheduler runs the daily automation loop in-process: morning sync, morning
// briefing, and Sunday-evening plan generation for the following week. Jobs
// fire at most once per day; failures are logged and retried the next day.
type Scheduler struct {
	log    *logger.Logger
	cfg    SchedulerConfig
	userID uuid.UUID
	sync   SyncRunner
	engine CoachingGenerator

	lastSync     string
	lastBriefing string
	lastPlan     string
}

func NewScheduler(baseLog *logger.Logger, cfg SchedulerConfig, userID uuid.UUID, sync SyncRunner, engine CoachingGenerator) *Scheduler {
	return &Scheduler{
		log:    baseLog.With("service", "Scheduler"),
		cfg:    cfg,
		userID: userID,
		sync:   sync,
		engine: engine,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.log.Info("Scheduler disabled")
		return
	}
	s.log.Info("Starting scheduler",
		"sync_hour", s.cfg.SyncHour,
		"briefing_hour", s.cfg.BriefingHour,
		"plan_dow", s.cfg.PlanDOW,
		"plan_hour", s.cfg.PlanHour,
	)
	go s.runLoop(ctx)
}

func (s *Scheduler) runLoop(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Scheduler stopped")
			return
		case now := <-ticker.C:
			s.tick(ctx, now)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	day := now.Format("2006-01-02")

	if now.Hour() == s.cfg.SyncHour && s.lastSync != day {
		s.lastSync = day
		s.runSync(ctx)
	}
	if now.Hour() == s.cfg.BriefingHour && s.lastBriefing != day {
		s.lastBriefing = day
		s.runBriefing(ctx, now)
	}
	if mondayIndexedWeekday(now) == s.cfg.PlanDOW && now.Hour() == s.cfg.PlanHour && s.lastPlan != day {
		s.lastPlan = day
		s.runPlan(ctx, now)
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	result, err := s.sync.Sync(ctx, s.userID, 0)
	if err != nil {
		s.log.Warn("Scheduled sync failed", "error", err)
		return
	}
	s.log.Info("Scheduled sync finished",
		"snapshots_created", result.SnapshotsCreated,
		"activities_created", result.ActivitiesCreated,
		"activities_merged", result.ActivitiesMerged,
	)
}

func (s *Scheduler) runBriefing(ctx context.Context, now time.Time) {
	insight, err := s.engine.GenerateDailyBriefing(ctx, nil, s.userID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.log.Debug("Daily briefing already exists, skipping")
			return
		}
		s.log.Warn("Scheduled daily briefing failed", "error", err)
		return
	}
	s.log.Info("Scheduled daily briefing generated", "insight_id", insight.ID)
}

// runPlan targets the Monday after the current week. The engine refuses when
// no availability is set for that week; that refusal is a normal skip here.
func (s *Scheduler) runPlan(ctx context.Context, now time.Time) {
	weekStart := nextMonday(now)
	plan, err := s.engine.GenerateWeeklyPlan(ctx, nil, s.userID, weekStart)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrInvalidArgument) {
			s.log.Info("Weekly plan generation skipped", "week_start", weekStart.Format("2006-01-02"), "reason", err.Error())
			return
		}
		s.log.Warn("Scheduled weekly plan failed", "week_start", weekStart.Format("2006-01-02"), "error", err)
		return
	}
	s.log.Info("Scheduled weekly plan generated", "plan_id", plan.ID, "week_start", weekStart.Format("2006-01-02"))
}

func mondayIndexedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func nextMonday(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	monday := day.AddDate(0, 0, -mondayIndexedWeekday(day))
	return monday.AddDate(0, 0, 7)
}
