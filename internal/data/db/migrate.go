package db

import (
	"fmt"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity
		// =========================
		&types.User{},
		&types.SportProfile{},

		// =========================
		// Imported data
		// =========================
		&types.DailyHealthSnapshot{},
		&types.Activity{},
		&types.GymWorkoutDetail{},

		// =========================
		// Planning
		// =========================
		&types.WeeklyAvailability{},
		&types.WeeklyPlan{},
		&types.PlannedSession{},
		&types.MesocycleConfig{},

		// =========================
		// Coaching artifacts + audit
		// =========================
		&types.CoachingInsight{},
		&types.PromptLog{},

		// =========================
		// Source sync
		// =========================
		&types.DataSourceConfig{},
		&types.SyncRun{},
	)
}

func EnsureInsightIndexes(db *gorm.DB) error {
	// One insight per user/date/type except post_workout, which keys on the
	// activity instead.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_insight_user_date_type
		ON coaching_insights (user_id, insight_date, insight_type)
		WHERE insight_type <> 'post_workout';
	`).Error; err != nil {
		return fmt.Errorf("create idx_insight_user_date_type: %w", err)
	}
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_insight_user_activity_type
		ON coaching_insights (user_id, activity_id, insight_type)
		WHERE activity_id IS NOT NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_insight_user_activity_type: %w", err)
	}
	// Prompt spend rollup by month.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_prompt_log_created_at
		ON prompt_logs (created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_prompt_log_created_at: %w", err)
	}
	return nil
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if s.db.Dialector.Name() == "postgres" {
		if err := EnsureInsightIndexes(s.db); err != nil {
			s.log.Error("Insight index migration failed", "error", err)
			return err
		}
	}
	return nil
}
