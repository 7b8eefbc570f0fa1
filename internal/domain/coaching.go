package domain

import (
	"time"

	"github.com/google/uuid"
)

// Insight types. weekly_recap is reserved in the enum but has no generator.
const (
	InsightDailyBriefing = "daily_briefing"
	InsightPostWorkout   = "post_workout"
	InsightSleep         = "sleep"
	InsightWeeklyRecap   = "weekly_recap"
)

// CoachingInsight is one persisted LLM-derived artifact, at most one per
// (user, date, type); post_workout additionally keys on the activity.
type CoachingInsight struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;column:user_id;not null;index:idx_insight_user_date" json:"user_id"`

	InsightDate time.Time `gorm:"column:insight_date;type:date;not null;index:idx_insight_user_date" json:"insight_date"`
	InsightType string    `gorm:"column:insight_type;not null;index" json:"insight_type"`

	// Structured JSON produced by the contract layer.
	Content       string `gorm:"column:content;type:text;not null" json:"content"`
	PromptVersion string `gorm:"column:prompt_version;not null;default:'v1'" json:"prompt_version"`

	ActivityID *uuid.UUID `gorm:"type:uuid;column:activity_id;index" json:"activity_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CoachingInsight) TableName() string { return "coaching_insights" }

// Mesocycle phases.
const (
	PhaseBuild  = "build"
	PhasePeak   = "peak"
	PhaseDeload = "deload"
)

type MesocycleConfig struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_mesocycle_user_sport" json:"user_id"`

	Sport            string    `gorm:"column:sport;not null;uniqueIndex:idx_mesocycle_user_sport" json:"sport"`
	BlockLengthWeeks int       `gorm:"column:block_length_weeks;not null;default:4" json:"block_length_weeks"`
	CurrentWeek      int       `gorm:"column:current_week;not null;default:1" json:"current_week"`
	Phase            string    `gorm:"column:phase;not null;default:'build'" json:"phase"` // build, peak, deload
	StartDate        time.Time `gorm:"column:start_date;type:date;not null" json:"start_date"`

	// JSON, e.g. {"weight_increment_kg": 2.5}.
	ProgressionRules string `gorm:"column:progression_rules;type:text" json:"progression_rules,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (MesocycleConfig) TableName() string { return "mesocycle_configs" }
