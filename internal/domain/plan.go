package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Weekly plan lifecycle.
const (
	PlanStatusDraft      = "draft"
	PlanStatusActive     = "active"
	PlanStatusCompleted  = "completed"
	PlanStatusSuperseded = "superseded"
)

type WeeklyPlan struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;column:user_id;not null;index:idx_plan_user_week" json:"user_id"`

	// Monday of the plan week.
	WeekStart time.Time `gorm:"column:week_start;type:date;not null;index:idx_plan_user_week" json:"week_start"`

	MesocycleWeek  *int   `gorm:"column:mesocycle_week" json:"mesocycle_week,omitempty"`
	MesocyclePhase string `gorm:"column:mesocycle_phase" json:"mesocycle_phase,omitempty"` // build, peak, deload

	PromptVersion string `gorm:"column:prompt_version;not null;default:'v1'" json:"prompt_version"`
	Status        string `gorm:"column:status;not null;default:'active';index" json:"status"` // draft, active, completed, superseded
	Summary       string `gorm:"column:summary;type:text" json:"summary,omitempty"`
	RawLLMOutput  string `gorm:"column:raw_llm_output;type:text" json:"raw_llm_output,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (WeeklyPlan) TableName() string { return "weekly_plans" }

type PlannedSession struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlanID uuid.UUID `gorm:"type:uuid;column:plan_id;not null;index;constraint:OnDelete:CASCADE" json:"plan_id"`

	DayOfWeek int    `gorm:"column:day_of_week;not null" json:"day_of_week"` // 0=Monday, 6=Sunday
	Sport     string `gorm:"column:sport;not null" json:"sport"`
	Title     string `gorm:"column:title;not null" json:"title"`

	DurationMinutes *int           `gorm:"column:duration_minutes" json:"duration_minutes,omitempty"`
	Details         datatypes.JSON `gorm:"column:details;type:jsonb" json:"details,omitempty"`
	Notes           string         `gorm:"column:notes;type:text" json:"notes,omitempty"`

	Completed  bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	ActivityID *uuid.UUID `gorm:"type:uuid;column:activity_id" json:"activity_id,omitempty"`
}

func (PlannedSession) TableName() string { return "planned_sessions" }
