package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sport categories an Activity can carry.
const (
	SportGym      = "gym"
	SportSwimming = "swimming"
	SportCardio   = "cardio"
	SportOther    = "other"
)

// Provenance tags. Merged rows are produced only by the cross-source merger.
const (
	SourceGarmin = "garmin"
	SourceHevy   = "hevy"
	SourceMerged = "merged"
)

type Activity struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;column:user_id;not null;index:idx_activity_user_start" json:"user_id"`

	Sport     string     `gorm:"column:sport;not null;index" json:"sport"`
	Title     string     `gorm:"column:title;not null" json:"title"`
	StartTime time.Time  `gorm:"column:start_time;not null;index:idx_activity_user_start" json:"start_time"`
	EndTime   *time.Time `gorm:"column:end_time" json:"end_time,omitempty"`

	DurationMinutes *int `gorm:"column:duration_minutes" json:"duration_minutes,omitempty"`

	AvgHR    *int           `gorm:"column:avg_hr" json:"avg_hr,omitempty"`
	MaxHR    *int           `gorm:"column:max_hr" json:"max_hr,omitempty"`
	Calories *int           `gorm:"column:calories" json:"calories,omitempty"`
	HRZones  datatypes.JSON `gorm:"column:hr_zones;type:jsonb" json:"hr_zones,omitempty"`

	TrainingEffectAerobic   *float64 `gorm:"column:training_effect_aerobic" json:"training_effect_aerobic,omitempty"`
	TrainingEffectAnaerobic *float64 `gorm:"column:training_effect_anaerobic" json:"training_effect_anaerobic,omitempty"`

	DataSource       string  `gorm:"column:data_source;not null;index" json:"data_source"` // garmin, hevy, merged
	GarminActivityID *string `gorm:"column:garmin_activity_id;uniqueIndex" json:"garmin_activity_id,omitempty"`
	Notes            string  `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Activity) TableName() string { return "activities" }

// Set types within a gym workout.
const (
	SetTypeNormal  = "normal"
	SetTypeWarmup  = "warmup"
	SetTypeDropset = "dropset"
	SetTypeFailure = "failure"
)

type GymWorkoutDetail struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ActivityID uuid.UUID `gorm:"type:uuid;column:activity_id;not null;index" json:"activity_id"`

	ExerciseTitle string `gorm:"column:exercise_title;not null" json:"exercise_title"`
	SupersetID    *int   `gorm:"column:superset_id" json:"superset_id,omitempty"`
	ExerciseNotes string `gorm:"column:exercise_notes;type:text" json:"exercise_notes,omitempty"`

	SetIndex int    `gorm:"column:set_index;not null" json:"set_index"`
	SetType  string `gorm:"column:set_type;not null;default:'normal'" json:"set_type"` // normal, warmup, dropset, failure

	WeightKG        *float64 `gorm:"column:weight_kg" json:"weight_kg,omitempty"`
	Reps            *int     `gorm:"column:reps" json:"reps,omitempty"`
	DistanceMeters  *float64 `gorm:"column:distance_meters" json:"distance_meters,omitempty"`
	DurationSeconds *int     `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	RPE             *float64 `gorm:"column:rpe" json:"rpe,omitempty"`
}

func (GymWorkoutDetail) TableName() string { return "gym_workout_details" }
