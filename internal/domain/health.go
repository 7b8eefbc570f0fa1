package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DailyHealthSnapshot is one day's aggregate biometrics. Unique per
// (user_id, snapshot_date); a second import for the same date is skipped.
type DailyHealthSnapshot struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_snapshot_user_date" json:"user_id"`
	SnapshotDate time.Time `gorm:"column:snapshot_date;type:date;not null;uniqueIndex:idx_snapshot_user_date" json:"snapshot_date"`

	RestingHR *int `gorm:"column:resting_hr" json:"resting_hr,omitempty"`
	MaxHR     *int `gorm:"column:max_hr" json:"max_hr,omitempty"`
	AvgHR     *int `gorm:"column:avg_hr" json:"avg_hr,omitempty"`

	HRVStatus   *float64 `gorm:"column:hrv_status" json:"hrv_status,omitempty"`
	HRV7DayAvg  *float64 `gorm:"column:hrv_7day_avg" json:"hrv_7day_avg,omitempty"`

	SleepDurationMinutes *int `gorm:"column:sleep_duration_minutes" json:"sleep_duration_minutes,omitempty"`
	SleepScore           *int `gorm:"column:sleep_score" json:"sleep_score,omitempty"`
	SleepDeepMinutes     *int `gorm:"column:sleep_deep_minutes" json:"sleep_deep_minutes,omitempty"`
	SleepLightMinutes    *int `gorm:"column:sleep_light_minutes" json:"sleep_light_minutes,omitempty"`
	SleepREMMinutes      *int `gorm:"column:sleep_rem_minutes" json:"sleep_rem_minutes,omitempty"`
	SleepAwakeMinutes    *int `gorm:"column:sleep_awake_minutes" json:"sleep_awake_minutes,omitempty"`

	BodyBatteryHigh *int `gorm:"column:body_battery_high" json:"body_battery_high,omitempty"`
	BodyBatteryLow  *int `gorm:"column:body_battery_low" json:"body_battery_low,omitempty"`
	AvgStress       *int `gorm:"column:avg_stress" json:"avg_stress,omitempty"`

	TrainingReadiness *int     `gorm:"column:training_readiness" json:"training_readiness,omitempty"`
	TrainingLoad      *float64 `gorm:"column:training_load" json:"training_load,omitempty"`
	TrainingStatus    string   `gorm:"column:training_status" json:"training_status,omitempty"` // productive, maintaining, detraining, ...
	VO2Max            *float64 `gorm:"column:vo2_max" json:"vo2_max,omitempty"`

	Steps            *int     `gorm:"column:steps" json:"steps,omitempty"`
	RespirationAvg   *float64 `gorm:"column:respiration_avg" json:"respiration_avg,omitempty"`
	SpO2Avg          *float64 `gorm:"column:spo2_avg" json:"spo2_avg,omitempty"`
	IntensityMinutes *int     `gorm:"column:intensity_minutes" json:"intensity_minutes,omitempty"`

	// Raw provider payload, retained for debugging.
	RawData datatypes.JSON `gorm:"column:raw_data;type:jsonb" json:"raw_data,omitempty"`

	DataSource string    `gorm:"column:data_source;not null;default:'garmin'" json:"data_source"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (DailyHealthSnapshot) TableName() string { return "daily_health_snapshots" }
