package domain

import (
	"time"

	"github.com/google/uuid"
)

type WeeklyAvailability struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;column:user_id;not null;index:idx_availability_user_week" json:"user_id"`

	// Monday of the target week.
	WeekStart time.Time `gorm:"column:week_start;type:date;not null;index:idx_availability_user_week" json:"week_start"`

	DayOfWeek       int    `gorm:"column:day_of_week;not null" json:"day_of_week"` // 0=Monday, 6=Sunday
	StartTime       string `gorm:"column:start_time;not null" json:"start_time"`   // "HH:MM"
	DurationMinutes int    `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	PreferredSport  string `gorm:"column:preferred_sport" json:"preferred_sport,omitempty"`
}

func (WeeklyAvailability) TableName() string { return "weekly_availabilities" }
