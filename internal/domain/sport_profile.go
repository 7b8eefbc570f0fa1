package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SportProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_sport_profile_user_sport" json:"user_id"`

	Sport      string `gorm:"column:sport;not null;uniqueIndex:idx_sport_profile_user_sport" json:"sport"`
	SkillLevel string `gorm:"column:skill_level;not null;default:'intermediate'" json:"skill_level"` // beginner, intermediate, advanced
	Goals      string `gorm:"column:goals;type:text" json:"goals,omitempty"`

	// Sport-specific preferences, e.g. pool length, split style.
	Preferences datatypes.JSON `gorm:"column:preferences;type:jsonb" json:"preferences,omitempty"`
	// PRs, test results.
	Benchmarks datatypes.JSON `gorm:"column:benchmarks;type:jsonb" json:"benchmarks,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SportProfile) TableName() string { return "sport_profiles" }
