package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name         string `gorm:"column:name;not null" json:"name"`
	Email        string `gorm:"column:email;not null;uniqueIndex" json:"email"`
	FitnessLevel string `gorm:"column:fitness_level;not null;default:'intermediate'" json:"fitness_level"` // beginner, intermediate, advanced
	Goals        string `gorm:"column:goals;type:text" json:"goals,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }
