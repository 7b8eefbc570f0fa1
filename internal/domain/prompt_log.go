package domain

import (
	"time"

	"github.com/google/uuid"
)

// PromptLog is an unconditional audit row for every model call attempt,
// success or failure. Terminal parse failures still produce a row; a call
// that never reached the provider has no response text.
type PromptLog struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	PromptType    string `gorm:"column:prompt_type;not null;index" json:"prompt_type"` // daily_briefing, weekly_plan, post_workout, sleep
	PromptVersion string `gorm:"column:prompt_version;not null" json:"prompt_version"`
	Model         string `gorm:"column:model;not null" json:"model"`

	InputTokens      *int     `gorm:"column:input_tokens" json:"input_tokens,omitempty"`
	OutputTokens     *int     `gorm:"column:output_tokens" json:"output_tokens,omitempty"`
	LatencyMS        *int     `gorm:"column:latency_ms" json:"latency_ms,omitempty"`
	EstimatedCostUSD *float64 `gorm:"column:estimated_cost_usd" json:"estimated_cost_usd,omitempty"`

	PromptText   string `gorm:"column:prompt_text;type:text" json:"prompt_text,omitempty"`
	ResponseText string `gorm:"column:response_text;type:text" json:"response_text,omitempty"`

	Success bool   `gorm:"column:success;not null;default:true" json:"success"`
	Error   string `gorm:"column:error;type:text" json:"error,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (PromptLog) TableName() string { return "prompt_logs" }
