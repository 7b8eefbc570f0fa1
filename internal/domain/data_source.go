package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sync outcome recorded on the source config.
const (
	SyncStatusNever   = "never"
	SyncStatusRunning = "running"
	SyncStatusOK      = "ok"
	SyncStatusError   = "error"
)

type DataSourceConfig struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;column:user_id;not null;uniqueIndex:idx_source_config_user_type" json:"user_id"`

	SourceType string `gorm:"column:source_type;not null;uniqueIndex:idx_source_config_user_type" json:"source_type"` // garmin, hevy_csv

	// Sealed credential blob (base64 of nonce||ciphertext), never plaintext.
	CredentialsEncrypted string `gorm:"column:credentials_encrypted;type:text" json:"-"`

	Enabled    bool       `gorm:"column:enabled;not null;default:true" json:"enabled"`
	LastSyncAt *time.Time `gorm:"column:last_sync_at" json:"last_sync_at,omitempty"`
	SyncStatus string     `gorm:"column:sync_status;not null;default:'never'" json:"sync_status"` // never, running, ok, error
	SyncError  string     `gorm:"column:sync_error;type:text" json:"sync_error,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (DataSourceConfig) TableName() string { return "data_source_configs" }

// SyncRun is an audit row for one sync invocation of one source.
type SyncRun struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`

	SourceType string     `gorm:"column:source_type;not null" json:"source_type"`
	Status     string     `gorm:"column:status;not null;default:'running'" json:"status"` // running, ok, error
	StartedAt  time.Time  `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`

	// Per-run counters: snapshots/activities created, skipped, merged.
	Counters datatypes.JSON `gorm:"column:counters;type:jsonb" json:"counters,omitempty"`
	// Accumulated per-item error strings.
	Errors datatypes.JSON `gorm:"column:errors;type:jsonb" json:"errors,omitempty"`
}

func (SyncRun) TableName() string { return "sync_runs" }
