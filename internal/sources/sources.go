// Package sources holds the data-source integrations that feed activity and
// health rows into the store, plus the merger that reconciles them.
package sources

import (
	"context"

	"github.com/google/uuid"
)

// ImportResult accumulates per-run counters and per-item errors. One bad
// item never aborts a run; it lands in Errors instead.
type ImportResult struct {
	SourceType string `json:"source_type"`

	SnapshotsCreated  int `json:"snapshots_created"`
	SnapshotsSkipped  int `json:"snapshots_skipped"`
	ActivitiesCreated int `json:"activities_created"`
	ActivitiesSkipped int `json:"activities_skipped"`
	ActivitiesMerged  int `json:"activities_merged"`

	Errors []string `json:"errors"`
}

func (r *ImportResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// DataSource is a pull-based provider that can sync a window of days on
// demand. Push-based providers (CSV upload) have their own entry points.
type DataSource interface {
	SourceType() string
	Sync(ctx context.Context, userID uuid.UUID, days int) (*ImportResult, error)
}
