package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type HealthSnapshotRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.DailyHealthSnapshot) ([]*types.DailyHealthSnapshot, error)
	GetByDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.DailyHealthSnapshot, error)
	ExistsForDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (bool, error)

	// ListRange returns snapshots with from < snapshot_date <= to, newest
	// first when desc.
	ListRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time, desc bool) ([]*types.DailyHealthSnapshot, error)
	Latest(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.DailyHealthSnapshot, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type healthSnapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHealthSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) HealthSnapshotRepo {
	return &healthSnapshotRepo{db: db, log: baseLog.With("repo", "HealthSnapshotRepo")}
}

func (r *healthSnapshotRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.DailyHealthSnapshot) ([]*types.DailyHealthSnapshot, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.DailyHealthSnapshot{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *healthSnapshotRepo) GetByDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (*types.DailyHealthSnapshot, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.DailyHealthSnapshot
	if err := t.WithContext(ctx).
		Where("user_id = ? AND snapshot_date = ?", userID, date.Format("2006-01-02")).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *healthSnapshotRepo) ExistsForDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.DailyHealthSnapshot{}).
		Where("user_id = ? AND snapshot_date = ?", userID, date.Format("2006-01-02")).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *healthSnapshotRepo) ListRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time, desc bool) ([]*types.DailyHealthSnapshot, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	order := "snapshot_date ASC"
	if desc {
		order = "snapshot_date DESC"
	}
	var out []*types.DailyHealthSnapshot
	if err := t.WithContext(ctx).
		Where("user_id = ? AND snapshot_date > ? AND snapshot_date <= ?",
			userID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order(order).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *healthSnapshotRepo) Latest(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.DailyHealthSnapshot, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.DailyHealthSnapshot
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("snapshot_date DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *healthSnapshotRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.DailyHealthSnapshot{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
