package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type AvailabilityRepo interface {
	// ReplaceWeek atomically swaps a week's slots for the given ones.
	ReplaceWeek(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time, rows []*types.WeeklyAvailability) ([]*types.WeeklyAvailability, error)
	ListForWeek(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time) ([]*types.WeeklyAvailability, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WeeklyAvailability, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.WeeklyAvailability) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type availabilityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAvailabilityRepo(db *gorm.DB, baseLog *logger.Logger) AvailabilityRepo {
	return &availabilityRepo{db: db, log: baseLog.With("repo", "AvailabilityRepo")}
}

func (r *availabilityRepo) ReplaceWeek(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time, rows []*types.WeeklyAvailability) ([]*types.WeeklyAvailability, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	run := func(t *gorm.DB) error {
		if err := t.WithContext(ctx).
			Where("user_id = ? AND week_start = ?", userID, weekStart.Format("2006-01-02")).
			Delete(&types.WeeklyAvailability{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for _, row := range rows {
			if row.ID == uuid.Nil {
				row.ID = uuid.New()
			}
			row.UserID = userID
			row.WeekStart = weekStart
		}
		return t.WithContext(ctx).Create(&rows).Error
	}
	if tx != nil {
		if err := run(t); err != nil {
			return nil, err
		}
		return rows, nil
	}
	if err := t.Transaction(func(inner *gorm.DB) error { return run(inner) }); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *availabilityRepo) ListForWeek(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time) ([]*types.WeeklyAvailability, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WeeklyAvailability
	if err := t.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, weekStart.Format("2006-01-02")).
		Order("day_of_week ASC, start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *availabilityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WeeklyAvailability, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.WeeklyAvailability
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *availabilityRepo) Update(ctx context.Context, tx *gorm.DB, row *types.WeeklyAvailability) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *availabilityRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.WeeklyAvailability{}).Error
}
