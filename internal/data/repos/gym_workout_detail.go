package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type GymWorkoutDetailRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.GymWorkoutDetail) ([]*types.GymWorkoutDetail, error)
	ListByActivity(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.GymWorkoutDetail, error)
	DeleteByActivity(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) error
}

type gymWorkoutDetailRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGymWorkoutDetailRepo(db *gorm.DB, baseLog *logger.Logger) GymWorkoutDetailRepo {
	return &gymWorkoutDetailRepo{db: db, log: baseLog.With("repo", "GymWorkoutDetailRepo")}
}

func (r *gymWorkoutDetailRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.GymWorkoutDetail) ([]*types.GymWorkoutDetail, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.GymWorkoutDetail{}, nil
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

func (r *gymWorkoutDetailRepo) ListByActivity(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.GymWorkoutDetail, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.GymWorkoutDetail
	if err := t.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("exercise_title ASC, set_index ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gymWorkoutDetailRepo) DeleteByActivity(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if activityID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where("activity_id = ?", activityID).Delete(&types.GymWorkoutDetail{}).Error
}
