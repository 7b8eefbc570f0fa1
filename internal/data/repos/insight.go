package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type InsightFilter struct {
	InsightType string
	From        *time.Time
	To          *time.Time
	Limit       int
}

type CoachingInsightRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.CoachingInsight) ([]*types.CoachingInsight, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CoachingInsight, error)
	GetByUserDateType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time, insightType string) (*types.CoachingInsight, error)
	GetByUserActivityType(ctx context.Context, tx *gorm.DB, userID, activityID uuid.UUID, insightType string) (*types.CoachingInsight, error)
	List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, f InsightFilter) ([]*types.CoachingInsight, error)
	CountByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]int64, error)
}

type coachingInsightRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoachingInsightRepo(db *gorm.DB, baseLog *logger.Logger) CoachingInsightRepo {
	return &coachingInsightRepo{db: db, log: baseLog.With("repo", "CoachingInsightRepo")}
}

func (r *coachingInsightRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CoachingInsight) ([]*types.CoachingInsight, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.CoachingInsight{}, nil
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

func (r *coachingInsightRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CoachingInsight, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.CoachingInsight
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *coachingInsightRepo) GetByUserDateType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time, insightType string) (*types.CoachingInsight, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.CoachingInsight
	if err := t.WithContext(ctx).
		Where("user_id = ? AND insight_date = ? AND insight_type = ?",
			userID, date.Format("2006-01-02"), insightType).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *coachingInsightRepo) GetByUserActivityType(ctx context.Context, tx *gorm.DB, userID, activityID uuid.UUID, insightType string) (*types.CoachingInsight, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.CoachingInsight
	if err := t.WithContext(ctx).
		Where("user_id = ? AND activity_id = ? AND insight_type = ?", userID, activityID, insightType).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *coachingInsightRepo) List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, f InsightFilter) ([]*types.CoachingInsight, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Where("user_id = ?", userID)
	if f.InsightType != "" {
		q = q.Where("insight_type = ?", f.InsightType)
	}
	if f.From != nil {
		q = q.Where("insight_date >= ?", f.From.Format("2006-01-02"))
	}
	if f.To != nil {
		q = q.Where("insight_date <= ?", f.To.Format("2006-01-02"))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []*types.CoachingInsight
	if err := q.Order("insight_date DESC, created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *coachingInsightRepo) CountByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	type row struct {
		InsightType string
		N           int64
	}
	var rows []row
	if err := t.WithContext(ctx).
		Model(&types.CoachingInsight{}).
		Select("insight_type, count(*) as n").
		Where("user_id = ?", userID).
		Group("insight_type").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.InsightType] = r.N
	}
	return out, nil
}
