package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type WeeklyPlanRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.WeeklyPlan) ([]*types.WeeklyPlan, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WeeklyPlan, error)
	GetActiveForWeek(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time) (*types.WeeklyPlan, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.WeeklyPlan, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.WeeklyPlan) error
}

type weeklyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWeeklyPlanRepo(db *gorm.DB, baseLog *logger.Logger) WeeklyPlanRepo {
	return &weeklyPlanRepo{db: db, log: baseLog.With("repo", "WeeklyPlanRepo")}
}

func (r *weeklyPlanRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.WeeklyPlan) ([]*types.WeeklyPlan, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.WeeklyPlan{}, nil
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

func (r *weeklyPlanRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.WeeklyPlan, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.WeeklyPlan
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *weeklyPlanRepo) GetActiveForWeek(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time) (*types.WeeklyPlan, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.WeeklyPlan
	if err := t.WithContext(ctx).
		Where("user_id = ? AND week_start = ? AND status = ?",
			userID, weekStart.Format("2006-01-02"), types.PlanStatusActive).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *weeklyPlanRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.WeeklyPlan, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.WeeklyPlan
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *weeklyPlanRepo) Update(ctx context.Context, tx *gorm.DB, row *types.WeeklyPlan) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

type PlannedSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.PlannedSession) ([]*types.PlannedSession, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PlannedSession, error)
	ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.PlannedSession, error)

	// FindMatch locates the planned session a finished workout corresponds
	// to: same user, the active plan covering weekStart, matching weekday
	// and sport.
	FindMatch(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time, dayOfWeek int, sport string) (*types.PlannedSession, error)

	// FindMatchAnySport is FindMatch without the sport filter, for "what is
	// planned today" lookups.
	FindMatchAnySport(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time, dayOfWeek int) (*types.PlannedSession, error)

	Update(ctx context.Context, tx *gorm.DB, row *types.PlannedSession) error
}

type plannedSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlannedSessionRepo(db *gorm.DB, baseLog *logger.Logger) PlannedSessionRepo {
	return &plannedSessionRepo{db: db, log: baseLog.With("repo", "PlannedSessionRepo")}
}

func (r *plannedSessionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PlannedSession) ([]*types.PlannedSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.PlannedSession{}, nil
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

func (r *plannedSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PlannedSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.PlannedSession
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *plannedSessionRepo) ListByPlan(ctx context.Context, tx *gorm.DB, planID uuid.UUID) ([]*types.PlannedSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PlannedSession
	if err := t.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("day_of_week ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *plannedSessionRepo) FindMatch(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time, dayOfWeek int, sport string) (*types.PlannedSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PlannedSession
	if err := t.WithContext(ctx).
		Joins("JOIN weekly_plans ON weekly_plans.id = planned_sessions.plan_id").
		Where("weekly_plans.user_id = ? AND weekly_plans.week_start = ? AND weekly_plans.status = ?",
			userID, weekStart.Format("2006-01-02"), types.PlanStatusActive).
		Where("planned_sessions.day_of_week = ? AND planned_sessions.sport = ?", dayOfWeek, sport).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *plannedSessionRepo) FindMatchAnySport(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekStart time.Time, dayOfWeek int) (*types.PlannedSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PlannedSession
	if err := t.WithContext(ctx).
		Joins("JOIN weekly_plans ON weekly_plans.id = planned_sessions.plan_id").
		Where("weekly_plans.user_id = ? AND weekly_plans.week_start = ? AND weekly_plans.status = ?",
			userID, weekStart.Format("2006-01-02"), types.PlanStatusActive).
		Where("planned_sessions.day_of_week = ?", dayOfWeek).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *plannedSessionRepo) Update(ctx context.Context, tx *gorm.DB, row *types.PlannedSession) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}
