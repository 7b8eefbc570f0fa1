package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type PromptLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.PromptLog) ([]*types.PromptLog, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.PromptLog, error)

	// MonthlyCostUSD sums estimated cost of all calls since monthStart.
	MonthlyCostUSD(ctx context.Context, tx *gorm.DB, monthStart time.Time) (float64, error)
}

type promptLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptLogRepo(db *gorm.DB, baseLog *logger.Logger) PromptLogRepo {
	return &promptLogRepo{db: db, log: baseLog.With("repo", "PromptLogRepo")}
}

func (r *promptLogRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PromptLog) ([]*types.PromptLog, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.PromptLog{}, nil
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

func (r *promptLogRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.PromptLog, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.PromptLog
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *promptLogRepo) MonthlyCostUSD(ctx context.Context, tx *gorm.DB, monthStart time.Time) (float64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var total *float64
	if err := t.WithContext(ctx).
		Model(&types.PromptLog{}).
		Select("SUM(estimated_cost_usd)").
		Where("created_at >= ?", monthStart).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
