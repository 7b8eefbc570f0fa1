package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type MesocycleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.MesocycleConfig) ([]*types.MesocycleConfig, error)
	GetBySport(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport string) (*types.MesocycleConfig, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.MesocycleConfig, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.MesocycleConfig) error
	DeleteBySport(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport string) error
}

type mesocycleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMesocycleRepo(db *gorm.DB, baseLog *logger.Logger) MesocycleRepo {
	return &mesocycleRepo{db: db, log: baseLog.With("repo", "MesocycleRepo")}
}

func (r *mesocycleRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.MesocycleConfig) ([]*types.MesocycleConfig, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.MesocycleConfig{}, nil
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

func (r *mesocycleRepo) GetBySport(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport string) (*types.MesocycleConfig, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.MesocycleConfig
	if err := t.WithContext(ctx).
		Where("user_id = ? AND sport = ?", userID, sport).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *mesocycleRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.MesocycleConfig, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.MesocycleConfig
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sport ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mesocycleRepo) Update(ctx context.Context, tx *gorm.DB, row *types.MesocycleConfig) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *mesocycleRepo) DeleteBySport(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Where("user_id = ? AND sport = ?", userID, sport).
		Delete(&types.MesocycleConfig{}).Error
}
