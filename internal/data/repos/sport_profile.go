package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type SportProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.SportProfile) ([]*types.SportProfile, error)
	GetBySport(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport string) (*types.SportProfile, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SportProfile, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.SportProfile) error
}

type sportProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSportProfileRepo(db *gorm.DB, baseLog *logger.Logger) SportProfileRepo {
	return &sportProfileRepo{db: db, log: baseLog.With("repo", "SportProfileRepo")}
}

func (r *sportProfileRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.SportProfile) ([]*types.SportProfile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.SportProfile{}, nil
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

func (r *sportProfileRepo) GetBySport(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport string) (*types.SportProfile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.SportProfile
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

func (r *sportProfileRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SportProfile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.SportProfile
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sport ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sportProfileRepo) Update(ctx context.Context, tx *gorm.DB, row *types.SportProfile) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}
