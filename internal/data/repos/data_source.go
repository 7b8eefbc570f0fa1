package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type DataSourceConfigRepo interface {
	GetByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sourceType string) (*types.DataSourceConfig, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DataSourceConfig, error)

	// Upsert creates the config for (user, source type) or updates the
	// existing row in place.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.DataSourceConfig) (*types.DataSourceConfig, error)

	Update(ctx context.Context, tx *gorm.DB, row *types.DataSourceConfig) error
}

type dataSourceConfigRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDataSourceConfigRepo(db *gorm.DB, baseLog *logger.Logger) DataSourceConfigRepo {
	return &dataSourceConfigRepo{db: db, log: baseLog.With("repo", "DataSourceConfigRepo")}
}

func (r *dataSourceConfigRepo) GetByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sourceType string) (*types.DataSourceConfig, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.DataSourceConfig
	if err := t.WithContext(ctx).
		Where("user_id = ? AND source_type = ?", userID, sourceType).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *dataSourceConfigRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DataSourceConfig, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.DataSourceConfig
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("source_type ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *dataSourceConfigRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.DataSourceConfig) (*types.DataSourceConfig, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	existing, err := r.GetByType(ctx, t, row.UserID, row.SourceType)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if err := t.WithContext(ctx).Create(row).Error; err != nil {
			return nil, err
		}
		return row, nil
	}
	existing.CredentialsEncrypted = row.CredentialsEncrypted
	existing.Enabled = row.Enabled
	if err := t.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *dataSourceConfigRepo) Update(ctx context.Context, tx *gorm.DB, row *types.DataSourceConfig) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

type SyncRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.SyncRun) ([]*types.SyncRun, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.SyncRun) error
	ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.SyncRun, error)
	LatestByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sourceType string) (*types.SyncRun, error)
}

type syncRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSyncRunRepo(db *gorm.DB, baseLog *logger.Logger) SyncRunRepo {
	return &syncRunRepo{db: db, log: baseLog.With("repo", "SyncRunRepo")}
}

func (r *syncRunRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.SyncRun) ([]*types.SyncRun, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.SyncRun{}, nil
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

func (r *syncRunRepo) Update(ctx context.Context, tx *gorm.DB, row *types.SyncRun) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *syncRunRepo) ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.SyncRun, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.SyncRun
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *syncRunRepo) LatestByType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sourceType string) (*types.SyncRun, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.SyncRun
	if err := t.WithContext(ctx).
		Where("user_id = ? AND source_type = ?", userID, sourceType).
		Order("started_at DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}
