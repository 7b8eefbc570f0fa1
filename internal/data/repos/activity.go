package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mycoach-backend/internal/domain"
	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

type ActivityFilter struct {
	Sport      string
	DataSource string
	From       *time.Time
	To         *time.Time
	Limit      int
}

type ActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Activity) ([]*types.Activity, error)

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Activity, error)
	List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, f ActivityFilter) ([]*types.Activity, error)
	ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time, limit int) ([]*types.Activity, error)

	// ListForMerge returns candidate rows for the cross-source merger:
	// one sport, one provenance, oldest first. Merged rows never come back
	// through the garmin/hevy filters, which keeps reruns idempotent.
	ListForMerge(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport, dataSource string) ([]*types.Activity, error)

	// ListSimilar returns recent activities of the same sport excluding one
	// row, newest first.
	ListSimilar(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport string, excludeID uuid.UUID, limit int) ([]*types.Activity, error)

	ExistsByGarminID(ctx context.Context, tx *gorm.DB, garminActivityID string) (bool, error)
	ExistsByNaturalKey(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string, startTime time.Time, sources []string) (bool, error)

	CountBySource(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]int64, error)

	Update(ctx context.Context, tx *gorm.DB, row *types.Activity) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{db: db, log: baseLog.With("repo", "ActivityRepo")}
}

func (r *activityRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Activity) ([]*types.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Activity{}, nil
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

func (r *activityRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Activity
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *activityRepo) List(ctx context.Context, tx *gorm.DB, userID uuid.UUID, f ActivityFilter) ([]*types.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).Where("user_id = ?", userID)
	if f.Sport != "" {
		q = q.Where("sport = ?", f.Sport)
	}
	if f.DataSource != "" {
		q = q.Where("data_source = ?", f.DataSource)
	}
	if f.From != nil {
		q = q.Where("start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_time < ?", *f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []*types.Activity
	if err := q.Order("start_time DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) ListRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time, limit int) ([]*types.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).
		Where("user_id = ? AND start_time >= ?", userID, since).
		Order("start_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.Activity
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) ListForMerge(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport, dataSource string) ([]*types.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Activity
	if err := t.WithContext(ctx).
		Where("user_id = ? AND sport = ? AND data_source = ?", userID, sport, dataSource).
		Order("start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) ListSimilar(ctx context.Context, tx *gorm.DB, userID uuid.UUID, sport string, excludeID uuid.UUID, limit int) ([]*types.Activity, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(ctx).
		Where("user_id = ? AND sport = ? AND id <> ?", userID, sport, excludeID).
		Order("start_time DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.Activity
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) ExistsByGarminID(ctx context.Context, tx *gorm.DB, garminActivityID string) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.Activity{}).
		Where("garmin_activity_id = ?", garminActivityID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *activityRepo) ExistsByNaturalKey(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string, startTime time.Time, sources []string) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.Activity{}).
		Where("user_id = ? AND title = ? AND start_time = ? AND data_source IN ?", userID, title, startTime, sources).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *activityRepo) CountBySource(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	type row struct {
		DataSource string
		N          int64
	}
	var rows []row
	if err := t.WithContext(ctx).
		Model(&types.Activity{}).
		Select("data_source, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("data_source").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.DataSource] = r.N
	}
	return out, nil
}

func (r *activityRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Activity) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Save(row).Error
}

func (r *activityRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&types.Activity{}).Error
}
