package repository

import (
	"context"
	"time"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type PresenceRepository interface {
	Upsert(ctx context.Context, data *entity.UserPresence) error
	CountSince(ctx context.Context, since time.Time) (int64, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

type presenceRepository struct{}

func NewPresenceRepository() *presenceRepository {
	return &presenceRepository{}
}

func (r *presenceRepository) Upsert(ctx context.Context, data *entity.UserPresence) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_seen", "last_path", "updated_at"}),
		}).
		Create(data).Error
}

func (r *presenceRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.UserPresence{}).
		Where("last_seen>=?", since).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *presenceRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	tx := xcontext.DB(ctx).Where("last_seen<?", before).Delete(&entity.UserPresence{})
	return tx.RowsAffected, tx.Error
}
