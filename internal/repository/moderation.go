package repository

import (
	"context"
	"time"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type BanRepository interface {
	Upsert(ctx context.Context, data *entity.Ban) error
	Delete(ctx context.Context, userID int64) error
}

type banRepository struct{}

func NewBanRepository() *banRepository {
	return &banRepository{}
}

func (r *banRepository) Upsert(ctx context.Context, data *entity.Ban) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reason", "banned_by", "expires_at", "created_at"}),
		}).
		Create(data).Error
}

func (r *banRepository) Delete(ctx context.Context, userID int64) error {
	return xcontext.DB(ctx).Where("user_id=?", userID).Delete(&entity.Ban{}).Error
}

type CommentRestrictionRepository interface {
	Upsert(ctx context.Context, data *entity.CommentRestriction) error
	Delete(ctx context.Context, userID int64) error
	GetActive(ctx context.Context, userID int64, now time.Time) (*entity.CommentRestriction, error)
}

type commentRestrictionRepository struct{}

func NewCommentRestrictionRepository() *commentRestrictionRepository {
	return &commentRestrictionRepository{}
}

func (r *commentRestrictionRepository) Upsert(ctx context.Context, data *entity.CommentRestriction) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reason", "restricted_by", "expires_at", "created_at"}),
		}).
		Create(data).Error
}

func (r *commentRestrictionRepository) Delete(ctx context.Context, userID int64) error {
	return xcontext.DB(ctx).Where("user_id=?", userID).Delete(&entity.CommentRestriction{}).Error
}

// GetActive returns the restriction of the user which has not expired at
// now.
func (r *commentRestrictionRepository) GetActive(
	ctx context.Context, userID int64, now time.Time,
) (*entity.CommentRestriction, error) {
	var result entity.CommentRestriction
	err := xcontext.DB(ctx).
		Where("user_id=? AND expires_at>?", userID, now).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
