package repository

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
)

type CommentRepository interface {
	Create(ctx context.Context, data *entity.Comment) error
	GetByVerseID(ctx context.Context, verseID int64) ([]entity.Comment, error)
	SoftDelete(ctx context.Context, id int64) (int64, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}

type commentRepository struct{}

func NewCommentRepository() *commentRepository {
	return &commentRepository{}
}

func (r *commentRepository) Create(ctx context.Context, data *entity.Comment) error {
	return xcontext.DB(ctx).Create(data).Error
}

// GetByVerseID returns visible comments of the verse, newest first.
func (r *commentRepository) GetByVerseID(ctx context.Context, verseID int64) ([]entity.Comment, error) {
	var result []entity.Comment
	err := xcontext.DB(ctx).
		Where("verse_id=? AND is_deleted=?", verseID, false).
		Order("created_at DESC").
		Order("id DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *commentRepository) SoftDelete(ctx context.Context, id int64) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Comment{}).Where("id=?", id).Update("is_deleted", true)
	return tx.RowsAffected, tx.Error
}

// CountByUserID counts every comment of the user, deleted ones included.
func (r *commentRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Comment{}).Where("user_id=?", userID).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
