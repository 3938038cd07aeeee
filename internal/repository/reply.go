package repository

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
)

type ReplyRepository interface {
	Create(ctx context.Context, data *entity.Reply) error
	GetByParent(ctx context.Context, parentType entity.ItemType, parentID int64) ([]entity.Reply, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}

type replyRepository struct{}

func NewReplyRepository() *replyRepository {
	return &replyRepository{}
}

func (r *replyRepository) Create(ctx context.Context, data *entity.Reply) error {
	return xcontext.DB(ctx).Create(data).Error
}

// GetByParent returns visible replies in posting order.
func (r *replyRepository) GetByParent(
	ctx context.Context, parentType entity.ItemType, parentID int64,
) ([]entity.Reply, error) {
	var result []entity.Reply
	err := xcontext.DB(ctx).
		Where("parent_type=? AND parent_id=? AND is_deleted=?", parentType, parentID, false).
		Order("created_at ASC").
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *replyRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Reply{}).
		Where("user_id=? AND is_deleted=?", userID, false).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
