package repository

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
)

type CommunityRepository interface {
	Create(ctx context.Context, data *entity.CommunityMessage) error
	GetLatest(ctx context.Context, limit int) ([]entity.CommunityMessage, error)
	Delete(ctx context.Context, id int64) (int64, error)
	CountByUserID(ctx context.Context, userID int64) (int64, error)
}

type communityRepository struct{}

func NewCommunityRepository() *communityRepository {
	return &communityRepository{}
}

func (r *communityRepository) Create(ctx context.Context, data *entity.CommunityMessage) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *communityRepository) GetLatest(ctx context.Context, limit int) ([]entity.CommunityMessage, error) {
	var result []entity.CommunityMessage
	err := xcontext.DB(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *communityRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tx := xcontext.DB(ctx).Where("id=?", id).Delete(&entity.CommunityMessage{})
	return tx.RowsAffected, tx.Error
}

func (r *communityRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.CommunityMessage{}).
		Where("user_id=?", userID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
