package repository

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
)

type NotificationRepository interface {
	CreateMany(ctx context.Context, data []*entity.UserNotification) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]entity.UserNotification, error)
	MarkAllRead(ctx context.Context, userID int64) error
}

type notificationRepository struct{}

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) CreateMany(ctx context.Context, data []*entity.UserNotification) error {
	if len(data) == 0 {
		return nil
	}

	return xcontext.DB(ctx).CreateInBatches(data, 100).Error
}

func (r *notificationRepository) GetByUserID(
	ctx context.Context, userID int64, limit int,
) ([]entity.UserNotification, error) {
	var result []entity.UserNotification
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	return xcontext.DB(ctx).Model(&entity.UserNotification{}).
		Where("user_id=? AND is_read=?", userID, false).
		Update("is_read", true).Error
}
