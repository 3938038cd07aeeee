package repository

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type DailyActionRepository interface {
	Create(ctx context.Context, data *entity.DailyAction) error
	Count(ctx context.Context, userID int64, eventDate string, actions ...entity.ActionType) (int64, error)
}

type dailyActionRepository struct{}

func NewDailyActionRepository() *dailyActionRepository {
	return &dailyActionRepository{}
}

// Create records the action once per (user, action, verse, period).
func (r *dailyActionRepository) Create(ctx context.Context, data *entity.DailyAction) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(data).Error
}

// Count returns how many of the given actions the user did in the period.
func (r *dailyActionRepository) Count(
	ctx context.Context, userID int64, eventDate string, actions ...entity.ActionType,
) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.DailyAction{}).
		Where("user_id=? AND event_date=? AND action IN (?)", userID, eventDate, actions).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
