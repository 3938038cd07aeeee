package repository

import (
	"context"
	"time"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type settingRepository struct{}

func NewSettingRepository() *settingRepository {
	return &settingRepository{}
}

// Get looks the key up with a struct condition, key is a reserved word in
// mysql.
func (r *settingRepository) Get(ctx context.Context, key string) (string, error) {
	var result entity.SystemSetting
	err := xcontext.DB(ctx).Where(&entity.SystemSetting{Key: key}).Take(&result).Error
	if err != nil {
		return "", err
	}

	return result.Value, nil
}

func (r *settingRepository) Set(ctx context.Context, key, value string) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entity.SystemSetting{Key: key, Value: value, UpdatedAt: time.Now()}).Error
}
