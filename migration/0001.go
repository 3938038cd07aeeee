package migration

import (
	"context"
	"time"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

// migrate0001 seeds the default system settings without touching values an
// admin already set.
func migrate0001(ctx context.Context) error {
	now := time.Now()
	settings := []entity.SystemSetting{
		{Key: entity.SettingVerseInterval, Value: "60", UpdatedAt: now},
		{Key: entity.SettingMaintenanceMode, Value: "0", UpdatedAt: now},
	}

	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error
}
