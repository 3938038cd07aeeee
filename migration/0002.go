package migration

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
)

// migrate0002 normalizes roles and books of rows written before they were
// mandatory.
func migrate0002(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if err := db.Model(&entity.User{}).
		Where("role IS NULL OR role = ?", "").
		Update("role", entity.RoleUser).Error; err != nil {
		return err
	}

	return db.Model(&entity.Verse{}).
		Where("book IS NULL OR book = ?", "").
		Update("book", "Unknown").Error
}
