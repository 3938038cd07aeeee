package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type Migrator func(ctx context.Context) error

// Migrators is the ordered schema history, the index of a migrator is its
// version. Append only.
var Migrators = []Migrator{
	migrate0000,
	migrate0001,
	migrate0002,
}

// Migrate applies every migrator newer than the recorded schema version.
func Migrate(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if err := db.AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	current, err := Version(ctx)
	if err != nil {
		return err
	}

	for version := current + 1; version < len(Migrators); version++ {
		if err := Run(ctx, version); err != nil {
			return err
		}
	}

	return nil
}

// Run applies the migrator of the given version and records it.
func Run(ctx context.Context, version int) error {
	if version < 0 || version >= len(Migrators) {
		return fmt.Errorf("not found version %d", version)
	}

	xcontext.Logger(ctx).Infof("Applying migration %04d", version)
	if err := Migrators[version](ctx); err != nil {
		return fmt.Errorf("migration %04d: %w", version, err)
	}

	record := &entity.Migration{Version: version, AppliedAt: time.Now()}
	return xcontext.DB(ctx).Save(record).Error
}

// Version returns the latest applied version, -1 on a fresh database.
func Version(ctx context.Context) (int, error) {
	var record entity.Migration
	err := xcontext.DB(ctx).Order("version DESC").Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return -1, nil
		}

		return 0, err
	}

	return record.Version, nil
}
