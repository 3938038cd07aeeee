package repository

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type SaveRepository interface {
	Exists(ctx context.Context, userID, verseID int64) (bool, error)
	Create(ctx context.Context, data *entity.Save) error
	Delete(ctx context.Context, userID, verseID int64) (int64, error)
	GetVerses(ctx context.Context, userID int64) ([]EngagedVerse, error)
	Count(ctx context.Context, userID int64) (int64, error)
}

type saveRepository struct{}

func NewSaveRepository() *saveRepository {
	return &saveRepository{}
}

func (r *saveRepository) Exists(ctx context.Context, userID, verseID int64) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Save{}).
		Where("user_id=? AND verse_id=?", userID, verseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *saveRepository) Create(ctx context.Context, data *entity.Save) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(data).Error
}

func (r *saveRepository) Delete(ctx context.Context, userID, verseID int64) (int64, error) {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND verse_id=?", userID, verseID).
		Delete(&entity.Save{})

	return tx.RowsAffected, tx.Error
}

func (r *saveRepository) GetVerses(ctx context.Context, userID int64) ([]EngagedVerse, error) {
	var result []EngagedVerse
	err := xcontext.DB(ctx).Model(&entity.Verse{}).
		Select("verses.*, saves.created_at AS engaged_at").
		Joins("JOIN saves ON saves.verse_id=verses.id").
		Where("saves.user_id=?", userID).
		Order("saves.created_at DESC").
		Order("saves.id DESC").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *saveRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Save{}).Where("user_id=?", userID).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
