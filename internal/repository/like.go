package repository

import (
	"context"
	"time"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

// EngagedVerse is a verse joined with the time the user liked or saved it.
type EngagedVerse struct {
	entity.Verse
	EngagedAt time.Time
}

type LikeRepository interface {
	Exists(ctx context.Context, userID, verseID int64) (bool, error)
	Create(ctx context.Context, data *entity.Like) error
	Delete(ctx context.Context, userID, verseID int64) (int64, error)
	GetVerses(ctx context.Context, userID int64) ([]EngagedVerse, error)
	Count(ctx context.Context, userID int64) (int64, error)
}

type likeRepository struct{}

func NewLikeRepository() *likeRepository {
	return &likeRepository{}
}

func (r *likeRepository) Exists(ctx context.Context, userID, verseID int64) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Like{}).
		Where("user_id=? AND verse_id=?", userID, verseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Create is a no-op when the pair already exists.
func (r *likeRepository) Create(ctx context.Context, data *entity.Like) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(data).Error
}

func (r *likeRepository) Delete(ctx context.Context, userID, verseID int64) (int64, error) {
	tx := xcontext.DB(ctx).
		Where("user_id=? AND verse_id=?", userID, verseID).
		Delete(&entity.Like{})

	return tx.RowsAffected, tx.Error
}

// GetVerses returns the liked verses, the most recent like first.
func (r *likeRepository) GetVerses(ctx context.Context, userID int64) ([]EngagedVerse, error) {
	var result []EngagedVerse
	err := xcontext.DB(ctx).Model(&entity.Verse{}).
		Select("verses.*, likes.created_at AS engaged_at").
		Joins("JOIN likes ON likes.verse_id=verses.id").
		Where("likes.user_id=?", userID).
		Order("likes.created_at DESC").
		Order("likes.id DESC").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *likeRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Like{}).Where("user_id=?", userID).Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
