package repository

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
)

type CollectionRepository interface {
	Create(ctx context.Context, data *entity.Collection) error
	GetByID(ctx context.Context, id int64) (*entity.Collection, error)
	GetByUserID(ctx context.Context, userID int64) ([]entity.Collection, error)
	HasVerse(ctx context.Context, collectionID, verseID int64) (bool, error)
	AddVerse(ctx context.Context, data *entity.VerseCollection) error
	GetVerses(ctx context.Context, collectionID int64) ([]entity.Verse, error)
}

type collectionRepository struct{}

func NewCollectionRepository() *collectionRepository {
	return &collectionRepository{}
}

func (r *collectionRepository) Create(ctx context.Context, data *entity.Collection) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *collectionRepository) GetByID(ctx context.Context, id int64) (*entity.Collection, error) {
	var result entity.Collection
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *collectionRepository) GetByUserID(ctx context.Context, userID int64) ([]entity.Collection, error) {
	var result []entity.Collection
	err := xcontext.DB(ctx).Where("user_id=?", userID).Order("id ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *collectionRepository) HasVerse(ctx context.Context, collectionID, verseID int64) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.VerseCollection{}).
		Where("collection_id=? AND verse_id=?", collectionID, verseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *collectionRepository) AddVerse(ctx context.Context, data *entity.VerseCollection) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *collectionRepository) GetVerses(ctx context.Context, collectionID int64) ([]entity.Verse, error) {
	var result []entity.Verse
	err := xcontext.DB(ctx).Model(&entity.Verse{}).
		Joins("JOIN verse_collections ON verse_collections.verse_id=verses.id").
		Where("verse_collections.collection_id=?", collectionID).
		Order("verse_collections.id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
