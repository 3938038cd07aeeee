package repository

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type ReactionRepository interface {
	Exists(ctx context.Context, data *entity.Reaction) (bool, error)
	Create(ctx context.Context, data *entity.Reaction) error
	Delete(ctx context.Context, data *entity.Reaction) (int64, error)
	CountByItem(ctx context.Context, itemType entity.ItemType, itemID int64) (map[entity.ReactionType]int, error)
}

type reactionRepository struct{}

func NewReactionRepository() *reactionRepository {
	return &reactionRepository{}
}

func (r *reactionRepository) Exists(ctx context.Context, data *entity.Reaction) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Reaction{}).
		Where("item_type=? AND item_id=? AND user_id=? AND reaction=?",
			data.ItemType, data.ItemID, data.UserID, data.Reaction).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *reactionRepository) Create(ctx context.Context, data *entity.Reaction) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(data).Error
}

func (r *reactionRepository) Delete(ctx context.Context, data *entity.Reaction) (int64, error) {
	tx := xcontext.DB(ctx).
		Where("item_type=? AND item_id=? AND user_id=? AND reaction=?",
			data.ItemType, data.ItemID, data.UserID, data.Reaction).
		Delete(&entity.Reaction{})

	return tx.RowsAffected, tx.Error
}

func (r *reactionRepository) CountByItem(
	ctx context.Context, itemType entity.ItemType, itemID int64,
) (map[entity.ReactionType]int, error) {
	var rows []struct {
		Reaction entity.ReactionType
		Count    int
	}

	err := xcontext.DB(ctx).Model(&entity.Reaction{}).
		Select("reaction, COUNT(*) AS count").
		Where("item_type=? AND item_id=?", itemType, itemID).
		Group("reaction").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := map[entity.ReactionType]int{}
	for _, row := range rows {
		result[row.Reaction] = row.Count
	}

	return result, nil
}
