package repository

import (
	"context"
	"strings"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/dbutil"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RandomVerseFilter narrows a random pick. Zero values do not filter.
type RandomVerseFilter struct {
	Books      []string
	ExcludeIDs []int64

	// ExcludeEngagedBy drops verses liked or saved by this user.
	ExcludeEngagedBy int64

	// Keywords match case-insensitively anywhere in the verse text, any of
	// them is enough.
	Keywords []string
}

type VerseRepository interface {
	CreateIfNotExists(ctx context.Context, data *entity.Verse) error
	GetByID(ctx context.Context, id int64) (*entity.Verse, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.Verse, error)
	GetByFingerprint(ctx context.Context, fingerprint string) (*entity.Verse, error)
	GetLatest(ctx context.Context) (*entity.Verse, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Verse, error)
	GetRandom(ctx context.Context, filter RandomVerseFilter) (*entity.Verse, error)
	GetPreferredBooks(ctx context.Context, userID int64) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type verseRepository struct{}

func NewVerseRepository() *verseRepository {
	return &verseRepository{}
}

// CreateIfNotExists ignores the insert when a verse with the same reference
// and text is already stored. The ID of data is not reliable afterwards, look
// the verse up by its fingerprint instead.
func (r *verseRepository) CreateIfNotExists(ctx context.Context, data *entity.Verse) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fingerprint"}},
			DoNothing: true,
		}).
		Create(data).Error
}

func (r *verseRepository) GetByID(ctx context.Context, id int64) (*entity.Verse, error) {
	var result entity.Verse
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *verseRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.Verse, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.Verse
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *verseRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*entity.Verse, error) {
	var result entity.Verse
	err := xcontext.DB(ctx).Where("fingerprint=?", fingerprint).Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *verseRepository) GetLatest(ctx context.Context) (*entity.Verse, error) {
	var result entity.Verse
	err := xcontext.DB(ctx).Order("created_at DESC").Order("id DESC").Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *verseRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Verse, error) {
	var result []entity.Verse
	err := xcontext.DB(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *verseRepository) GetRandom(ctx context.Context, filter RandomVerseFilter) (*entity.Verse, error) {
	tx := xcontext.DB(ctx).Model(&entity.Verse{})

	if len(filter.Books) > 0 {
		tx = tx.Where("book IN (?)", filter.Books)
	}

	if len(filter.ExcludeIDs) > 0 {
		tx = tx.Where("id NOT IN (?)", filter.ExcludeIDs)
	}

	if filter.ExcludeEngagedBy != 0 {
		tx = tx.
			Where("id NOT IN (?)", engagedVerseIDs(ctx, &entity.Like{}, filter.ExcludeEngagedBy)).
			Where("id NOT IN (?)", engagedVerseIDs(ctx, &entity.Save{}, filter.ExcludeEngagedBy))
	}

	if len(filter.Keywords) > 0 {
		conditions := make([]string, 0, len(filter.Keywords))
		args := make([]any, 0, len(filter.Keywords))
		for _, keyword := range filter.Keywords {
			conditions = append(conditions, "LOWER(text) LIKE ?")
			args = append(args, "%"+strings.ToLower(keyword)+"%")
		}

		tx = tx.Where("("+strings.Join(conditions, " OR ")+")", args...)
	}

	var result entity.Verse
	if err := tx.Order(dbutil.RandomOrder(tx)).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetPreferredBooks returns the distinct books of every verse the user liked
// or saved.
func (r *verseRepository) GetPreferredBooks(ctx context.Context, userID int64) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.Verse{}).
		Distinct("book").
		Where("id IN (?) OR id IN (?)",
			engagedVerseIDs(ctx, &entity.Like{}, userID),
			engagedVerseIDs(ctx, &entity.Save{}, userID),
		).
		Order("book ASC").
		Pluck("book", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *verseRepository) Count(ctx context.Context) (int64, error) {
	var result int64
	if err := xcontext.DB(ctx).Model(&entity.Verse{}).Count(&result).Error; err != nil {
		return 0, err
	}

	return result, nil
}

func engagedVerseIDs(ctx context.Context, model any, userID int64) *gorm.DB {
	return xcontext.DB(ctx).Model(model).Select("verse_id").Where("user_id=?", userID)
}
