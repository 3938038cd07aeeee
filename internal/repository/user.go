package repository

import (
	"context"
	"database/sql"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	GetAllIDs(ctx context.Context) ([]int64, error)
	UpdateName(ctx context.Context, id int64, name string) error
	UpdateRole(ctx context.Context, id int64, role entity.Role, isAdmin bool) error
	SetBan(ctx context.Context, id int64, reason string, expiresAt sql.NullTime) error
	ClearBan(ctx context.Context, id int64) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []int64) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.User
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("google_id=?", googleID).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetAllIDs(ctx context.Context) ([]int64, error) {
	var result []int64
	err := xcontext.DB(ctx).Model(&entity.User{}).Order("id ASC").Pluck("id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) UpdateName(ctx context.Context, id int64, name string) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Update("name", name).Error
}

func (r *userRepository) UpdateRole(ctx context.Context, id int64, role entity.Role, isAdmin bool) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(map[string]any{
		"role":     role,
		"is_admin": isAdmin,
	}).Error
}

func (r *userRepository) SetBan(ctx context.Context, id int64, reason string, expiresAt sql.NullTime) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(map[string]any{
		"is_banned":      true,
		"ban_reason":     sql.NullString{String: reason, Valid: reason != ""},
		"ban_expires_at": expiresAt,
	}).Error
}

func (r *userRepository) ClearBan(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(map[string]any{
		"is_banned":      false,
		"ban_reason":     sql.NullString{},
		"ban_expires_at": sql.NullTime{},
	}).Error
}
