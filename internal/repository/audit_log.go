package repository

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
)

type AuditLogRepository interface {
	Create(ctx context.Context, data *entity.AuditLog) error
	GetLatest(ctx context.Context, limit int) ([]entity.AuditLog, error)
}

type auditLogRepository struct{}

func NewAuditLogRepository() *auditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(ctx context.Context, data *entity.AuditLog) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *auditLogRepository) GetLatest(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	var result []entity.AuditLog
	err := xcontext.DB(ctx).Order("id DESC").Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
