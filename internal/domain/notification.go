package domain

import (
	"context"

	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
)

const (
	notificationPageSize = 50

	defaultNotificationTitle  = "Notification"
	defaultNotificationType   = "announcement"
	defaultNotificationSource = "admin"
)

type NotificationDomain interface {
	GetNotifications(context.Context, *model.GetNotificationsRequest) (*model.GetNotificationsResponse, error)
	ReadAll(context.Context, *model.ReadNotificationsRequest) (*model.ReadNotificationsResponse, error)
}

type notificationDomain struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationDomain(notificationRepo repository.NotificationRepository) *notificationDomain {
	return &notificationDomain{notificationRepo: notificationRepo}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}

func (d *notificationDomain) GetNotifications(
	ctx context.Context, req *model.GetNotificationsRequest,
) (*model.GetNotificationsResponse, error) {
	notifications, err := d.notificationRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx), notificationPageSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notifications: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetNotificationsResponse{}
	for _, n := range notifications {
		createdAt := n.CreatedAt
		if n.SentAt.Valid {
			createdAt = n.SentAt.Time
		}

		resp = append(resp, model.Notification{
			ID:        n.ID,
			Title:     orDefault(n.Title, defaultNotificationTitle),
			Message:   n.Message,
			Type:      orDefault(n.NotifType, defaultNotificationType),
			Source:    orDefault(n.Source, defaultNotificationSource),
			IsRead:    n.IsRead,
			CreatedAt: createdAt,
		})
	}

	return &resp, nil
}

func (d *notificationDomain) ReadAll(
	ctx context.Context, req *model.ReadNotificationsRequest,
) (*model.ReadNotificationsResponse, error) {
	if err := d.notificationRepo.MarkAllRead(ctx, xcontext.RequestUserID(ctx)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark notifications read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ReadNotificationsResponse{Success: true}, nil
}
