package domain

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/versestream/backend/internal/domain/rotation"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// systemAdminID is recorded as the admin of actions taken from the command
// line.
const systemAdminID = 0

const (
	minRestrictionHours = 1
	maxRestrictionHours = 24
)

const (
	auditBanUser          = "BAN_USER"
	auditUnbanUser        = "UNBAN_USER"
	auditRestrictUser     = "RESTRICT_USER"
	auditUnrestrictUser   = "UNRESTRICT_USER"
	auditSendNotification = "SEND_NOTIFICATION"
	auditMaintenanceMode  = "MAINTENANCE_MODE"
	auditSetInterval      = "SET_INTERVAL"
)

type banDetails struct {
	Reason string `structs:"reason"`
	Hours  int    `structs:"hours"`
}

type notificationDetails struct {
	Title      string `structs:"title"`
	Recipients int    `structs:"recipients"`
}

type maintenanceDetails struct {
	Enabled bool `structs:"enabled"`
}

type intervalDetails struct {
	Interval int `structs:"interval"`
}

type ModerationDomain interface {
	BanUser(context.Context, *model.BanUserRequest) error
	UnbanUser(context.Context, *model.UnbanUserRequest) error
	RestrictUser(context.Context, *model.RestrictUserRequest) error
	UnrestrictUser(context.Context, *model.UnrestrictUserRequest) error
	Notify(context.Context, *model.NotifyRequest) (*model.NotifyResponse, error)
	SetMaintenance(context.Context, *model.SetMaintenanceRequest) error
	SetInterval(ctx context.Context, seconds int) error
}

type moderationDomain struct {
	userRepo         repository.UserRepository
	banRepo          repository.BanRepository
	restrictionRepo  repository.CommentRestrictionRepository
	notificationRepo repository.NotificationRepository
	settingRepo      repository.SettingRepository
	auditLogRepo     repository.AuditLogRepository
}

func NewModerationDomain(
	userRepo repository.UserRepository,
	banRepo repository.BanRepository,
	restrictionRepo repository.CommentRestrictionRepository,
	notificationRepo repository.NotificationRepository,
	settingRepo repository.SettingRepository,
	auditLogRepo repository.AuditLogRepository,
) *moderationDomain {
	return &moderationDomain{
		userRepo:         userRepo,
		banRepo:          banRepo,
		restrictionRepo:  restrictionRepo,
		notificationRepo: notificationRepo,
		settingRepo:      settingRepo,
		auditLogRepo:     auditLogRepo,
	}
}

func (d *moderationDomain) checkUser(ctx context.Context, userID int64) error {
	if _, err := d.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "User %d not found", userID)
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *moderationDomain) BanUser(ctx context.Context, req *model.BanUserRequest) error {
	if req.Hours < 0 {
		return errorx.New(errorx.BadRequest, "Hours must not be negative")
	}

	if err := d.checkUser(ctx, req.UserID); err != nil {
		return err
	}

	var expiresAt sql.NullTime
	if req.Hours > 0 {
		expiresAt = sql.NullTime{Time: time.Now().Add(time.Duration(req.Hours) * time.Hour), Valid: true}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.SetBan(ctx, req.UserID, req.Reason, expiresAt); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set ban of user: %v", err)
		return errorx.Unknown
	}

	err := d.banRepo.Upsert(ctx, &entity.Ban{
		UserID:    req.UserID,
		Reason:    req.Reason,
		BannedBy:  systemAdminID,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create ban: %v", err)
		return errorx.Unknown
	}

	writeAuditLog(ctx, d.auditLogRepo, systemAdminID, auditBanUser, req.UserID,
		banDetails{Reason: req.Reason, Hours: req.Hours})

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit ban: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *moderationDomain) UnbanUser(ctx context.Context, req *model.UnbanUserRequest) error {
	if err := d.checkUser(ctx, req.UserID); err != nil {
		return err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.ClearBan(ctx, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clear ban of user: %v", err)
		return errorx.Unknown
	}

	if err := d.banRepo.Delete(ctx, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete ban: %v", err)
		return errorx.Unknown
	}

	writeAuditLog(ctx, d.auditLogRepo, systemAdminID, auditUnbanUser, req.UserID, nil)

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit unban: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *moderationDomain) RestrictUser(ctx context.Context, req *model.RestrictUserRequest) error {
	if req.Hours < minRestrictionHours || req.Hours > maxRestrictionHours {
		return errorx.New(errorx.BadRequest, "Hours must be between %d and %d",
			minRestrictionHours, maxRestrictionHours)
	}

	if err := d.checkUser(ctx, req.UserID); err != nil {
		return err
	}

	err := d.restrictionRepo.Upsert(ctx, &entity.CommentRestriction{
		UserID:       req.UserID,
		Reason:       req.Reason,
		RestrictedBy: systemAdminID,
		ExpiresAt:    time.Now().Add(time.Duration(req.Hours) * time.Hour),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot restrict user: %v", err)
		return errorx.Unknown
	}

	writeAuditLog(ctx, d.auditLogRepo, systemAdminID, auditRestrictUser, req.UserID,
		banDetails{Reason: req.Reason, Hours: req.Hours})
	return nil
}

func (d *moderationDomain) UnrestrictUser(ctx context.Context, req *model.UnrestrictUserRequest) error {
	if err := d.restrictionRepo.Delete(ctx, req.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unrestrict user: %v", err)
		return errorx.Unknown
	}

	writeAuditLog(ctx, d.auditLogRepo, systemAdminID, auditUnrestrictUser, req.UserID, nil)
	return nil
}

// Notify sends the notification to one user, or to every user when no user
// is given.
func (d *moderationDomain) Notify(ctx context.Context, req *model.NotifyRequest) (*model.NotifyResponse, error) {
	message := trimText(req.Message)
	if message == "" {
		return nil, errorx.New(errorx.BadRequest, "Message is required")
	}

	title := orDefault(trimText(req.Title), defaultNotificationTitle)

	var userIDs []int64
	if req.UserID != 0 {
		if err := d.checkUser(ctx, req.UserID); err != nil {
			return nil, err
		}

		userIDs = []int64{req.UserID}
	} else {
		ids, err := d.userRepo.GetAllIDs(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user ids: %v", err)
			return nil, errorx.Unknown
		}

		userIDs = ids
	}

	now := sql.NullTime{Time: time.Now(), Valid: true}
	notifications := make([]*entity.UserNotification, 0, len(userIDs))
	for _, id := range userIDs {
		notifications = append(notifications, &entity.UserNotification{
			UserID:    id,
			Title:     title,
			Message:   message,
			NotifType: defaultNotificationType,
			Source:    defaultNotificationSource,
			SentAt:    now,
		})
	}

	if err := d.notificationRepo.CreateMany(ctx, notifications); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create notifications: %v", err)
		return nil, errorx.Unknown
	}

	writeAuditLog(ctx, d.auditLogRepo, systemAdminID, auditSendNotification, req.UserID,
		notificationDetails{Title: title, Recipients: len(notifications)})
	return &model.NotifyResponse{Sent: len(notifications)}, nil
}

func (d *moderationDomain) SetMaintenance(ctx context.Context, req *model.SetMaintenanceRequest) error {
	value := "0"
	if req.Enabled {
		value = "1"
	}

	if err := d.settingRepo.Set(ctx, entity.SettingMaintenanceMode, value); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set maintenance mode: %v", err)
		return errorx.Unknown
	}

	writeAuditLog(ctx, d.auditLogRepo, systemAdminID, auditMaintenanceMode, 0,
		maintenanceDetails{Enabled: req.Enabled})
	return nil
}

// SetInterval persists the rotation interval. A running server applies it
// after its next rotation.
func (d *moderationDomain) SetInterval(ctx context.Context, seconds int) error {
	if seconds < rotation.MinInterval || seconds > rotation.MaxInterval {
		return errorx.New(errorx.BadRequest, "Interval must be between %d and %d seconds",
			rotation.MinInterval, rotation.MaxInterval)
	}

	if err := d.settingRepo.Set(ctx, entity.SettingVerseInterval, strconv.Itoa(seconds)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set verse interval: %v", err)
		return errorx.Unknown
	}

	writeAuditLog(ctx, d.auditLogRepo, systemAdminID, auditSetInterval, 0,
		intervalDetails{Interval: seconds})
	return nil
}
