package migration

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
)

// migrate0000 creates every table.
func migrate0000(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.Verse{},
		&entity.User{},
		&entity.Like{},
		&entity.Save{},
		&entity.Collection{},
		&entity.VerseCollection{},
		&entity.Comment{},
		&entity.CommunityMessage{},
		&entity.Reaction{},
		&entity.Reply{},
		&entity.DailyAction{},
		&entity.AuditLog{},
		&entity.Ban{},
		&entity.CommentRestriction{},
		&entity.SystemSetting{},
		&entity.UserPresence{},
		&entity.UserNotification{},
	)
}
