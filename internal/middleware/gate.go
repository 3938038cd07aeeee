package middleware

import (
	"context"

	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/router"
	"github.com/versestream/backend/pkg/xcontext"
)

// Gate rejects requests while the site is under maintenance or when the
// caller is banned. It must run after an AuthVerifier.
type Gate struct {
	banVerifier   *common.BanVerifier
	adminVerifier *common.AdminVerifier
	settingRepo   repository.SettingRepository
}

func NewGate(
	userRepo repository.UserRepository,
	banRepo repository.BanRepository,
	settingRepo repository.SettingRepository,
) *Gate {
	return &Gate{
		banVerifier:   common.NewBanVerifier(userRepo, banRepo),
		adminVerifier: common.NewAdminVerifier(userRepo),
		settingRepo:   settingRepo,
	}
}

func (g *Gate) Maintenance() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		enabled, err := common.MaintenanceEnabled(ctx, g.settingRepo)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot read maintenance mode: %v", err)
			return nil, nil
		}

		if !enabled {
			return nil, nil
		}

		if err := g.adminVerifier.Verify(ctx); err == nil {
			return nil, nil
		}

		return nil, errorx.New(errorx.Maintenance, "maintenance").WithData(map[string]any{
			"message": "Site is under maintenance",
		})
	}
}

func (g *Gate) Ban() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		userID := xcontext.RequestUserID(ctx)
		if userID == 0 {
			return nil, nil
		}

		status, err := g.banVerifier.Status(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check ban status: %v", err)
			return nil, errorx.Unknown
		}

		if !status.Banned {
			return nil, nil
		}

		return nil, errorx.New(errorx.Banned, "banned").WithData(map[string]any{
			"reason":     status.Reason,
			"expires_at": status.ExpiresAtString(),
		})
	}
}
