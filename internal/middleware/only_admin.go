package middleware

import (
	"context"

	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/router"
)

type OnlyAdmin struct {
	adminVerifier *common.AdminVerifier
}

func NewOnlyAdmin(userRepo repository.UserRepository) *OnlyAdmin {
	return &OnlyAdmin{
		adminVerifier: common.NewAdminVerifier(userRepo),
	}
}

func (a *OnlyAdmin) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if err := a.adminVerifier.Verify(ctx); err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Admin access required")
		}

		return nil, nil
	}
}
