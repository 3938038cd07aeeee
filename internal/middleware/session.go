package middleware

import (
	"context"

	"github.com/versestream/backend/pkg/router"
	"github.com/versestream/backend/pkg/session"
	"github.com/versestream/backend/pkg/xcontext"
)

type SessionResponse interface {
	SessionInfo() map[string]any
}

func HandleSaveSession() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		sessionResp, ok := xcontext.Response(ctx).(SessionResponse)
		if !ok {
			return nil, nil
		}

		if err := session.Save(ctx, sessionResp.SessionInfo()); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot save session: %v", err)
			return nil, err
		}

		return nil, nil
	}
}
