package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/versestream/backend/pkg/router"
	"github.com/versestream/backend/pkg/xcontext"
)

type AccessTokenResponse interface {
	AccessTokenInfo() string
}

// HandleSetAccessToken writes the access token of the response into a cookie.
// An empty token expires the cookie.
func HandleSetAccessToken() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		tokenResp, ok := xcontext.Response(ctx).(AccessTokenResponse)
		if !ok {
			return nil, nil
		}

		cfg := xcontext.Configs(ctx)
		cookie := &http.Cookie{
			Name:     cfg.Auth.AccessToken.Name,
			Value:    tokenResp.AccessTokenInfo(),
			Path:     "/",
			Expires:  time.Now().Add(cfg.Auth.AccessToken.Expiration),
			Secure:   cfg.Env != "local" && cfg.Env != "test",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}

		if cookie.Value == "" {
			cookie.Expires = time.Unix(0, 0)
			cookie.MaxAge = -1
		}

		http.SetCookie(xcontext.HTTPWriter(ctx), cookie)
		return nil, nil
	}
}
