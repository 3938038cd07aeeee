package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/router"
	"github.com/versestream/backend/pkg/xcontext"
)

type AuthVerifier struct {
	optional bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

// Optional lets anonymous requests through. The user id is still set when a
// valid token is given.
func (a *AuthVerifier) Optional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := getAccessToken(ctx)
		if token != "" {
			info, err := xcontext.TokenEngine(ctx).Verify(token)
			if err == nil && info.ID != 0 {
				return xcontext.WithRequestUserID(ctx, info.ID), nil
			}

			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
		}

		if a.optional {
			return nil, nil
		}

		return nil, errorx.New(errorx.Unauthenticated, "Login required")
	}
}

// getAccessToken reads the token from the cookie first, then from the
// Authorization header.
func getAccessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return getBearerToken(req)
}

func getBearerToken(req *http.Request) string {
	authorization := req.Header.Get("Authorization")
	prefix, token, found := strings.Cut(authorization, " ")
	if !found || !strings.EqualFold(prefix, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
