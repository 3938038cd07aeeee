package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/versestream/backend/pkg/xcontext"
)

var ErrNoRequest = errors.New("no http request in context")

// NewCookieStore returns a store keeping session values in a signed cookie.
// The session lives as long as maxAge, it is not cleared when the browser is
// closed.
func NewCookieStore(secret string, maxAge time.Duration, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return store
}

// Get returns the session of the current request. A new session is returned
// if the request has none.
func Get(ctx context.Context) (*sessions.Session, error) {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return nil, ErrNoRequest
	}

	return xcontext.SessionStore(ctx).Get(req, xcontext.Configs(ctx).Session.Name)
}

// GetString returns an empty string when the key is missing or is not a
// string.
func GetString(ctx context.Context, key string) string {
	s, err := Get(ctx)
	if err != nil {
		return ""
	}

	v, ok := s.Values[key].(string)
	if !ok {
		return ""
	}

	return v
}

// Save writes values into the session of the current request. A nil map
// clears the whole session.
func Save(ctx context.Context, values map[string]any) error {
	s, err := Get(ctx)
	if err != nil {
		return err
	}

	if values == nil {
		s.Options.MaxAge = -1
		s.Values = map[any]any{}
	}

	for k, v := range values {
		if v == "" {
			delete(s.Values, k)
			continue
		}
		s.Values[k] = v
	}

	return s.Save(xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx))
}
