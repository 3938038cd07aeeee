package xcontext

import (
	"context"
	"net/http"
	"time"
)

type (
	userIDKey      struct{}
	responseKey    struct{}
	errorKey       struct{}
	httpRequestKey struct{}
	httpWriterKey  struct{}
	startTimeKey   struct{}
	routeKey       struct{}
)

func WithRequestUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// RequestUserID returns 0 for anonymous requests.
func RequestUserID(ctx context.Context) int64 {
	id, ok := ctx.Value(userIDKey{}).(int64)
	if !ok {
		return 0
	}

	return id
}

func WithResponse(ctx context.Context, resp any) context.Context {
	return context.WithValue(ctx, responseKey{}, resp)
}

func Response(ctx context.Context) any {
	return ctx.Value(responseKey{})
}

func WithError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

func Error(ctx context.Context) error {
	err, ok := ctx.Value(errorKey{}).(error)
	if !ok {
		return nil
	}

	return err
}

func WithHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, req)
}

func HTTPRequest(ctx context.Context) *http.Request {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	if !ok {
		return nil
	}

	return req
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	w, ok := ctx.Value(httpWriterKey{}).(http.ResponseWriter)
	if !ok {
		return nil
	}

	return w
}

func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}

func StartTime(ctx context.Context) time.Time {
	t, ok := ctx.Value(startTimeKey{}).(time.Time)
	if !ok {
		return time.Now()
	}

	return t
}

// RemoteAddr returns the client address of the current request, or "system"
// when the context does not carry a request.
func RemoteAddr(ctx context.Context) string {
	req := HTTPRequest(ctx)
	if req == nil {
		return "system"
	}

	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}

	return req.RemoteAddr
}

func WithRoute(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routeKey{}, pattern)
}

// Route returns the pattern of the matched route, e.g. "/api/comments/:verse_id".
func Route(ctx context.Context) string {
	pattern, ok := ctx.Value(routeKey{}).(string)
	if !ok {
		return ""
	}

	return pattern
}
