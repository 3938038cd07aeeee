package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/logger"
	"github.com/versestream/backend/pkg/router"
	"github.com/versestream/backend/pkg/xcontext"
)

type echoRequest struct {
	ID    int64  `uri:"id" json:"id"`
	Query string `form:"q" json:"q"`
	Text  string `json:"text"`
}

type echoResponse struct {
	ID    int64  `json:"id"`
	Query string `json:"q"`
	Text  string `json:"text"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Text == "fail" {
		return nil, errorx.New(errorx.BadRequest, "Empty comment")
	}

	return &echoResponse{ID: req.ID, Query: req.Query, Text: req.Text}, nil
}

type envelope struct {
	Code  int            `json:"code"`
	Error string         `json:"error"`
	Data  map[string]any `json:"data"`
}

func newRouter() *router.Router {
	ctx := xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE))
	return router.New(ctx)
}

func serve(t *testing.T, h http.Handler, method, target, body string) (int, envelope) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestRouter_BindPathAndQuery(t *testing.T) {
	r := newRouter()
	router.GET(r, "/echo/:id", echo)

	status, env := serve(t, r.Handler(nil), http.MethodGet, "/echo/7?q=hope", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 0, env.Code)
	require.Equal(t, float64(7), env.Data["id"])
	require.Equal(t, "hope", env.Data["q"])
}

func TestRouter_BindJSON(t *testing.T) {
	r := newRouter()
	router.POST(r, "/echo", echo)

	status, env := serve(t, r.Handler(nil), http.MethodPost, "/echo", `{"id":3,"text":"amen"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "amen", env.Data["text"])

	status, _ = serve(t, r.Handler(nil), http.MethodPost, "/echo", "")
	require.Equal(t, http.StatusOK, status)

	status, env = serve(t, r.Handler(nil), http.MethodPost, "/echo", `{"id":"x"`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, int(errorx.BadRequest), env.Code)
}

func TestRouter_HandlerError(t *testing.T) {
	r := newRouter()
	router.POST(r, "/echo", echo)

	status, env := serve(t, r.Handler(nil), http.MethodPost, "/echo", `{"text":"fail"}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Empty comment", env.Error)
}

func TestRouter_BeforeAndCloser(t *testing.T) {
	r := newRouter()
	closed := 0
	r.AddCloser(func(ctx context.Context) { closed++ })

	guarded := r.Branch()
	guarded.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.Banned, "banned").WithData(map[string]any{"reason": "spam"})
	})
	router.GET(guarded, "/guarded", echo)
	router.GET(r, "/open", echo)

	status, env := serve(t, r.Handler(nil), http.MethodGet, "/guarded", "")
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "banned", env.Error)
	require.Equal(t, "spam", env.Data["reason"])

	status, _ = serve(t, r.Handler(nil), http.MethodGet, "/open", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 2, closed)
}

func TestRouter_AfterReplacesContext(t *testing.T) {
	r := newRouter()
	r.After(func(ctx context.Context) (context.Context, error) {
		return xcontext.WithResponse(ctx, nil), nil
	})
	router.GET(r, "/silent", echo)

	req := httptest.NewRequest(http.MethodGet, "/silent", nil)
	rec := httptest.NewRecorder()
	r.Handler(nil).ServeHTTP(rec, req)
	require.Equal(t, 0, rec.Body.Len())
}
