package middleware_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/middleware"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/testutil"
	"github.com/versestream/backend/pkg/xcontext"
)

func withRequest(ctx context.Context, req *http.Request) (context.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	return ctx, w
}

func generateToken(t *testing.T, ctx context.Context, id int64) string {
	token, err := xcontext.TokenEngine(ctx).Generate("1", model.AccessToken{ID: id, Name: "User One"})
	require.NoError(t, err)
	return token
}

func requireCode(t *testing.T, err error, code errorx.Code) {
	var errx errorx.Error
	require.True(t, errors.As(err, &errx))
	require.Equal(t, code, errx.Code)
}

func Test_AuthVerifier(t *testing.T) {
	ctx := testutil.MockContext()
	token := generateToken(t, ctx, 1)

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/current", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		reqCtx, _ := withRequest(ctx, req)

		newCtx, err := middleware.NewAuthVerifier().Middleware()(reqCtx)
		require.NoError(t, err)
		require.Equal(t, int64(1), xcontext.RequestUserID(newCtx))
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/current", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		reqCtx, _ := withRequest(ctx, req)

		newCtx, err := middleware.NewAuthVerifier().Middleware()(reqCtx)
		require.NoError(t, err)
		require.Equal(t, int64(1), xcontext.RequestUserID(newCtx))
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/current", nil)
		req.Header.Set("Authorization", "Bearer invalid")
		reqCtx, _ := withRequest(ctx, req)

		_, err := middleware.NewAuthVerifier().Middleware()(reqCtx)
		requireCode(t, err, errorx.Unauthenticated)
	})

	t.Run("optional", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/check_like/1", nil)
		reqCtx, _ := withRequest(ctx, req)

		newCtx, err := middleware.NewAuthVerifier().Optional().Middleware()(reqCtx)
		require.NoError(t, err)
		require.Nil(t, newCtx)
	})
}

func Test_Gate_Maintenance(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	settingRepo := repository.NewSettingRepository()
	gate := middleware.NewGate(repository.NewUserRepository(), repository.NewBanRepository(), settingRepo)

	_, err := gate.Maintenance()(xcontext.WithRequestUserID(ctx, testutil.User1.ID))
	require.NoError(t, err)

	require.NoError(t, settingRepo.Set(ctx, entity.SettingMaintenanceMode, "on"))

	_, err = gate.Maintenance()(xcontext.WithRequestUserID(ctx, testutil.User1.ID))
	requireCode(t, err, errorx.Maintenance)

	_, err = gate.Maintenance()(ctx)
	requireCode(t, err, errorx.Maintenance)

	_, err = gate.Maintenance()(xcontext.WithRequestUserID(ctx, testutil.Admin.ID))
	require.NoError(t, err)
}

func Test_Gate_Ban(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	userRepo := repository.NewUserRepository()
	gate := middleware.NewGate(userRepo, repository.NewBanRepository(), repository.NewSettingRepository())

	require.NoError(t, userRepo.SetBan(ctx, testutil.User1.ID, "spam", sql.NullTime{}))
	_, err := gate.Ban()(xcontext.WithRequestUserID(ctx, testutil.User1.ID))
	requireCode(t, err, errorx.Banned)

	var errx errorx.Error
	require.True(t, errors.As(err, &errx))
	require.Equal(t, "spam", errx.Data["reason"])

	expired := sql.NullTime{Time: time.Now().Add(-time.Hour), Valid: true}
	require.NoError(t, userRepo.SetBan(ctx, testutil.User2.ID, "spam", expired))
	_, err = gate.Ban()(xcontext.WithRequestUserID(ctx, testutil.User2.ID))
	require.NoError(t, err)

	u, err := userRepo.GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.False(t, u.IsBanned)
	require.False(t, u.BanExpiresAt.Valid)
}

func Test_OnlyAdmin(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	onlyAdmin := middleware.NewOnlyAdmin(repository.NewUserRepository())

	_, err := onlyAdmin.Middleware()(xcontext.WithRequestUserID(ctx, testutil.User1.ID))
	requireCode(t, err, errorx.PermissionDenied)

	_, err = onlyAdmin.Middleware()(xcontext.WithRequestUserID(ctx, testutil.Admin.ID))
	require.NoError(t, err)
}

func Test_HandleSetAccessToken(t *testing.T) {
	ctx := testutil.MockContext()

	reqCtx, w := withRequest(ctx, httptest.NewRequest(http.MethodGet, "/callback", nil))
	reqCtx = xcontext.WithResponse(reqCtx, model.CallbackResponse{AccessToken: "token", RedirectURL: "/"})
	_, err := middleware.HandleSetAccessToken()(reqCtx)
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "access_token", cookies[0].Name)
	require.Equal(t, "token", cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)

	reqCtx, w = withRequest(ctx, httptest.NewRequest(http.MethodGet, "/logout", nil))
	reqCtx = xcontext.WithResponse(reqCtx, model.LogoutResponse{RedirectURL: "/"})
	_, err = middleware.HandleSetAccessToken()(reqCtx)
	require.NoError(t, err)

	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "", cookies[0].Value)
	require.True(t, cookies[0].MaxAge < 0)
}

func Test_HandleRedirect(t *testing.T) {
	ctx := testutil.MockContext()

	reqCtx, w := withRequest(ctx, httptest.NewRequest(http.MethodGet, "/logout", nil))
	reqCtx = xcontext.WithResponse(reqCtx, model.LogoutResponse{RedirectURL: "/"})

	newCtx, err := middleware.HandleRedirect()(reqCtx)
	require.NoError(t, err)
	require.Nil(t, xcontext.Response(newCtx))
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func Test_HandleSaveSession(t *testing.T) {
	ctx := testutil.MockContext()

	reqCtx, w := withRequest(ctx, httptest.NewRequest(http.MethodGet, "/google-login", nil))
	reqCtx = xcontext.WithResponse(reqCtx, model.GoogleLoginResponse{RedirectURL: "/", State: "abc"})

	_, err := middleware.HandleSaveSession()(reqCtx)
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "versestream", cookies[0].Name)
}
