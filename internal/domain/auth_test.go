package domain

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/mocks"
	"github.com/versestream/backend/pkg/authenticator"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/session"
	"github.com/versestream/backend/pkg/testutil"
	"github.com/versestream/backend/pkg/xcontext"
)

// withOAuthState returns a context whose request carries a session cookie
// holding the given state.
func withOAuthState(t *testing.T, ctx context.Context, state string) context.Context {
	w := httptest.NewRecorder()
	saveCtx := xcontext.WithHTTPRequest(ctx, httptest.NewRequest(http.MethodGet, "/google-login", nil))
	saveCtx = xcontext.WithHTTPWriter(saveCtx, w)
	require.NoError(t, session.Save(saveCtx, map[string]any{sessionOAuthState: state}))

	req := httptest.NewRequest(http.MethodGet, "/callback", nil)
	for _, cookie := range w.Result().Cookies() {
		req.AddCookie(cookie)
	}

	ctx = xcontext.WithHTTPRequest(ctx, req)
	return xcontext.WithHTTPWriter(ctx, httptest.NewRecorder())
}

func Test_authDomain_GoogleLogin(t *testing.T) {
	ctx := testutil.MockContext()

	service := &mocks.OAuth2Service{}
	service.On("LoginURL", mock.Anything).Return("https://accounts.google.com/o/oauth2/auth")

	domain := NewAuthDomain(repository.NewUserRepository(), repository.NewBanRepository(), service)
	resp, err := domain.GoogleLogin(ctx, &model.GoogleLoginRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.State)
	require.Equal(t, "https://accounts.google.com/o/oauth2/auth", resp.RedirectURL)
	service.AssertCalled(t, "LoginURL", resp.State)
}

func Test_authDomain_Callback(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	service := &mocks.OAuth2Service{}
	service.On("VerifyAuthorizationCode", mock.Anything, "code").Return(authenticator.OAuth2User{
		ID:      "google-new",
		Email:   "new@example.com",
		Name:    "New User",
		Picture: "https://example.com/new.png",
	}, nil)

	userRepo := repository.NewUserRepository()
	domain := NewAuthDomain(userRepo, repository.NewBanRepository(), service)

	t.Run("provider error", func(t *testing.T) {
		_, err := domain.Callback(withOAuthState(t, ctx, "state"), &model.CallbackRequest{Error: "access_denied"})
		require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
	})

	t.Run("missing code", func(t *testing.T) {
		_, err := domain.Callback(withOAuthState(t, ctx, "state"), &model.CallbackRequest{State: "state"})
		require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
	})

	t.Run("state mismatch", func(t *testing.T) {
		_, err := domain.Callback(withOAuthState(t, ctx, "state"), &model.CallbackRequest{
			Code:  "code",
			State: "other",
		})
		require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
	})

	t.Run("first login creates the user", func(t *testing.T) {
		resp, err := domain.Callback(withOAuthState(t, ctx, "state"), &model.CallbackRequest{
			Code:  "code",
			State: "state",
		})
		require.NoError(t, err)
		require.Equal(t, "/", resp.RedirectURL)

		u, err := userRepo.GetByGoogleID(ctx, "google-new")
		require.NoError(t, err)
		require.Equal(t, entity.RoleUser, u.Role)
		require.Equal(t, "New User", u.Name)

		token, err := xcontext.TokenEngine(ctx).Verify(resp.AccessToken)
		require.NoError(t, err)
		require.Equal(t, u.ID, token.ID)
		require.Equal(t, "user", token.Role)
	})

	t.Run("second login reuses the user", func(t *testing.T) {
		_, err := domain.Callback(withOAuthState(t, ctx, "state"), &model.CallbackRequest{
			Code:  "code",
			State: "state",
		})
		require.NoError(t, err)

		ids, err := userRepo.GetAllIDs(ctx)
		require.NoError(t, err)
		require.Len(t, ids, len(testutil.Users)+1)
	})

	t.Run("banned", func(t *testing.T) {
		u, err := userRepo.GetByGoogleID(ctx, "google-new")
		require.NoError(t, err)
		require.NoError(t, userRepo.SetBan(ctx, u.ID, "spam", sql.NullTime{}))

		_, err = domain.Callback(withOAuthState(t, ctx, "state"), &model.CallbackRequest{
			Code:  "code",
			State: "state",
		})
		errx := err.(errorx.Error)
		require.Equal(t, errorx.Banned, errx.Code)
		require.Equal(t, "spam", errx.Data["reason"])
	})
}

func Test_authDomain_CheckBan(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	userRepo := repository.NewUserRepository()
	domain := NewAuthDomain(userRepo, repository.NewBanRepository(), &mocks.OAuth2Service{})

	resp, err := domain.CheckBan(ctx, &model.CheckBanRequest{})
	require.NoError(t, err)
	require.False(t, resp.Banned)

	expiresAt := time.Now().Add(time.Hour)
	require.NoError(t, userRepo.SetBan(ctx, testutil.User1.ID, "spam",
		sql.NullTime{Time: expiresAt, Valid: true}))

	resp, err = domain.CheckBan(xcontext.WithRequestUserID(ctx, testutil.User1.ID), &model.CheckBanRequest{})
	require.NoError(t, err)
	require.True(t, resp.Banned)
	require.Equal(t, "spam", *resp.Reason)
	require.NotNil(t, resp.ExpiresAt)

	require.NoError(t, userRepo.SetBan(ctx, testutil.User1.ID, "spam",
		sql.NullTime{Time: time.Now().Add(-time.Minute), Valid: true}))

	resp, err = domain.CheckBan(xcontext.WithRequestUserID(ctx, testutil.User1.ID), &model.CheckBanRequest{})
	require.NoError(t, err)
	require.False(t, resp.Banned)
	require.Nil(t, resp.Reason)
}
