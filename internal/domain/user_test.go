package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/testutil"
	"github.com/versestream/backend/pkg/xcontext"
)

func newTestUserDomain() *userDomain {
	return NewUserDomain(
		repository.NewUserRepository(),
		repository.NewVerseRepository(),
		repository.NewLikeRepository(),
		repository.NewSaveRepository(),
		repository.NewCommentRepository(),
		repository.NewCommunityRepository(),
		repository.NewReplyRepository(),
		repository.NewAuditLogRepository(),
	)
}

func Test_userDomain_GetUserInfo(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.Admin.ID)
	testutil.CreateFixture(ctx)

	resp, err := newTestUserDomain().GetUserInfo(ctx, &model.GetUserInfoRequest{})
	require.NoError(t, err)
	require.Equal(t, "owner", resp.Role)
	require.True(t, resp.IsAdmin)
	require.False(t, resp.IsBanned)
	require.Equal(t, testutil.Admin.Name, resp.Name)
}

func Test_userDomain_UpdateName(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	domain := newTestUserDomain()

	tests := []struct {
		name    string
		newName string
		wantErr string
	}{
		{name: "too short", newName: " a ", wantErr: "Name must be at least 2 characters"},
		{name: "too long", newName: "abcdefghijabcdefghijabcdefghijabcdefghijk", wantErr: "Name must be 40 characters or less"},
		{name: "trimmed", newName: "  Grace  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := domain.UpdateName(ctx, &model.UpdateNameRequest{Name: tt.newName})
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Equal(t, tt.wantErr, err.Error())
				return
			}

			require.NoError(t, err)
			require.Equal(t, "Grace", resp.Name)

			token, err := xcontext.TokenEngine(ctx).Verify(resp.AccessToken)
			require.NoError(t, err)
			require.Equal(t, "Grace", token.Name)

			u, err := repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
			require.NoError(t, err)
			require.Equal(t, "Grace", u.Name)
		})
	}
}

func Test_userDomain_VerifyRoleCode(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	domain := newTestUserDomain()

	_, err := domain.VerifyRoleCode(ctx, &model.VerifyRoleCodeRequest{Role: "co_owner", Code: "HOST123"})
	require.Error(t, err)
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
	require.Equal(t, "Invalid code for Co Owner role.", err.Error())

	_, err = domain.VerifyRoleCode(ctx, &model.VerifyRoleCodeRequest{Role: "user", Code: ""})
	require.Error(t, err)

	resp, err := domain.VerifyRoleCode(ctx, &model.VerifyRoleCodeRequest{Role: " Co_Owner ", Code: "coowner789"})
	require.NoError(t, err)
	require.Equal(t, "co_owner", resp.Role)
	require.Equal(t, "Co Owner", resp.RoleDisplay)

	u, err := repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RoleCoOwner, u.Role)
	require.True(t, u.IsAdmin)

	logs, err := repository.NewAuditLogRepository().GetLatest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, "role_assigned", logs[0].Action)
	require.Equal(t, "co_owner", logs[0].Details["role"])
	require.Equal(t, true, logs[0].Details["code_used"])
}

func Test_userDomain_VerifyRoleCode_ConfiguredCodes(t *testing.T) {
	testCases := []struct {
		name    string
		host    string
		code    string
		wantErr bool
	}{
		{name: "lower case configured code", host: " shepherd ", code: "SHEPHERD"},
		{name: "lower case submitted code", host: "SHEPHERD", code: "shepherd"},
		{name: "unset code disables the role", host: "", code: "", wantErr: true},
		{name: "blank code disables the role", host: "   ", code: " ", wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testutil.MockConfigs()
			cfg.RoleCodes.Host = tt.host

			ctx := testutil.MockContextWithUserID(testutil.User1.ID)
			ctx = xcontext.WithConfigs(ctx, cfg)
			testutil.CreateFixture(ctx)

			resp, err := newTestUserDomain().VerifyRoleCode(ctx, &model.VerifyRoleCodeRequest{
				Role: "host",
				Code: tt.code,
			})

			u, getErr := repository.NewUserRepository().GetByID(ctx, testutil.User1.ID)
			require.NoError(t, getErr)

			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
				require.False(t, u.IsAdmin)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "host", resp.Role)
			require.True(t, u.IsAdmin)
		})
	}
}

func Test_userDomain_GetStats(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	mustCreate := func(ctx context.Context, v any) {
		require.NoError(t, xcontext.DB(ctx).Create(v).Error)
	}

	mustCreate(ctx, &entity.Like{UserID: testutil.User1.ID, VerseID: testutil.VerseJohn.ID})
	mustCreate(ctx, &entity.Like{UserID: testutil.User1.ID, VerseID: testutil.VersePsalm.ID})
	mustCreate(ctx, &entity.Save{UserID: testutil.User1.ID, VerseID: testutil.VerseJohn.ID})
	mustCreate(ctx, &entity.Comment{UserID: testutil.User1.ID, VerseID: testutil.VerseJohn.ID, Text: "Amen"})
	mustCreate(ctx, &entity.CommunityMessage{UserID: testutil.User1.ID, Text: "Hello"})
	mustCreate(ctx, &entity.Like{UserID: testutil.User2.ID, VerseID: testutil.VerseJohn.ID})

	resp, err := newTestUserDomain().GetStats(ctx, &model.GetStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, &model.GetStatsResponse{
		TotalVerses:   int64(len(testutil.Verses)),
		Liked:         2,
		Saved:         1,
		Comments:      1,
		Community:     1,
		Replies:       0,
		TotalComments: 2,
	}, resp)
}
