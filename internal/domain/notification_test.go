package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/testutil"
	"github.com/versestream/backend/pkg/xcontext"
)

func Test_notificationDomain(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	notificationRepo := repository.NewNotificationRepository()
	require.NoError(t, notificationRepo.CreateMany(ctx, []*entity.UserNotification{
		{UserID: testutil.User1.ID, Message: "Welcome"},
		{UserID: testutil.User1.ID, Title: "Update", Message: "New books", NotifType: "news", Source: "system"},
		{UserID: testutil.User2.ID, Message: "Not yours"},
	}))

	domain := NewNotificationDomain(notificationRepo)

	resp, err := domain.GetNotifications(ctx, &model.GetNotificationsRequest{})
	require.NoError(t, err)
	require.Len(t, *resp, 2)

	byMessage := map[string]model.Notification{}
	for _, n := range *resp {
		byMessage[n.Message] = n
		require.False(t, n.IsRead)
	}

	require.Equal(t, "Notification", byMessage["Welcome"].Title)
	require.Equal(t, "announcement", byMessage["Welcome"].Type)
	require.Equal(t, "admin", byMessage["Welcome"].Source)
	require.Equal(t, "Update", byMessage["New books"].Title)
	require.Equal(t, "news", byMessage["New books"].Type)

	read, err := domain.ReadAll(ctx, &model.ReadNotificationsRequest{})
	require.NoError(t, err)
	require.True(t, read.Success)

	resp, err = domain.GetNotifications(ctx, &model.GetNotificationsRequest{})
	require.NoError(t, err)
	for _, n := range *resp {
		require.True(t, n.IsRead)
	}

	// Notifications of other users are untouched.
	resp, err = domain.GetNotifications(xcontext.WithRequestUserID(ctx, testutil.User2.ID),
		&model.GetNotificationsRequest{})
	require.NoError(t, err)
	require.Len(t, *resp, 1)
	require.False(t, (*resp)[0].IsRead)
}
