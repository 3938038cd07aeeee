package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/testutil"
	"github.com/versestream/backend/pkg/xcontext"
)

func Test_presenceDomain_Database(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	presenceRepo := repository.NewPresenceRepository()
	domain := NewPresenceDomain(presenceRepo, nil)

	_, err := domain.Ping(ctx, &model.PingPresenceRequest{Path: "/library"})
	require.NoError(t, err)

	// Pinging again updates the same row.
	_, err = domain.Ping(ctx, &model.PingPresenceRequest{Path: "/"})
	require.NoError(t, err)

	_, err = domain.Ping(xcontext.WithRequestUserID(ctx, testutil.User2.ID), &model.PingPresenceRequest{})
	require.NoError(t, err)

	// Seen too long ago.
	require.NoError(t, presenceRepo.Upsert(ctx, &entity.UserPresence{
		UserID:   testutil.Admin.ID,
		LastSeen: time.Now().Add(-10 * time.Minute),
	}))

	resp, err := domain.Online(ctx, &model.GetOnlineRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.Count)
}

func Test_presenceDomain_Redis(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	var added []redis.Z
	var countMin float64
	redisClient := &testutil.MockRedisClient{
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			require.Equal(t, common.RedisKeyPresence, key)
			added = append(added, z)
			return nil
		},
		ZCountFunc: func(ctx context.Context, key string, min, max float64) (int64, error) {
			countMin = min
			return 7, nil
		},
	}

	domain := NewPresenceDomain(repository.NewPresenceRepository(), redisClient)

	_, err := domain.Ping(ctx, &model.PingPresenceRequest{Path: "/"})
	require.NoError(t, err)
	require.Len(t, added, 1)
	require.Equal(t, "1", added[0].Member)

	resp, err := domain.Online(ctx, &model.GetOnlineRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(7), resp.Count)
	require.InDelta(t, float64(time.Now().Add(-3*time.Minute).Unix()), countMin, 2)
}

func Test_presenceDomain_RedisFailure(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	redisClient := &testutil.MockRedisClient{
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			return errors.New("connection refused")
		},
		ZCountFunc: func(ctx context.Context, key string, min, max float64) (int64, error) {
			return 0, errors.New("connection refused")
		},
	}

	domain := NewPresenceDomain(repository.NewPresenceRepository(), redisClient)

	_, err := domain.Ping(ctx, &model.PingPresenceRequest{Path: "/"})
	require.NoError(t, err)

	resp, err := domain.Online(ctx, &model.GetOnlineRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Count)
}
