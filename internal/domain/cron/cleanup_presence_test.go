package cron

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/testutil"
)

func TestCleanupPresenceCronJob(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	presenceRepo := repository.NewPresenceRepository()
	require.NoError(t, presenceRepo.Upsert(ctx, &entity.UserPresence{
		UserID:   testutil.User1.ID,
		LastSeen: time.Now(),
	}))
	require.NoError(t, presenceRepo.Upsert(ctx, &entity.UserPresence{
		UserID:   testutil.User2.ID,
		LastSeen: time.Now().Add(-25 * time.Hour),
	}))

	var removedMin, removedMax float64
	redisClient := &testutil.MockRedisClient{
		ZRemRangeByScoreFunc: func(ctx context.Context, key string, min, max float64) (int64, error) {
			require.Equal(t, common.RedisKeyPresence, key)
			removedMin, removedMax = min, max
			return 1, nil
		},
	}

	job := NewCleanupPresenceCronJob(presenceRepo, redisClient)
	require.True(t, job.RunNow())
	require.WithinDuration(t, time.Now().Add(10*time.Minute), job.Next(), time.Second)

	job.Do(ctx)

	count, err := presenceRepo.CountSince(ctx, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.True(t, math.IsInf(removedMin, -1))
	require.InDelta(t, float64(time.Now().Add(-24*time.Hour).Unix()), removedMax, 5)
}

func TestCleanupPresenceCronJob_NoRedis(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	presenceRepo := repository.NewPresenceRepository()
	require.NoError(t, presenceRepo.Upsert(ctx, &entity.UserPresence{
		UserID:   testutil.User1.ID,
		LastSeen: time.Now().Add(-48 * time.Hour),
	}))

	NewCleanupPresenceCronJob(presenceRepo, nil).Do(ctx)

	count, err := presenceRepo.CountSince(ctx, time.Time{})
	require.NoError(t, err)
	require.Zero(t, count)
}

type countingJob struct {
	calls chan struct{}
}

func (j *countingJob) Name() string       { return "counting" }
func (j *countingJob) Do(context.Context) { j.calls <- struct{}{} }
func (j *countingJob) RunNow() bool       { return true }
func (j *countingJob) Next() time.Time    { return time.Now().Add(10 * time.Millisecond) }

func TestCronJobManager(t *testing.T) {
	ctx, cancel := context.WithCancel(testutil.MockContext())
	defer cancel()

	job := &countingJob{calls: make(chan struct{}, 10)}
	manager := NewCronJobManager()
	manager.Register(job)

	stopped := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(stopped)
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-job.calls:
		case <-time.After(time.Second):
			t.Fatal("job was not rescheduled")
		}
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}
}
