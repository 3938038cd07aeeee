package cron

import (
	"context"
	"math"
	"time"

	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/xcontext"
	"github.com/versestream/backend/pkg/xredis"
)

const (
	cleanupPresenceInterval  = 10 * time.Minute
	defaultPresenceRetention = 24 * time.Hour
)

// CleanupPresenceCronJob forgets users who have not pinged within the
// retention window, both in the database and in the redis sorted set.
type CleanupPresenceCronJob struct {
	presenceRepo repository.PresenceRepository
	redisClient  xredis.Client
}

func NewCleanupPresenceCronJob(
	presenceRepo repository.PresenceRepository,
	redisClient xredis.Client,
) *CleanupPresenceCronJob {
	return &CleanupPresenceCronJob{
		presenceRepo: presenceRepo,
		redisClient:  redisClient,
	}
}

func (job *CleanupPresenceCronJob) Name() string {
	return "cleanup_presence"
}

func (job *CleanupPresenceCronJob) Do(ctx context.Context) {
	retention := xcontext.Configs(ctx).Presence.Retention
	if retention <= 0 {
		retention = defaultPresenceRetention
	}

	before := time.Now().Add(-retention)

	deleted, err := job.presenceRepo.DeleteBefore(ctx, before)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete stale presence rows: %v", err)
	} else if deleted > 0 {
		xcontext.Logger(ctx).Infof("Deleted %d stale presence rows", deleted)
	}

	if job.redisClient == nil {
		return
	}

	// Scores are unix seconds, the max bound is exclusive of the cutoff.
	_, err = job.redisClient.ZRemRangeByScore(
		ctx, common.RedisKeyPresence, math.Inf(-1), float64(before.Unix()-1))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot remove stale presence members: %v", err)
	}
}

func (job *CleanupPresenceCronJob) RunNow() bool {
	return true
}

func (job *CleanupPresenceCronJob) Next() time.Time {
	return time.Now().Add(cleanupPresenceInterval)
}
