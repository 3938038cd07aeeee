package domain

import (
	"context"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
	"github.com/versestream/backend/pkg/xredis"
)

const maxPresencePathLength = 255

type PresenceDomain interface {
	Ping(context.Context, *model.PingPresenceRequest) (*model.PingPresenceResponse, error)
	Online(context.Context, *model.GetOnlineRequest) (*model.GetOnlineResponse, error)
}

type presenceDomain struct {
	presenceRepo repository.PresenceRepository

	// redisClient is nil when no redis is configured.
	redisClient xredis.Client
}

func NewPresenceDomain(presenceRepo repository.PresenceRepository, redisClient xredis.Client) *presenceDomain {
	return &presenceDomain{presenceRepo: presenceRepo, redisClient: redisClient}
}

func (d *presenceDomain) Ping(ctx context.Context, req *model.PingPresenceRequest) (*model.PingPresenceResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	now := time.Now()

	path := []rune(trimText(req.Path))
	if len(path) > maxPresencePathLength {
		path = path[:maxPresencePathLength]
	}

	err := d.presenceRepo.Upsert(ctx, &entity.UserPresence{
		UserID:   userID,
		LastSeen: now,
		LastPath: string(path),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert presence: %v", err)
		return nil, errorx.Unknown
	}

	if d.redisClient != nil {
		err := d.redisClient.ZAdd(ctx, common.RedisKeyPresence, redis.Z{
			Score:  float64(now.Unix()),
			Member: common.RedisMemberPresence(userID),
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot refresh presence in redis: %v", err)
		}
	}

	return &model.PingPresenceResponse{Success: true}, nil
}

func (d *presenceDomain) Online(ctx context.Context, req *model.GetOnlineRequest) (*model.GetOnlineResponse, error) {
	since := time.Now().Add(-xcontext.Configs(ctx).Presence.OnlineWindow)

	if d.redisClient != nil {
		count, err := d.redisClient.ZCount(ctx, common.RedisKeyPresence, float64(since.Unix()), math.Inf(1))
		if err == nil {
			return &model.GetOnlineResponse{Count: count}, nil
		}

		xcontext.Logger(ctx).Warnf("Cannot count presence in redis, fall back to database: %v", err)
	}

	count, err := d.presenceRepo.CountSince(ctx, since)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count online users: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetOnlineResponse{Count: count}, nil
}
