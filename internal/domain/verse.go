package domain

import (
	"context"
	"strings"
	"time"

	"github.com/versestream/backend/internal/domain/rotation"
	"github.com/versestream/backend/internal/domain/search"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

type VerseDomain interface {
	GetCurrent(context.Context, *model.GetCurrentRequest) (*model.GetCurrentResponse, error)
	SetInterval(context.Context, *model.SetIntervalRequest) (*model.SetIntervalResponse, error)
	Health(context.Context, *model.HealthRequest) (*model.HealthResponse, error)
	Search(context.Context, *model.SearchVersesRequest) (*model.SearchVersesResponse, error)
}

type verseDomain struct {
	rotator      *rotation.Rotator
	currentCache *rotation.CurrentCache
	searchIndex  search.Index
	verseRepo    repository.VerseRepository
}

func NewVerseDomain(
	ctx context.Context,
	rotator *rotation.Rotator,
	searchIndex search.Index,
	verseRepo repository.VerseRepository,
) *verseDomain {
	return &verseDomain{
		rotator:      rotator,
		currentCache: rotation.NewCurrentCache(xcontext.Configs(ctx).Rotation.CurrentCacheTTL),
		searchIndex:  searchIndex,
		verseRepo:    verseRepo,
	}
}

func (d *verseDomain) GetCurrent(
	ctx context.Context, req *model.GetCurrentRequest,
) (*model.GetCurrentResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	now := time.Now()
	if cached, ok := d.currentCache.Get(userID, now); ok {
		return &cached, nil
	}

	d.rotator.EnsureRunning()

	snapshot := d.rotator.Current()
	resp := model.GetCurrentResponse{
		Verse:       snapshot.Verse,
		Countdown:   snapshot.TimeLeft,
		TotalVerses: snapshot.TotalRotated,
		SessionID:   snapshot.Verse.SessionID,
		Interval:    snapshot.Interval,
	}

	d.currentCache.Set(userID, resp, now)
	return &resp, nil
}

func (d *verseDomain) SetInterval(
	ctx context.Context, req *model.SetIntervalRequest,
) (*model.SetIntervalResponse, error) {
	if req.Interval < rotation.MinInterval || req.Interval > rotation.MaxInterval {
		return nil, errorx.New(errorx.BadRequest, "Interval must be between %d and %d seconds",
			rotation.MinInterval, rotation.MaxInterval)
	}

	interval, err := d.rotator.SetInterval(ctx, req.Interval)
	if err != nil {
		// The new interval stays in effect in this process, only the persistence
		// failed.
		xcontext.Logger(ctx).Errorf("Cannot persist verse interval: %v", err)
	}

	xcontext.Logger(ctx).Infof("Verse interval set to %d seconds by user %d",
		interval, xcontext.RequestUserID(ctx))
	return &model.SetIntervalResponse{Success: true, Interval: interval}, nil
}

func (d *verseDomain) Health(
	ctx context.Context, req *model.HealthRequest,
) (*model.HealthResponse, error) {
	snapshot := d.rotator.Current()
	return &model.HealthResponse{
		Status:           "healthy",
		GeneratorRunning: snapshot.Running,
		CurrentVerse:     snapshot.Verse.Ref,
		TimeLeft:         snapshot.TimeLeft,
		Interval:         snapshot.Interval,
	}, nil
}

func (d *verseDomain) Search(
	ctx context.Context, req *model.SearchVersesRequest,
) (*model.SearchVersesResponse, error) {
	query := strings.TrimSpace(req.Q)
	if query == "" {
		return nil, errorx.New(errorx.BadRequest, "Query is required")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	ids, total, err := d.searchIndex.SearchVerses(query, 0, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search verses: %v", err)
		return nil, errorx.Unknown
	}

	verses, err := d.verseRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get verses by ids: %v", err)
		return nil, errorx.Unknown
	}

	versesByID := map[int64]model.VerseSummary{}
	for _, v := range verses {
		versesByID[v.ID] = model.VerseSummary{ID: v.ID, Ref: v.Reference, Book: v.Book}
	}

	// Keep the relevance order of the index.
	resp := &model.SearchVersesResponse{Query: query, Total: total, Verses: []model.VerseSummary{}}
	for _, id := range ids {
		if v, ok := versesByID[id]; ok {
			resp.Verses = append(resp.Verses, v)
		}
	}

	return resp, nil
}
