package domain

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/domain/challenge"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const defaultMood = "peace"

var moodKeywords = map[string][]string{
	"peace":     {"peace", "calm", "rest", "still"},
	"strength":  {"strength", "strong", "power", "courage", "mighty"},
	"hope":      {"hope", "future", "promise", "trust", "faith"},
	"love":      {"love", "beloved", "mercy", "grace", "compassion"},
	"gratitude": {"thanks", "thank", "grateful", "praise", "give thanks"},
	"guidance":  {"guide", "path", "direct", "wisdom", "counsel"},
}

var (
	bookReasons = []string{
		"Because you like %s",
		"A fresh passage from %s",
		"Something uplifting from %s",
		"More wisdom in %s",
	}

	genericReasons = []string{
		"Recommended for you",
		"A fresh verse for today",
		"Something to reflect on",
		"A new verse to explore",
	}
)

// recommender picks a verse the user has not engaged with yet, preferring
// the books of the verses they liked or saved.
type recommender struct {
	verseRepo repository.VerseRepository
}

func newRecommender(verseRepo repository.VerseRepository) *recommender {
	return &recommender{verseRepo: verseRepo}
}

// Recommend returns nil when every verse is excluded.
func (r *recommender) Recommend(
	ctx context.Context, userID int64, excludeIDs []int64,
) (*model.Recommendation, error) {
	books, err := r.verseRepo.GetPreferredBooks(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter := repository.RandomVerseFilter{
		ExcludeIDs:       compactIDs(excludeIDs),
		ExcludeEngagedBy: userID,
	}

	if len(books) > 0 {
		filter.Books = books
		verse, err := r.verseRepo.GetRandom(ctx, filter)
		if err == nil {
			reason := fmt.Sprintf(bookReasons[rand.IntN(len(bookReasons))], verse.Book)
			return toRecommendation(verse, reason), nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	filter.Books = nil
	verse, err := r.verseRepo.GetRandom(ctx, filter)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return toRecommendation(verse, genericReasons[rand.IntN(len(genericReasons))]), nil
}

func toRecommendation(v *entity.Verse, reason string) *model.Recommendation {
	return &model.Recommendation{
		ID:     v.ID,
		Ref:    v.Reference,
		Text:   v.Text,
		Trans:  v.Translation,
		Book:   v.Book,
		Reason: reason,
	}
}

// compactIDs drops invalid and duplicated ids.
func compactIDs(ids []int64) []int64 {
	result := []int64{}
	for _, id := range ids {
		if id > 0 && !slices.Contains(result, id) {
			result = append(result, id)
		}
	}

	return result
}

type RecommendationDomain interface {
	GetRecommendations(context.Context, *model.GetRecommendationsRequest) (*model.GetRecommendationsResponse, error)
	Generate(context.Context, *model.GenerateRecommendationRequest) (*model.GenerateRecommendationResponse, error)
	GetMoodVerse(context.Context, *model.GetMoodVerseRequest) (*model.GetMoodVerseResponse, error)
	GetDailyChallenge(context.Context, *model.GetDailyChallengeRequest) (*model.GetDailyChallengeResponse, error)
}

type recommendationDomain struct {
	verseRepo   repository.VerseRepository
	recommender *recommender
	tracker     *challenge.Tracker
}

func NewRecommendationDomain(
	verseRepo repository.VerseRepository,
	dailyActionRepo repository.DailyActionRepository,
) *recommendationDomain {
	return &recommendationDomain{
		verseRepo:   verseRepo,
		recommender: newRecommender(verseRepo),
		tracker:     challenge.NewTracker(dailyActionRepo),
	}
}

func (d *recommendationDomain) GetRecommendations(
	ctx context.Context, req *model.GetRecommendationsRequest,
) (*model.GetRecommendationsResponse, error) {
	rec, err := d.recommender.Recommend(ctx, xcontext.RequestUserID(ctx), nil)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate recommendation: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetRecommendationsResponse{Recommendations: []model.Recommendation{}}
	if rec != nil {
		resp.Recommendations = append(resp.Recommendations, *rec)
	}

	return resp, nil
}

func (d *recommendationDomain) Generate(
	ctx context.Context, req *model.GenerateRecommendationRequest,
) (*model.GenerateRecommendationResponse, error) {
	rec, err := d.recommender.Recommend(ctx, xcontext.RequestUserID(ctx), req.ExcludeIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate recommendation: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GenerateRecommendationResponse{Success: rec != nil, Recommendation: rec}, nil
}

func (d *recommendationDomain) GetMoodVerse(
	ctx context.Context, req *model.GetMoodVerseRequest,
) (*model.GetMoodVerseResponse, error) {
	keywords, ok := moodKeywords[strings.ToLower(strings.TrimSpace(req.Mood))]
	if !ok {
		keywords = moodKeywords[defaultMood]
	}

	filter := repository.RandomVerseFilter{
		ExcludeIDs: compactIDs(common.ParseIDList(req.Exclude)),
		Keywords:   keywords,
	}

	verse, err := d.verseRepo.GetRandom(ctx, filter)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		filter.Keywords = nil
		verse, err = d.verseRepo.GetRandom(ctx, filter)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "No verses found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get mood verse: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMoodVerseResponse{
		ID:    verse.ID,
		Ref:   verse.Reference,
		Text:  verse.Text,
		Trans: verse.Translation,
		Book:  verse.Book,
	}, nil
}

func (d *recommendationDomain) GetDailyChallenge(
	ctx context.Context, req *model.GetDailyChallengeRequest,
) (*model.GetDailyChallengeResponse, error) {
	c, progress, err := d.tracker.Progress(ctx, xcontext.RequestUserID(ctx), time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get daily challenge progress: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetDailyChallengeResponse{
		ID:          c.ID,
		Text:        c.Text,
		Goal:        c.Goal,
		Type:        string(c.Action),
		Date:        c.Period,
		ChallengeID: c.Period,
		ExpiresAt:   c.ExpiresAt.Local().Format(common.ISOLayout),
		XPReward:    c.XPReward,
		Progress:    progress,
		Completed:   progress >= c.Goal,
	}, nil
}
