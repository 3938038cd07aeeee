package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/domain/challenge"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/testutil"
)

func newTestRecommendationDomain() *recommendationDomain {
	return NewRecommendationDomain(
		repository.NewVerseRepository(),
		repository.NewDailyActionRepository(),
	)
}

func Test_recommender_PreferredBook(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	// Another verse of the liked book, the only candidate in that book.
	extra := &entity.Verse{
		Reference:   "Psalm 46:1",
		Text:        "God is our refuge and strength.",
		Translation: "KJV",
		Book:        "Psalm",
	}
	require.NoError(t, repository.NewVerseRepository().CreateIfNotExists(ctx, extra))
	require.NoError(t, repository.NewLikeRepository().Create(ctx,
		&entity.Like{UserID: testutil.User1.ID, VerseID: testutil.VersePsalm.ID}))

	rec, err := newRecommender(repository.NewVerseRepository()).Recommend(ctx, testutil.User1.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "Psalm 46:1", rec.Ref)
	require.Contains(t, rec.Reason, "Psalm")
}

func Test_recommender_GenericFallback(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	// Every verse of the preferred book is already engaged.
	require.NoError(t, repository.NewSaveRepository().Create(ctx,
		&entity.Save{UserID: testutil.User1.ID, VerseID: testutil.VersePsalm.ID}))

	rec, err := newRecommender(repository.NewVerseRepository()).Recommend(
		ctx, testutil.User1.ID, []int64{testutil.VerseJohn.ID, testutil.VerseRomans.ID})
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, testutil.VersePhilippians.ID, rec.ID)
	require.Contains(t, genericReasons, rec.Reason)
}

func Test_recommendationDomain_Generate(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	domain := newTestRecommendationDomain()

	resp, err := domain.Generate(ctx, &model.GenerateRecommendationRequest{
		ExcludeIDs: []int64{1, 2, 3, 3, -1},
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, testutil.VersePhilippians.ID, resp.Recommendation.ID)

	resp, err = domain.Generate(ctx, &model.GenerateRecommendationRequest{
		ExcludeIDs: []int64{1, 2, 3, 4},
	})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Nil(t, resp.Recommendation)

	list, err := domain.GetRecommendations(ctx, &model.GetRecommendationsRequest{})
	require.NoError(t, err)
	require.Len(t, list.Recommendations, 1)
}

func Test_recommendationDomain_GetRecommendations_Empty(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)

	resp, err := newTestRecommendationDomain().GetRecommendations(ctx, &model.GetRecommendationsRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.Recommendations)
	require.Empty(t, resp.Recommendations)
}

func Test_recommendationDomain_GetMoodVerse(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	domain := newTestRecommendationDomain()

	tests := []struct {
		name    string
		req     *model.GetMoodVerseRequest
		wantIDs []int64
		wantErr error
	}{
		{
			name:    "keyword match",
			req:     &model.GetMoodVerseRequest{Mood: "Strength"},
			wantIDs: []int64{testutil.VersePhilippians.ID},
		},
		{
			name:    "keyword match with exclusion",
			req:     &model.GetMoodVerseRequest{Mood: "love", Exclude: "1"},
			wantIDs: []int64{testutil.VerseRomans.ID},
		},
		{
			name:    "unknown mood without match falls back to any verse",
			req:     &model.GetMoodVerseRequest{Mood: "sleepy", Exclude: "1,3,4"},
			wantIDs: []int64{testutil.VersePsalm.ID},
		},
		{
			name:    "everything excluded",
			req:     &model.GetMoodVerseRequest{Mood: "hope", Exclude: "1,2,3,4"},
			wantErr: errorx.New(errorx.NotFound, "No verses found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := domain.GetMoodVerse(ctx, tt.req)
			if tt.wantErr != nil {
				require.Equal(t, tt.wantErr, err)
				return
			}

			require.NoError(t, err)
			require.Contains(t, tt.wantIDs, resp.ID)
		})
	}
}

func Test_recommendationDomain_GetDailyChallenge(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User2.ID)
	testutil.CreateFixture(ctx)

	domain := newTestRecommendationDomain()
	c := challenge.Select(testutil.User2.ID, time.Now())

	resp, err := domain.GetDailyChallenge(ctx, &model.GetDailyChallengeRequest{})
	require.NoError(t, err)
	require.Equal(t, c.ID, resp.ID)
	require.Equal(t, string(c.Action), resp.Type)
	require.Equal(t, c.Period, resp.ChallengeID)
	require.Equal(t, 0, resp.Progress)
	require.False(t, resp.Completed)

	tracker := challenge.NewTracker(repository.NewDailyActionRepository())
	for verseID := int64(1); verseID <= int64(c.Goal); verseID++ {
		tracker.Record(ctx, testutil.User2.ID, c.Action, verseID)
	}

	resp, err = domain.GetDailyChallenge(ctx, &model.GetDailyChallengeRequest{})
	require.NoError(t, err)
	require.Equal(t, c.Goal, resp.Progress)
	require.True(t, resp.Completed)
}
