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
	"github.com/versestream/backend/pkg/xcontext"
)

func newTestSocialDomain() *socialDomain {
	return NewSocialDomain(
		repository.NewVerseRepository(),
		repository.NewLikeRepository(),
		repository.NewSaveRepository(),
		repository.NewCollectionRepository(),
		repository.NewDailyActionRepository(),
	)
}

func Test_socialDomain_Like(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	domain := newTestSocialDomain()

	_, err := domain.Like(ctx, &model.LikeRequest{})
	require.Equal(t, errorx.New(errorx.BadRequest, "Missing verse_id"), err)

	_, err = domain.Like(ctx, &model.LikeRequest{VerseID: 100})
	require.Equal(t, errorx.New(errorx.NotFound, "Verse not found"), err)

	resp, err := domain.Like(ctx, &model.LikeRequest{VerseID: testutil.VerseJohn.ID})
	require.NoError(t, err)
	require.True(t, resp.Liked)
	require.NotNil(t, resp.Recommendation)
	require.NotEqual(t, testutil.VerseJohn.ID, resp.Recommendation.ID)

	count, err := repository.NewDailyActionRepository().Count(
		ctx, testutil.User1.ID, challenge.PeriodKey(time.Now()), entity.ActionLike)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	check, err := domain.CheckLike(ctx, &model.CheckLikeRequest{VerseID: testutil.VerseJohn.ID})
	require.NoError(t, err)
	require.True(t, check.Liked)

	// A second call toggles the like off.
	resp, err = domain.Like(ctx, &model.LikeRequest{VerseID: testutil.VerseJohn.ID})
	require.NoError(t, err)
	require.False(t, resp.Liked)
	require.Nil(t, resp.Recommendation)

	check, err = domain.CheckLike(ctx, &model.CheckLikeRequest{VerseID: testutil.VerseJohn.ID})
	require.NoError(t, err)
	require.False(t, check.Liked)
}

func Test_socialDomain_Save(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	domain := newTestSocialDomain()

	resp, err := domain.Save(ctx, &model.SaveRequest{VerseID: testutil.VersePsalm.ID})
	require.NoError(t, err)
	require.True(t, resp.Saved)

	check, err := domain.CheckSave(ctx, &model.CheckSaveRequest{VerseID: testutil.VersePsalm.ID})
	require.NoError(t, err)
	require.True(t, check.Saved)

	count, err := repository.NewDailyActionRepository().Count(
		ctx, testutil.User1.ID, challenge.PeriodKey(time.Now()), entity.ActionSave)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	resp, err = domain.Save(ctx, &model.SaveRequest{VerseID: testutil.VersePsalm.ID})
	require.NoError(t, err)
	require.False(t, resp.Saved)
}

func Test_socialDomain_Check_Anonymous(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	domain := newTestSocialDomain()

	like, err := domain.CheckLike(ctx, &model.CheckLikeRequest{VerseID: testutil.VerseJohn.ID})
	require.NoError(t, err)
	require.False(t, like.Liked)

	save, err := domain.CheckSave(ctx, &model.CheckSaveRequest{VerseID: testutil.VerseJohn.ID})
	require.NoError(t, err)
	require.False(t, save.Saved)
}

func Test_socialDomain_GetLikedVerses(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	domain := newTestSocialDomain()
	for _, id := range []int64{testutil.VerseJohn.ID, testutil.VerseRomans.ID} {
		_, err := domain.Like(ctx, &model.LikeRequest{VerseID: id})
		require.NoError(t, err)
	}

	_, err := domain.Save(ctx, &model.SaveRequest{VerseID: testutil.VersePsalm.ID})
	require.NoError(t, err)

	liked, err := domain.GetLikedVerses(ctx, &model.GetLikedVersesRequest{})
	require.NoError(t, err)
	require.Equal(t, model.GetLikedVersesResponse{
		{ID: testutil.VerseRomans.ID, Ref: testutil.VerseRomans.Reference, Book: testutil.VerseRomans.Book},
		{ID: testutil.VerseJohn.ID, Ref: testutil.VerseJohn.Reference, Book: testutil.VerseJohn.Book},
	}, *liked)

	saved, err := domain.GetSavedVerses(ctx, &model.GetSavedVersesRequest{})
	require.NoError(t, err)
	require.Len(t, *saved, 1)
	require.Equal(t, testutil.VersePsalm.ID, (*saved)[0].ID)
}

func Test_socialDomain_Library(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	domain := newTestSocialDomain()

	_, err := domain.Like(ctx, &model.LikeRequest{VerseID: testutil.VerseJohn.ID})
	require.NoError(t, err)
	_, err = domain.Save(ctx, &model.SaveRequest{VerseID: testutil.VersePsalm.ID})
	require.NoError(t, err)

	favorites, err := domain.CreateCollection(ctx, &model.CreateCollectionRequest{Name: "Favorites"})
	require.NoError(t, err)
	require.Equal(t, "#0A84FF", favorites.Color)
	require.Empty(t, favorites.Verses)

	for _, id := range []int64{testutil.VerseJohn.ID, testutil.VerseRomans.ID} {
		_, err = domain.AddToCollection(ctx, &model.AddToCollectionRequest{
			CollectionID: favorites.ID,
			VerseID:      id,
		})
		require.NoError(t, err)
	}

	_, err = domain.CreateCollection(ctx, &model.CreateCollectionRequest{Name: "Morning", Color: "#FF9500"})
	require.NoError(t, err)

	resp, err := domain.GetLibrary(ctx, &model.GetLibraryRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Liked, 1)
	require.NotNil(t, resp.Liked[0].LikedAt)
	require.Nil(t, resp.Liked[0].SavedAt)
	require.Len(t, resp.Saved, 1)
	require.NotNil(t, resp.Saved[0].SavedAt)
	require.Equal(t, 1, resp.LikedCount)
	require.Equal(t, 1, resp.SavedCount)
	require.Equal(t, 2, resp.FavoritesCount)
	require.Len(t, resp.Collections, 2)

	for _, c := range resp.Collections {
		switch c.Name {
		case "Favorites":
			require.Equal(t, 2, c.Count)
			require.Len(t, c.Verses, 2)
		case "Morning":
			require.Equal(t, "#FF9500", c.Color)
			require.Equal(t, 0, c.Count)
			require.NotNil(t, c.Verses)
		default:
			t.Fatalf("unexpected collection %s", c.Name)
		}
	}

	// Another user sees an empty library.
	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	resp, err = domain.GetLibrary(otherCtx, &model.GetLibraryRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Liked)
	require.Empty(t, resp.Collections)

	anonymousCtx := xcontext.WithRequestUserID(ctx, 0)
	resp, err = domain.GetLibrary(anonymousCtx, &model.GetLibraryRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.Liked)
	require.NotNil(t, resp.Saved)
	require.NotNil(t, resp.Collections)
}

func Test_socialDomain_CreateCollection(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	_, err := newTestSocialDomain().CreateCollection(ctx, &model.CreateCollectionRequest{Name: "   "})
	require.Equal(t, errorx.New(errorx.BadRequest, "Name required"), err)
}

func Test_socialDomain_AddToCollection(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)
	testutil.CreateFixture(ctx)

	domain := newTestSocialDomain()
	collection, err := domain.CreateCollection(ctx, &model.CreateCollectionRequest{Name: "Evening"})
	require.NoError(t, err)

	_, err = domain.AddToCollection(ctx, &model.AddToCollectionRequest{
		CollectionID: collection.ID,
		VerseID:      testutil.VerseJohn.ID,
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     *model.AddToCollectionRequest
		userID  int64
		wantErr error
	}{
		{
			name:    "missing fields",
			userID:  testutil.User1.ID,
			req:     &model.AddToCollectionRequest{CollectionID: collection.ID},
			wantErr: errorx.New(errorx.BadRequest, "Missing collection_id or verse_id"),
		},
		{
			name:    "unknown collection",
			userID:  testutil.User1.ID,
			req:     &model.AddToCollectionRequest{CollectionID: 100, VerseID: testutil.VerseJohn.ID},
			wantErr: errorx.New(errorx.NotFound, "Collection not found"),
		},
		{
			name:    "collection of another user",
			userID:  testutil.User2.ID,
			req:     &model.AddToCollectionRequest{CollectionID: collection.ID, VerseID: testutil.VersePsalm.ID},
			wantErr: errorx.New(errorx.PermissionDenied, "Not your collection"),
		},
		{
			name:    "duplicate verse",
			userID:  testutil.User1.ID,
			req:     &model.AddToCollectionRequest{CollectionID: collection.ID, VerseID: testutil.VerseJohn.ID},
			wantErr: errorx.New(errorx.AlreadyExists, "Already in collection"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.AddToCollection(xcontext.WithRequestUserID(ctx, tt.userID), tt.req)
			require.Equal(t, tt.wantErr, err)
		})
	}
}
