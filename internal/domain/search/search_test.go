package search

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/testutil"
)

func TestBleveIndex_IndexStoredVerses(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	index := NewBleveIndex(ctx)
	defer index.Close()

	require.NoError(t, index.IndexStoredVerses(ctx, repository.NewVerseRepository()))

	ids, total, err := index.SearchVerses("shepherd", 0, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(1), total)
	require.Equal(t, []int64{testutil.VersePsalm.ID}, ids)
}

func TestBleveIndex_OnVerseRotated(t *testing.T) {
	ctx := testutil.MockContext()

	index := NewBleveIndex(ctx)
	defer index.Close()

	require.NoError(t, index.OnVerseRotated(ctx, model.Verse{ID: 0, Ref: "Ignored 1:1", Text: "mustard seed"}))
	require.NoError(t, index.OnVerseRotated(ctx, model.Verse{
		ID:   9,
		Ref:  "Matthew 17:20",
		Text: "If ye have faith as a grain of mustard seed",
		Book: "Matthew",
	}))

	ids, total, err := index.SearchVerses("mustard", 0, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(1), total)
	require.Equal(t, []int64{9}, ids)

	ids, _, err = index.SearchVerses("leviathan", 0, 10)
	require.NoError(t, err)
	require.Empty(t, ids)
}
