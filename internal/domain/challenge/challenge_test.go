package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/testutil"
)

func TestPeriodKeyAndWindow(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 37, 12, 0, time.Local)
	require.Equal(t, "2024-03-09-14", PeriodKey(now))

	start, end := Window(now)
	require.Equal(t, time.Date(2024, 3, 9, 14, 0, 0, 0, time.Local), start)
	require.Equal(t, time.Hour, end.Sub(start))
}

func TestSelect_Deterministic(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local)
	later := now.Add(40 * time.Minute)

	first := Select(42, now)
	require.Equal(t, first, Select(42, later))
	require.GreaterOrEqual(t, first.XPReward, 100)
	require.LessOrEqual(t, first.XPReward, 500)
	require.Contains(t, Definitions, first.Definition)

	value := seed(42, "2024-03-09-14")
	require.Equal(t, Definitions[value%6], first.Definition)
	require.Equal(t, 100+int(value%401), first.XPReward)
}

func TestSelect_ChangesWithUser(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local)

	seen := map[string]bool{}
	for userID := int64(1); userID <= 50; userID++ {
		seen[Select(userID, now).ID] = true
	}

	require.Greater(t, len(seen), 1)
}

func TestTracker_Progress(t *testing.T) {
	ctx := testutil.MockContext()
	tracker := NewTracker(repository.NewDailyActionRepository())

	now := time.Now()
	c := Select(testutil.User1.ID, now)

	_, progress, err := tracker.Progress(ctx, testutil.User1.ID, now)
	require.NoError(t, err)
	require.Equal(t, 0, progress)

	for verseID := int64(1); verseID <= int64(c.Goal)+2; verseID++ {
		tracker.Record(ctx, testutil.User1.ID, c.Action, verseID)
	}
	// Recording the same verse twice counts once.
	tracker.Record(ctx, testutil.User1.ID, c.Action, 1)

	got, progress, err := tracker.Progress(ctx, testutil.User1.ID, now)
	require.NoError(t, err)
	require.Equal(t, c, got)
	require.Equal(t, c.Goal, progress)
}

func TestTracker_CommunityCountsAsComment(t *testing.T) {
	ctx := testutil.MockContext()
	tracker := NewTracker(repository.NewDailyActionRepository())

	now := time.Now()
	userID := int64(0)
	for id := int64(1); id <= 1000; id++ {
		if Select(id, now).Action == entity.ActionComment {
			userID = id
			break
		}
	}
	require.NotZero(t, userID)

	tracker.Record(ctx, userID, entity.ActionCommunity, 1)
	tracker.Record(ctx, userID, entity.ActionComment, 1)

	c, progress, err := tracker.Progress(ctx, userID, now)
	require.NoError(t, err)
	require.Equal(t, c.Goal, progress)
}

func TestTracker_OtherActionsDoNotCount(t *testing.T) {
	ctx := testutil.MockContext()
	tracker := NewTracker(repository.NewDailyActionRepository())

	now := time.Now()
	c := Select(testutil.User2.ID, now)

	other := entity.ActionLike
	if c.Action == entity.ActionLike {
		other = entity.ActionSave
	}
	tracker.Record(ctx, testutil.User2.ID, other, 1)

	_, progress, err := tracker.Progress(ctx, testutil.User2.ID, now)
	require.NoError(t, err)
	require.Equal(t, 0, progress)
}
