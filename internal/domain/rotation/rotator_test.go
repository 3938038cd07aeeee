package rotation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/client"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/mocks"
	"github.com/versestream/backend/pkg/testutil"
)

type recordSubscriber struct {
	mutex  sync.Mutex
	verses []model.Verse
	err    error
}

func (s *recordSubscriber) OnVerseRotated(ctx context.Context, verse model.Verse) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.verses = append(s.verses, verse)
	return s.err
}

type brokenSettingRepository struct {
	repository.SettingRepository
}

func (r *brokenSettingRepository) Set(ctx context.Context, key, value string) error {
	return errors.New("database is locked")
}

type brokenVerseRepository struct {
	repository.VerseRepository
}

func (r *brokenVerseRepository) CreateIfNotExists(ctx context.Context, data *entity.Verse) error {
	return errors.New("database is locked")
}

func newRotator(t *testing.T, ctx context.Context, caller client.VerseSourceCaller) *Rotator {
	r, err := NewRotator(ctx, repository.NewVerseRepository(), repository.NewSettingRepository(), caller)
	require.NoError(t, err)
	return r
}

func TestNewRotator_ResumesLatestVerse(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	r := newRotator(t, ctx, &mocks.VerseSourceCaller{})
	snapshot := r.Current()
	require.Equal(t, testutil.VersePhilippians.ID, snapshot.Verse.ID)
	require.False(t, snapshot.Verse.IsNew)
	require.NotEmpty(t, snapshot.Verse.SessionID)
	require.Equal(t, 60, snapshot.Interval)
	require.Equal(t, 60, snapshot.TimeLeft)
}

func TestNewRotator_EmptyStoreUsesFallback(t *testing.T) {
	ctx := testutil.MockContext()

	r := newRotator(t, ctx, &mocks.VerseSourceCaller{})
	snapshot := r.Current()
	require.Equal(t, fallbackSource, snapshot.Verse.Source)
	require.NotZero(t, snapshot.Verse.ID)
	require.NotEmpty(t, snapshot.Verse.Text)
}

func TestRotator_Rotate(t *testing.T) {
	ctx := testutil.MockContext()

	caller := &mocks.VerseSourceCaller{}
	caller.On("Fetch", mock.Anything).Return(&client.FetchedVerse{
		Reference:   "Micah 6:8",
		Text:        "He hath shewed thee, O man, what is good.",
		Translation: "KJV",
		Source:      "Bible-API.com",
		Book:        "Micah",
	}, nil).Once()
	caller.On("Fetch", mock.Anything).Return(nil, errors.New("offline"))

	r := newRotator(t, ctx, caller)
	before := r.Current()

	failing := &recordSubscriber{err: errors.New("broken pipe")}
	recorder := &recordSubscriber{}
	r.Subscribe(failing)
	r.Subscribe(recorder)

	verse := r.Rotate(ctx)
	require.Equal(t, "Micah 6:8", verse.Ref)
	require.True(t, verse.IsNew)
	require.NotZero(t, verse.ID)
	require.NotEqual(t, before.Verse.SessionID, verse.SessionID)
	require.Equal(t, int64(1), r.Current().TotalRotated)
	require.Equal(t, []model.Verse{verse}, recorder.verses)

	// Storing the same verse again reuses its row.
	stored, err := repository.NewVerseRepository().GetByID(ctx, verse.ID)
	require.NoError(t, err)
	require.Equal(t, "Micah", stored.Book)

	fallback := r.Rotate(ctx)
	require.Equal(t, fallbackSource, fallback.Source)
	require.NotEqual(t, verse.SessionID, fallback.SessionID)
	require.Equal(t, int64(2), r.Current().TotalRotated)
	require.Len(t, recorder.verses, 2)
}

func TestRotator_SetInterval(t *testing.T) {
	ctx := testutil.MockContext()
	r := newRotator(t, ctx, &mocks.VerseSourceCaller{})

	interval, err := r.SetInterval(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, MinInterval, interval)
	require.Equal(t, MinInterval, r.Current().TimeLeft)

	interval, err = r.SetInterval(ctx, 10000)
	require.NoError(t, err)
	require.Equal(t, MaxInterval, interval)
	// Time left never grows with the interval.
	require.Equal(t, MinInterval, r.Current().TimeLeft)

	value, err := repository.NewSettingRepository().Get(ctx, entity.SettingVerseInterval)
	require.NoError(t, err)
	require.Equal(t, "3600", value)

	// A new rotator picks up the persisted interval.
	require.Equal(t, MaxInterval, newRotator(t, ctx, &mocks.VerseSourceCaller{}).Interval())
}

func TestRotator_SetIntervalSurvivesFailedPersist(t *testing.T) {
	ctx := testutil.MockContext()
	settingRepo := repository.NewSettingRepository()
	require.NoError(t, settingRepo.Set(ctx, entity.SettingVerseInterval, "30"))

	caller := &mocks.VerseSourceCaller{}
	caller.On("Fetch", mock.Anything).Return(nil, errors.New("offline"))

	r, err := NewRotator(ctx, repository.NewVerseRepository(),
		&brokenSettingRepository{SettingRepository: settingRepo}, caller)
	require.NoError(t, err)
	require.Equal(t, 30, r.Interval())

	interval, err := r.SetInterval(ctx, 120)
	require.Error(t, err)
	require.Equal(t, 120, interval)

	r.mutex.Lock()
	r.timeLeft = 0
	r.mutex.Unlock()
	require.NoError(t, r.tick(ctx))

	// The unchanged stored value does not undo the new interval.
	require.Equal(t, 120, r.Interval())
	require.Equal(t, 120, r.Current().TimeLeft)

	// A value written by another process is picked up at the next rotation.
	require.NoError(t, settingRepo.Set(ctx, entity.SettingVerseInterval, "45"))
	r.mutex.Lock()
	r.timeLeft = 0
	r.mutex.Unlock()
	require.NoError(t, r.tick(ctx))
	require.Equal(t, 45, r.Interval())
	require.Equal(t, 45, r.Current().TimeLeft)
}

func TestRotator_TickWithFailingFetch(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	caller := &mocks.VerseSourceCaller{}
	caller.On("Fetch", mock.Anything).Return(nil, errors.New("offline"))

	r := newRotator(t, ctx, caller)
	before := r.Current()

	r.mutex.Lock()
	r.timeLeft = 0
	r.mutex.Unlock()
	require.NoError(t, r.tick(ctx))

	after := r.Current()
	require.Equal(t, after.Interval, after.TimeLeft)
	require.Equal(t, fallbackSource, after.Verse.Source)
	require.True(t, after.Verse.IsNew)
	require.NotEqual(t, before.Verse.SessionID, after.Verse.SessionID)
	require.Equal(t, int64(1), after.TotalRotated)

	// A tick that is not due only counts down.
	require.NoError(t, r.tick(ctx))
	require.Equal(t, after.Interval-1, r.Current().TimeLeft)
	require.Equal(t, after.Verse.SessionID, r.Current().Verse.SessionID)
}

func TestRotator_RotatePublishesUnstoredVerse(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixture(ctx)

	caller := &mocks.VerseSourceCaller{}
	caller.On("Fetch", mock.Anything).Return(&client.FetchedVerse{
		Reference:   "Micah 6:8",
		Text:        "He hath shewed thee, O man, what is good.",
		Translation: "KJV",
		Source:      "Bible-API.com",
		Book:        "Micah",
	}, nil)

	r, err := NewRotator(ctx, &brokenVerseRepository{VerseRepository: repository.NewVerseRepository()},
		repository.NewSettingRepository(), caller)
	require.NoError(t, err)
	before := r.Current()

	recorder := &recordSubscriber{}
	r.Subscribe(recorder)

	verse := r.Rotate(ctx)
	require.Zero(t, verse.ID)
	require.Equal(t, "Micah 6:8", verse.Ref)
	require.True(t, verse.IsNew)
	require.NotEqual(t, before.Verse.SessionID, verse.SessionID)
	require.Equal(t, verse, r.Current().Verse)
	require.Equal(t, []model.Verse{verse}, recorder.verses)
}

func TestRotator_TickRecoversPanic(t *testing.T) {
	ctx := testutil.MockContext()

	caller := &mocks.VerseSourceCaller{}
	caller.On("Fetch", mock.Anything).Run(func(args mock.Arguments) {
		panic("source exploded")
	})

	r := newRotator(t, ctx, caller)
	r.mutex.Lock()
	r.timeLeft = 0
	r.mutex.Unlock()

	require.Error(t, r.tick(ctx))
	// The countdown is untouched so the next tick retries.
	require.Equal(t, 0, r.Current().TimeLeft)
}

func TestRotator_Loop(t *testing.T) {
	ctx := testutil.MockContext()

	caller := &mocks.VerseSourceCaller{}
	caller.On("Fetch", mock.Anything).Return(nil, errors.New("offline"))

	r := newRotator(t, ctx, caller)
	r.tickInterval = 10 * time.Millisecond
	r.mutex.Lock()
	r.timeLeft = 0
	r.mutex.Unlock()

	loopCtx, cancel := context.WithCancel(ctx)
	r.Start(loopCtx)

	require.Eventually(t, func() bool {
		return r.Current().TotalRotated > 0
	}, time.Second, 10*time.Millisecond)
	require.True(t, r.Current().Running)

	cancel()
	require.Eventually(t, func() bool {
		return !r.Current().Running
	}, time.Second, 10*time.Millisecond)

	// A cancelled rotator cannot be restarted.
	r.EnsureRunning()
	require.False(t, r.Current().Running)
}

func TestCurrentCache(t *testing.T) {
	cache := NewCurrentCache(0)
	now := time.Now()

	_, ok := cache.Get(1, now)
	require.False(t, ok)

	cache.Set(1, model.GetCurrentResponse{Countdown: 7}, now)
	value, ok := cache.Get(1, now.Add(400*time.Millisecond))
	require.True(t, ok)
	require.Equal(t, 7, value.Countdown)

	_, ok = cache.Get(2, now)
	require.False(t, ok)

	_, ok = cache.Get(1, now.Add(minCacheTTL))
	require.False(t, ok)
}
