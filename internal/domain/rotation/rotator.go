package rotation

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/math"
	"github.com/versestream/backend/internal/client"
	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/xcontext"
)

const (
	MinInterval     = 10
	MaxInterval     = 3600
	defaultInterval = 60
)

// Subscriber is notified after every rotation. Its errors are only logged.
type Subscriber interface {
	OnVerseRotated(ctx context.Context, verse model.Verse) error
}

type Snapshot struct {
	Verse        model.Verse
	TimeLeft     int
	Interval     int
	TotalRotated int64
	Running      bool
}

// Rotator replaces the current verse every interval. Readers get copies of
// the state, they never wait for a fetch.
type Rotator struct {
	mutex        sync.Mutex
	current      model.Verse
	timeLeft     int
	interval     int
	totalRotated int64

	// syncedInterval is the last interval read from or written to the
	// settings. Only a stored value different from it is adopted.
	syncedInterval int
	running      bool
	subscribers  []Subscriber

	// ctx is the lifetime of the loop, set by Start.
	ctx context.Context

	tickInterval time.Duration
	errorBackoff time.Duration

	verseRepo    repository.VerseRepository
	settingRepo  repository.SettingRepository
	sourceCaller client.VerseSourceCaller
	node         *snowflake.Node
}

func NewRotator(
	ctx context.Context,
	verseRepo repository.VerseRepository,
	settingRepo repository.SettingRepository,
	sourceCaller client.VerseSourceCaller,
) (*Rotator, error) {
	node, err := snowflake.NewNode(xcontext.Configs(ctx).Rotation.NodeID)
	if err != nil {
		return nil, err
	}

	r := &Rotator{
		tickInterval: time.Second,
		errorBackoff: 5 * time.Second,
		verseRepo:    verseRepo,
		settingRepo:  settingRepo,
		sourceCaller: sourceCaller,
		node:         node,
	}

	r.interval = r.loadInterval(ctx)
	r.syncedInterval = r.interval
	r.timeLeft = r.interval

	latest, err := verseRepo.GetLatest(ctx)
	if err == nil {
		r.current = r.toModel(*latest, false)
	} else {
		xcontext.Logger(ctx).Infof("No stored verse to resume from (%v), using a fallback verse", err)
		fallback := randomFallback()
		r.current = r.toModel(r.persist(ctx, fallback), false)
	}

	return r, nil
}

func (r *Rotator) loadInterval(ctx context.Context) int {
	interval := xcontext.Configs(ctx).Rotation.DefaultInterval
	if interval <= 0 {
		interval = defaultInterval
	}

	stored, err := r.storedInterval(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot load verse interval, use %d: %v", interval, err)
		return interval
	}

	return stored
}

// storedInterval reads the interval persisted by SetInterval or by the admin
// command line.
func (r *Rotator) storedInterval(ctx context.Context) (int, error) {
	value, err := r.settingRepo.Get(ctx, entity.SettingVerseInterval)
	if err != nil {
		return 0, err
	}

	stored, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid stored verse interval %q: %w", value, err)
	}

	return clampInterval(stored), nil
}

// Subscribe must be called before Start.
func (r *Rotator) Subscribe(s Subscriber) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.subscribers = append(r.subscribers, s)
}

// Start runs the loop until ctx is done.
func (r *Rotator) Start(ctx context.Context) {
	r.mutex.Lock()
	r.ctx = ctx
	r.mutex.Unlock()

	r.EnsureRunning()
}

// EnsureRunning restarts the loop if it has exited while its context is still
// alive.
func (r *Rotator) EnsureRunning() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.running || r.ctx == nil || r.ctx.Err() != nil {
		return
	}

	r.running = true
	go r.loop(r.ctx)
}

func (r *Rotator) loop(ctx context.Context) {
	xcontext.Logger(ctx).Infof("Verse rotator started")
	defer func() {
		r.mutex.Lock()
		r.running = false
		r.mutex.Unlock()
		xcontext.Logger(ctx).Infof("Verse rotator stopped")
	}()

	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := r.tick(ctx); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot run rotation tick: %v", err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(r.errorBackoff):
			}
		}
	}
}

func (r *Rotator) tick(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	r.mutex.Lock()
	due := r.timeLeft <= 0
	if !due {
		r.timeLeft--
	}
	r.mutex.Unlock()

	if !due {
		return nil
	}

	r.Rotate(ctx)

	stored, storedErr := r.storedInterval(ctx)

	r.mutex.Lock()
	if storedErr == nil && stored != r.syncedInterval {
		r.interval = stored
		r.syncedInterval = stored
	}
	r.timeLeft = r.interval
	r.mutex.Unlock()

	return nil
}

// Rotate fetches the next verse, or takes a fallback one, stores it and
// publishes it as the current verse.
func (r *Rotator) Rotate(ctx context.Context) model.Verse {
	fetched, err := r.sourceCaller.Fetch(ctx)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot fetch verse, using a fallback verse: %v", err)
		fallback := randomFallback()
		fetched = &fallback
	}

	stored := r.persist(ctx, *fetched)

	r.mutex.Lock()
	r.current = r.toModel(stored, true)
	r.totalRotated++
	verse := r.current
	subscribers := r.subscribers
	r.mutex.Unlock()

	common.PromCounters[common.VerseRotationsTotal].WithLabelValues(verse.Source).Inc()
	xcontext.Logger(ctx).Infof("New verse: %s (%s)", verse.Ref, verse.Source)

	for _, s := range subscribers {
		if err := s.OnVerseRotated(ctx, verse); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot notify %T of the new verse: %v", s, err)
		}
	}

	return verse
}

// persist stores the verse and returns it with its id. The id stays 0 when
// the store is unavailable.
func (r *Rotator) persist(ctx context.Context, fetched client.FetchedVerse) entity.Verse {
	verse := entity.Verse{
		Reference:   fetched.Reference,
		Text:        fetched.Text,
		Translation: fetched.Translation,
		Source:      fetched.Source,
		Book:        fetched.Book,
	}

	if err := r.verseRepo.CreateIfNotExists(ctx, &verse); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot store verse %s: %v", verse.Reference, err)
		verse.ID = 0
		return verse
	}

	stored, err := r.verseRepo.GetByFingerprint(ctx, entity.VerseFingerprint(verse.Reference, verse.Text))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get stored verse %s: %v", verse.Reference, err)
		verse.ID = 0
		return verse
	}

	return *stored
}

// toModel must be called with the lock held or before the rotator is shared.
func (r *Rotator) toModel(verse entity.Verse, isNew bool) model.Verse {
	return model.Verse{
		ID:        verse.ID,
		Ref:       verse.Reference,
		Text:      verse.Text,
		Trans:     verse.Translation,
		Source:    verse.Source,
		Book:      verse.Book,
		IsNew:     isNew,
		SessionID: r.node.Generate().String(),
	}
}

func (r *Rotator) Current() Snapshot {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return Snapshot{
		Verse:        r.current,
		TimeLeft:     math.MaxInt(r.timeLeft, 0),
		Interval:     r.interval,
		TotalRotated: r.totalRotated,
		Running:      r.running,
	}
}

func (r *Rotator) Interval() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.interval
}

// SetInterval clamps seconds to the allowed range and persists it. The
// countdown is shortened when it exceeds the new interval.
func (r *Rotator) SetInterval(ctx context.Context, seconds int) (int, error) {
	interval := clampInterval(seconds)

	r.mutex.Lock()
	r.interval = interval
	r.timeLeft = math.MinInt(r.timeLeft, interval)
	r.mutex.Unlock()

	if err := r.settingRepo.Set(ctx, entity.SettingVerseInterval, strconv.Itoa(interval)); err != nil {
		return interval, err
	}

	r.mutex.Lock()
	r.syncedInterval = interval
	r.mutex.Unlock()

	return interval, nil
}

func clampInterval(seconds int) int {
	return math.MaxInt(MinInterval, math.MinInt(MaxInterval, seconds))
}
