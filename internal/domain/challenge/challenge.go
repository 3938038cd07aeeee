package challenge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/internal/repository"
	"github.com/versestream/backend/pkg/xcontext"
)

const periodLayout = "2006-01-02-15"

const (
	minXPReward   = 100
	xpRewardRange = 401
)

type Definition struct {
	ID     string
	Action entity.ActionType
	Goal   int
	Text   string
}

var Definitions = []Definition{
	{ID: "save2", Action: entity.ActionSave, Goal: 2, Text: "Save 2 verses to your library"},
	{ID: "save3", Action: entity.ActionSave, Goal: 3, Text: "Save 3 verses to your library"},
	{ID: "like3", Action: entity.ActionLike, Goal: 3, Text: "Like 3 verses"},
	{ID: "like5", Action: entity.ActionLike, Goal: 5, Text: "Like 5 verses"},
	{ID: "comment1", Action: entity.ActionComment, Goal: 1, Text: "Post 1 comment"},
	{ID: "comment2", Action: entity.ActionComment, Goal: 2, Text: "Post 2 comments"},
}

// Challenge is the hourly challenge assigned to a user.
type Challenge struct {
	Definition
	Period    string
	ExpiresAt time.Time
	XPReward  int
}

// PeriodKey identifies the local hour containing t.
func PeriodKey(t time.Time) string {
	return t.Local().Format(periodLayout)
}

// Window returns the start and the end of the local hour containing t.
func Window(t time.Time) (time.Time, time.Time) {
	t = t.Local()
	start := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.Local)
	return start, start.Add(time.Hour)
}

// Select is a pure function of the user and the period, every caller gets
// the same challenge and reward during the hour.
func Select(userID int64, now time.Time) Challenge {
	period := PeriodKey(now)
	_, end := Window(now)
	value := seed(userID, period)

	return Challenge{
		Definition: Definitions[value%uint64(len(Definitions))],
		Period:     period,
		ExpiresAt:  end,
		XPReward:   minXPReward + int(value%xpRewardRange),
	}
}

func seed(userID int64, period string) uint64 {
	hashed := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", userID, period)))
	value, err := strconv.ParseUint(hex.EncodeToString(hashed[:])[:8], 16, 64)
	if err != nil {
		// Eight hex digits always fit.
		panic(err)
	}

	return value
}

type Tracker struct {
	dailyActionRepo repository.DailyActionRepository
}

func NewTracker(dailyActionRepo repository.DailyActionRepository) *Tracker {
	return &Tracker{dailyActionRepo: dailyActionRepo}
}

// Record stores the action in the current period. Failures never reach the
// caller.
func (t *Tracker) Record(ctx context.Context, userID int64, action entity.ActionType, verseID int64) {
	err := t.dailyActionRepo.Create(ctx, &entity.DailyAction{
		UserID:    userID,
		Action:    action,
		VerseID:   verseID,
		EventDate: PeriodKey(time.Now()),
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot record daily action %s of user %d: %v", action, userID, err)
	}
}

// Progress returns the challenge of the user for the current hour and how
// many actions count towards it, clamped to the goal.
func (t *Tracker) Progress(ctx context.Context, userID int64, now time.Time) (Challenge, int, error) {
	c := Select(userID, now)

	count, err := t.dailyActionRepo.Count(ctx, userID, c.Period, countedActions(c.Action)...)
	if err != nil {
		return c, 0, err
	}

	progress := int(count)
	if progress > c.Goal {
		progress = c.Goal
	}

	return c, progress, nil
}

// countedActions lists the actions progressing a challenge of the given type.
// Community messages count as comments.
func countedActions(action entity.ActionType) []entity.ActionType {
	if action == entity.ActionComment {
		return []entity.ActionType{entity.ActionComment, entity.ActionCommunity}
	}

	return []entity.ActionType{action}
}
