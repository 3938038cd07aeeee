package entity

import "github.com/versestream/backend/pkg/enum"

type ActionType string

var (
	ActionLike    = enum.New(ActionType("like"))
	ActionSave    = enum.New(ActionType("save"))
	ActionComment = enum.New(ActionType("comment"))

	// ActionCommunity keeps community messages apart from verse comments,
	// their ids come from different tables.
	ActionCommunity = enum.New(ActionType("community"))
)

// DailyAction is one challenge event. VerseID is 0 for actions without a
// verse so the unique tuple never holds NULL.
type DailyAction struct {
	Base
	UserID    int64      `gorm:"not null;uniqueIndex:idx_daily_actions_unique"`
	Action    ActionType `gorm:"size:16;not null;uniqueIndex:idx_daily_actions_unique"`
	VerseID   int64      `gorm:"not null;uniqueIndex:idx_daily_actions_unique"`
	EventDate string     `gorm:"size:16;not null;uniqueIndex:idx_daily_actions_unique"`
}
