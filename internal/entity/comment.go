package entity

import "github.com/versestream/backend/pkg/enum"

type ItemType string

var (
	ItemComment   = enum.New(ItemType("comment"))
	ItemCommunity = enum.New(ItemType("community"))
)

type ReactionType string

var (
	ReactionHeart = enum.New(ReactionType("heart"))
	ReactionPray  = enum.New(ReactionType("pray"))
	ReactionCross = enum.New(ReactionType("cross"))
)

var ReactionTypes = []ReactionType{ReactionHeart, ReactionPray, ReactionCross}

// Comment keeps the author name and picture known at post time, used for
// display when the author row lacks them.
type Comment struct {
	Base
	UserID        int64  `gorm:"not null;index"`
	VerseID       int64  `gorm:"not null;index"`
	Text          string `gorm:"type:text;not null"`
	GoogleName    string `gorm:"size:128"`
	GooglePicture string `gorm:"size:512"`
	IsDeleted     bool
}

type CommunityMessage struct {
	Base
	UserID        int64  `gorm:"not null;index"`
	Text          string `gorm:"type:text;not null"`
	GoogleName    string `gorm:"size:128"`
	GooglePicture string `gorm:"size:512"`
}

type Reply struct {
	Base
	ParentType    ItemType `gorm:"size:16;not null;index:idx_comment_replies_parent"`
	ParentID      int64    `gorm:"not null;index:idx_comment_replies_parent"`
	UserID        int64    `gorm:"not null"`
	Text          string   `gorm:"type:text;not null"`
	GoogleName    string   `gorm:"size:128"`
	GooglePicture string   `gorm:"size:512"`
	IsDeleted     bool
}

func (Reply) TableName() string {
	return "comment_replies"
}

type Reaction struct {
	Base
	ItemType ItemType     `gorm:"size:16;not null;uniqueIndex:idx_comment_reactions_unique"`
	ItemID   int64        `gorm:"not null;uniqueIndex:idx_comment_reactions_unique"`
	UserID   int64        `gorm:"not null;uniqueIndex:idx_comment_reactions_unique"`
	Reaction ReactionType `gorm:"size:16;not null;uniqueIndex:idx_comment_reactions_unique"`
}

func (Reaction) TableName() string {
	return "comment_reactions"
}
