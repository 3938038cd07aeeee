package entity

type Like struct {
	Base
	UserID  int64 `gorm:"not null;uniqueIndex:idx_likes_user_verse"`
	VerseID int64 `gorm:"not null;uniqueIndex:idx_likes_user_verse"`
}

type Save struct {
	Base
	UserID  int64 `gorm:"not null;uniqueIndex:idx_saves_user_verse"`
	VerseID int64 `gorm:"not null;uniqueIndex:idx_saves_user_verse"`
}

type Collection struct {
	Base
	UserID int64  `gorm:"not null;index"`
	Name   string `gorm:"size:128;not null"`
	Color  string `gorm:"size:16"`
}

type VerseCollection struct {
	Base
	CollectionID int64 `gorm:"not null;uniqueIndex:idx_verse_collections_pair"`
	VerseID      int64 `gorm:"not null;uniqueIndex:idx_verse_collections_pair"`
}
