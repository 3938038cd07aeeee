package entity

import (
	"database/sql"
	"time"
)

type AuditLog struct {
	Base
	AdminID      int64  `gorm:"not null;index"`
	Action       string `gorm:"size:64;not null"`
	TargetUserID sql.NullInt64
	Details      Map    `gorm:"type:text"`
	IPAddress    string `gorm:"size:64"`
}

type Ban struct {
	Base
	UserID    int64  `gorm:"not null;uniqueIndex"`
	Reason    string `gorm:"size:255"`
	BannedBy  int64
	ExpiresAt sql.NullTime
}

type CommentRestriction struct {
	Base
	UserID       int64  `gorm:"not null;uniqueIndex"`
	Reason       string `gorm:"size:255"`
	RestrictedBy int64
	ExpiresAt    time.Time `gorm:"not null"`
}
