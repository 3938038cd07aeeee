package entity

import (
	"database/sql"
	"time"
)

type UserPresence struct {
	UserID    int64     `gorm:"primaryKey;autoIncrement:false"`
	LastSeen  time.Time `gorm:"not null;index"`
	LastPath  string    `gorm:"size:255"`
	UpdatedAt time.Time
}

func (UserPresence) TableName() string {
	return "user_presence"
}

type UserNotification struct {
	Base
	UserID    int64  `gorm:"not null;index"`
	Title     string `gorm:"size:255"`
	Message   string `gorm:"type:text"`
	NotifType string `gorm:"size:32"`
	Source    string `gorm:"size:32"`
	IsRead    bool
	SentAt    sql.NullTime
}
