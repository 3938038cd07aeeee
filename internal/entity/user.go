package entity

import (
	"database/sql"

	"github.com/versestream/backend/pkg/enum"
)

type Role string

var (
	RoleUser    = enum.New(Role("user"))
	RoleHost    = enum.New(Role("host"))
	RoleMod     = enum.New(Role("mod"))
	RoleCoOwner = enum.New(Role("co_owner"))
	RoleOwner   = enum.New(Role("owner"))
)

// RedeemableRoles can be obtained with a role code. All of them grant the
// admin flag.
var RedeemableRoles = []Role{RoleHost, RoleMod, RoleCoOwner, RoleOwner}

type User struct {
	Base
	GoogleID     string `gorm:"size:128;not null;uniqueIndex"`
	Email        string `gorm:"size:255"`
	Name         string `gorm:"size:128"`
	Picture      string `gorm:"size:512"`
	Role         Role   `gorm:"size:16;not null"`
	IsAdmin      bool
	IsBanned     bool
	BanReason    sql.NullString `gorm:"size:255"`
	BanExpiresAt sql.NullTime
}
