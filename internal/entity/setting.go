package entity

import "time"

const (
	SettingVerseInterval   = "verse_interval"
	SettingMaintenanceMode = "maintenance_mode"
)

type SystemSetting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"size:255"`
	UpdatedAt time.Time
}

type Migration struct {
	Version   int `gorm:"primaryKey;autoIncrement:false"`
	AppliedAt time.Time
}
