package entity

import (
	"crypto/sha256"
	"encoding/hex"

	"gorm.io/gorm"
)

// Verse rows are append-only. Two verses with the same reference and text
// share a fingerprint and are stored once.
type Verse struct {
	Base
	Reference   string `gorm:"size:128;not null"`
	Text        string `gorm:"type:text;not null"`
	Translation string `gorm:"size:64"`
	Source      string `gorm:"size:64"`
	Book        string `gorm:"size:64;index"`
	Fingerprint string `gorm:"size:64;not null;uniqueIndex"`
}

func VerseFingerprint(reference, text string) string {
	hashed := sha256.Sum256([]byte(reference + "\n" + text))
	return hex.EncodeToString(hashed[:])
}

func (v *Verse) BeforeCreate(tx *gorm.DB) error {
	v.Fingerprint = VerseFingerprint(v.Reference, v.Text)
	return nil
}
