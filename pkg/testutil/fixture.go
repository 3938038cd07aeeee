package testutil

import (
	"context"

	"github.com/versestream/backend/internal/entity"
	"github.com/versestream/backend/pkg/xcontext"
)

var (
	User1 = &entity.User{
		Base:     entity.Base{ID: 1},
		GoogleID: "google-user1",
		Email:    "user1@example.com",
		Name:     "User One",
		Picture:  "https://example.com/user1.png",
		Role:     entity.RoleUser,
	}

	User2 = &entity.User{
		Base:     entity.Base{ID: 2},
		GoogleID: "google-user2",
		Email:    "user2@example.com",
		Name:     "User Two",
		Role:     entity.RoleUser,
	}

	Admin = &entity.User{
		Base:     entity.Base{ID: 3},
		GoogleID: "google-admin",
		Email:    "admin@example.com",
		Name:     "Admin",
		Role:     entity.RoleOwner,
		IsAdmin:  true,
	}

	Users = []*entity.User{User1, User2, Admin}
)

var (
	VerseJohn = &entity.Verse{
		Base:        entity.Base{ID: 1},
		Reference:   "John 3:16",
		Text:        "For God so loved the world, that he gave his only begotten Son.",
		Translation: "KJV",
		Source:      "Fallback",
		Book:        "John",
	}

	VersePsalm = &entity.Verse{
		Base:        entity.Base{ID: 2},
		Reference:   "Psalm 23:1",
		Text:        "The LORD is my shepherd; I shall not want.",
		Translation: "KJV",
		Source:      "Fallback",
		Book:        "Psalm",
	}

	VerseRomans = &entity.Verse{
		Base:        entity.Base{ID: 3},
		Reference:   "Romans 8:28",
		Text:        "And we know that all things work together for good to them that love God.",
		Translation: "KJV",
		Source:      "Fallback",
		Book:        "Romans",
	}

	VersePhilippians = &entity.Verse{
		Base:        entity.Base{ID: 4},
		Reference:   "Philippians 4:13",
		Text:        "I can do all things through Christ which strengtheneth me.",
		Translation: "KJV",
		Source:      "Fallback",
		Book:        "Philippians",
	}

	Verses = []*entity.Verse{VerseJohn, VersePsalm, VerseRomans, VersePhilippians}
)

// CreateFixture inserts copies of the fixture users and verses so tests can
// mutate their rows freely.
func CreateFixture(ctx context.Context) {
	db := xcontext.DB(ctx)
	for _, u := range Users {
		user := *u
		if err := db.Create(&user).Error; err != nil {
			panic(err)
		}
	}

	for _, v := range Verses {
		verse := *v
		if err := db.Create(&verse).Error; err != nil {
			panic(err)
		}
	}
}
