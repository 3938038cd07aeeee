package rotation

import (
	"math/rand/v2"

	"github.com/versestream/backend/internal/client"
)

const fallbackSource = "Fallback"

var fallbackVerses = []client.FetchedVerse{
	{
		Reference:   "John 3:16",
		Text:        "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life.",
		Translation: "KJV",
		Source:      fallbackSource,
		Book:        "John",
	},
	{
		Reference:   "Philippians 4:13",
		Text:        "I can do all things through Christ which strengtheneth me.",
		Translation: "KJV",
		Source:      fallbackSource,
		Book:        "Philippians",
	},
	{
		Reference:   "Psalm 23:1",
		Text:        "The LORD is my shepherd; I shall not want.",
		Translation: "KJV",
		Source:      fallbackSource,
		Book:        "Psalm",
	},
	{
		Reference:   "Romans 8:28",
		Text:        "And we know that all things work together for good to them that love God, to them who are the called according to his purpose.",
		Translation: "KJV",
		Source:      fallbackSource,
		Book:        "Romans",
	},
	{
		Reference:   "Jeremiah 29:11",
		Text:        "For I know the thoughts that I think toward you, saith the LORD, thoughts of peace, and not of evil, to give you an expected end.",
		Translation: "KJV",
		Source:      fallbackSource,
		Book:        "Jeremiah",
	},
}

func randomFallback() client.FetchedVerse {
	return fallbackVerses[rand.IntN(len(fallbackVerses))]
}
