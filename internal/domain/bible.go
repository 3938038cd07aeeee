package domain

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/versestream/backend/internal/client"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
)

const (
	fallbackTranslation = "Fallback"
	defaultBibleBook    = "John"
	defaultBibleChapter = "1"
)

// canonicalBooks is served when the bible api cannot list the books of a
// translation.
var canonicalBooks = []model.BibleBook{
	{ID: "GEN", Name: "Genesis"},
	{ID: "EXO", Name: "Exodus"},
	{ID: "LEV", Name: "Leviticus"},
	{ID: "NUM", Name: "Numbers"},
	{ID: "DEU", Name: "Deuteronomy"},
	{ID: "JOS", Name: "Joshua"},
	{ID: "JDG", Name: "Judges"},
	{ID: "RUT", Name: "Ruth"},
	{ID: "1SA", Name: "1 Samuel"},
	{ID: "2SA", Name: "2 Samuel"},
	{ID: "1KI", Name: "1 Kings"},
	{ID: "2KI", Name: "2 Kings"},
	{ID: "1CH", Name: "1 Chronicles"},
	{ID: "2CH", Name: "2 Chronicles"},
	{ID: "EZR", Name: "Ezra"},
	{ID: "NEH", Name: "Nehemiah"},
	{ID: "EST", Name: "Esther"},
	{ID: "JOB", Name: "Job"},
	{ID: "PSA", Name: "Psalms"},
	{ID: "PRO", Name: "Proverbs"},
	{ID: "ECC", Name: "Ecclesiastes"},
	{ID: "SNG", Name: "Song of Solomon"},
	{ID: "ISA", Name: "Isaiah"},
	{ID: "JER", Name: "Jeremiah"},
	{ID: "LAM", Name: "Lamentations"},
	{ID: "EZK", Name: "Ezekiel"},
	{ID: "DAN", Name: "Daniel"},
	{ID: "HOS", Name: "Hosea"},
	{ID: "JOL", Name: "Joel"},
	{ID: "AMO", Name: "Amos"},
	{ID: "OBA", Name: "Obadiah"},
	{ID: "JON", Name: "Jonah"},
	{ID: "MIC", Name: "Micah"},
	{ID: "NAM", Name: "Nahum"},
	{ID: "HAB", Name: "Habakkuk"},
	{ID: "ZEP", Name: "Zephaniah"},
	{ID: "HAG", Name: "Haggai"},
	{ID: "ZEC", Name: "Zechariah"},
	{ID: "MAL", Name: "Malachi"},
	{ID: "MAT", Name: "Matthew"},
	{ID: "MRK", Name: "Mark"},
	{ID: "LUK", Name: "Luke"},
	{ID: "JHN", Name: "John"},
	{ID: "ACT", Name: "Acts"},
	{ID: "ROM", Name: "Romans"},
	{ID: "1CO", Name: "1 Corinthians"},
	{ID: "2CO", Name: "2 Corinthians"},
	{ID: "GAL", Name: "Galatians"},
	{ID: "EPH", Name: "Ephesians"},
	{ID: "PHP", Name: "Philippians"},
	{ID: "COL", Name: "Colossians"},
	{ID: "1TH", Name: "1 Thessalonians"},
	{ID: "2TH", Name: "2 Thessalonians"},
	{ID: "1TI", Name: "1 Timothy"},
	{ID: "2TI", Name: "2 Timothy"},
	{ID: "TIT", Name: "Titus"},
	{ID: "PHM", Name: "Philemon"},
	{ID: "HEB", Name: "Hebrews"},
	{ID: "JAS", Name: "James"},
	{ID: "1PE", Name: "1 Peter"},
	{ID: "2PE", Name: "2 Peter"},
	{ID: "1JN", Name: "1 John"},
	{ID: "2JN", Name: "2 John"},
	{ID: "3JN", Name: "3 John"},
	{ID: "JUD", Name: "Jude"},
	{ID: "REV", Name: "Revelation"},
}

var fallbackBiblePicks = []model.BiblePick{
	{Reference: "John 1-3", Title: "The Prologue and New Birth", Reason: "Iconic opening on Jesus and salvation."},
	{Reference: "Psalm 23", Title: "The Shepherd Psalm", Reason: "Comforting, widely loved passage."},
	{Reference: "Romans 8", Title: "Life in the Spirit", Reason: "Hope, assurance, and victory."},
	{Reference: "Matthew 5-7", Title: "Sermon on the Mount", Reason: "Core teachings of Jesus."},
	{Reference: "Genesis 1-3", Title: "Creation and the Fall", Reason: "Foundational story of origins."},
	{Reference: "Philippians 4", Title: "Peace and Joy", Reason: "Encouragement and practical faith."},
	{Reference: "Isaiah 53", Title: "Suffering Servant", Reason: "Key prophecy about redemption."},
	{Reference: "Luke 15", Title: "Lost and Found", Reason: "Parables of grace and mercy."},
	{Reference: "Proverbs 3", Title: "Wisdom and Trust", Reason: "Guidance for daily life."},
	{Reference: "Ephesians 2", Title: "Grace and New Life", Reason: "Salvation by grace."},
}

type BibleDomain interface {
	GetBooks(context.Context, *model.GetBibleBooksRequest) (*model.GetBibleBooksResponse, error)
	GetChapter(context.Context, *model.GetBibleChapterRequest) (*model.GetBibleChapterResponse, error)
	GetPicks(context.Context, *model.GetBiblePicksRequest) (*model.GetBiblePicksResponse, error)
}

type bibleDomain struct {
	bibleCaller client.BibleCaller
	llmCaller   client.LLMCaller
}

func NewBibleDomain(bibleCaller client.BibleCaller, llmCaller client.LLMCaller) *bibleDomain {
	return &bibleDomain{bibleCaller: bibleCaller, llmCaller: llmCaller}
}

func (d *bibleDomain) translation(ctx context.Context, requested string) string {
	translation := strings.ToLower(strings.TrimSpace(requested))
	if translation == "" {
		translation = strings.ToLower(xcontext.Configs(ctx).Bible.DefaultTranslation)
	}

	return translation
}

func (d *bibleDomain) GetBooks(
	ctx context.Context, req *model.GetBibleBooksRequest,
) (*model.GetBibleBooksResponse, error) {
	translation := d.translation(ctx, req.Translation)

	resp, err := d.bibleCaller.GetBooks(ctx, translation)
	if err == nil && len(resp.Books) > 0 {
		return resp, nil
	}

	xcontext.Logger(ctx).Warnf("Cannot load books of translation %s, use canonical books: %v", translation, err)
	return &model.GetBibleBooksResponse{
		Translation:   fallbackTranslation,
		TranslationID: translation,
		Books:         canonicalBooks,
	}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}

func (d *bibleDomain) GetChapter(
	ctx context.Context, req *model.GetBibleChapterRequest,
) (*model.GetBibleChapterResponse, error) {
	translation := d.translation(ctx, req.Translation)

	book := strings.TrimSpace(req.Book)
	if book == "" {
		book = defaultBibleBook
	}

	chapter := strings.TrimSpace(req.Chapter)
	if chapter == "" {
		chapter = defaultBibleChapter
	}

	if !isDigits(chapter) {
		return nil, errorx.New(errorx.BadRequest, "chapter must be a number")
	}

	resp, err := d.bibleCaller.GetChapter(ctx, translation, book, chapter)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot load passage %s %s: %v", book, chapter, err)
		return nil, errorx.New(errorx.BadGateway, "Unable to load passage")
	}

	return resp, nil
}

func (d *bibleDomain) GetPicks(
	ctx context.Context, req *model.GetBiblePicksRequest,
) (*model.GetBiblePicksResponse, error) {
	topic := strings.TrimSpace(req.Topic)

	picks, err := d.llmCaller.BiblePicks(ctx, topic)
	if err != nil && !errors.Is(err, client.ErrLLMDisabled) {
		xcontext.Logger(ctx).Warnf("Cannot get bible picks from llm: %v", err)
	}

	if len(picks) == 0 {
		picks = fallbackBiblePicks
	}

	return &model.GetBiblePicksResponse{Topic: topic, Picks: picks}, nil
}
