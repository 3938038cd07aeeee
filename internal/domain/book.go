package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/puzpuzpuz/xsync"
	"github.com/versestream/backend/internal/client"
	"github.com/versestream/backend/internal/common"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/xcontext"
)

const (
	defaultBookQuery      = "faith"
	defaultPopularQuery   = "popular"
	maxBookCandidates     = 20
	maxBookResults        = 12
	minBookTextLength     = 200
	defaultMaxTextLength  = 800000
	popularDownloadWeight = 250
	searchDownloadWeight  = 1000
)

var (
	gutenbergStartMarkers = []string{
		"*** START OF THE PROJECT GUTENBERG EBOOK",
		"*** START OF THIS PROJECT GUTENBERG EBOOK",
	}

	gutenbergEndMarkers = []string{
		"*** END OF THE PROJECT GUTENBERG EBOOK",
		"*** END OF THIS PROJECT GUTENBERG EBOOK",
	}

	carriageReturnPattern = regexp.MustCompile(`\r\n?`)
	blankLinesPattern     = regexp.MustCompile(`\n{3,}`)
	nonWordPattern        = regexp.MustCompile(`\W+`)
)

type BookDomain interface {
	Search(context.Context, *model.SearchBooksRequest) (*model.SearchBooksResponse, error)
	GetContent(context.Context, *model.GetBookContentRequest) (*model.GetBookContentResponse, error)
}

type bookDomain struct {
	gutendexCaller client.GutendexCaller
	llmCaller      client.LLMCaller

	metaCache *xsync.MapOf[string, model.Book]
	textCache *xsync.MapOf[string, model.GetBookContentResponse]
}

func NewBookDomain(gutendexCaller client.GutendexCaller, llmCaller client.LLMCaller) *bookDomain {
	return &bookDomain{
		gutendexCaller: gutendexCaller,
		llmCaller:      llmCaller,
		metaCache:      xsync.NewMapOf[model.Book](),
		textCache:      xsync.NewMapOf[model.GetBookContentResponse](),
	}
}

func bookKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func searchTerms(q string) []string {
	terms := []string{}
	for _, term := range nonWordPattern.Split(strings.ToLower(q), -1) {
		if term != "" {
			terms = append(terms, term)
		}
	}

	return terms
}

// scoreBook rewards every query term found in the title, the subjects or the
// authors, plus the popularity of the book.
func scoreBook(b client.GutendexBook, terms []string, downloadWeight int64) int64 {
	haystack := strings.ToLower(fmt.Sprintf("%s %s %s", b.Title, strings.Join(b.Subjects, " "), b.Author()))

	var score int64
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			score += 2
		}
	}

	return score + b.DownloadCount/downloadWeight
}

func (d *bookDomain) Search(ctx context.Context, req *model.SearchBooksRequest) (*model.SearchBooksResponse, error) {
	rawQuery := strings.TrimSpace(req.Q)
	popular := common.IsTruthy(req.Popular)
	browsing := popular && rawQuery == ""

	query := rawQuery
	switch {
	case browsing:
		query = defaultPopularQuery
	case !popular && len([]rune(query)) < 2:
		query = defaultBookQuery
	}

	search := query
	if browsing {
		search = ""
	}

	results, err := d.gutendexCaller.Search(ctx, search, popular)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot search books: %v", err)
		return nil, errorx.New(errorx.BadGateway, "book_search_failed")
	}

	if len(results) > maxBookCandidates {
		results = results[:maxBookCandidates]
	}

	terms := searchTerms(query)
	downloadWeight := int64(searchDownloadWeight)
	if browsing {
		terms = nil
		downloadWeight = popularDownloadWeight
	}

	books := []model.Book{}
	for _, b := range results {
		textURL := b.TextURL()
		if textURL == "" {
			continue
		}

		book := model.Book{
			ID:        b.ID,
			Title:     strings.TrimSpace(b.Title),
			Author:    b.Author(),
			Downloads: b.DownloadCount,
			Cover:     b.Cover(),
			TextURL:   textURL,
			AIScore:   scoreBook(b, terms, downloadWeight),
			Subjects:  b.Subjects,
		}
		if book.Subjects == nil {
			book.Subjects = []string{}
		}

		d.metaCache.Store(bookKey(book.ID), book)
		books = append(books, book)
	}

	ranked, err := d.llmCaller.RankBooks(ctx, query, books)
	if err != nil || len(ranked) == 0 {
		if err != nil && !errors.Is(err, client.ErrLLMDisabled) {
			xcontext.Logger(ctx).Warnf("Cannot rank books with llm: %v", err)
		}

		ranked = books
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].AIScore != ranked[j].AIScore {
				return ranked[i].AIScore > ranked[j].AIScore
			}

			return ranked[i].Downloads > ranked[j].Downloads
		})
	}

	if len(ranked) > maxBookResults {
		ranked = ranked[:maxBookResults]
	}

	return &model.SearchBooksResponse{Query: query, Books: ranked}, nil
}

func (d *bookDomain) metadata(ctx context.Context, id int64) (model.Book, error) {
	if book, ok := d.metaCache.Load(bookKey(id)); ok {
		return book, nil
	}

	b, err := d.gutendexCaller.GetBook(ctx, id)
	if err != nil {
		if !errors.Is(err, client.ErrNotFound) {
			xcontext.Logger(ctx).Warnf("Cannot get metadata of book %d: %v", id, err)
		}

		return model.Book{}, errorx.New(errorx.NotFound, "book_not_found")
	}

	book := model.Book{
		ID:        id,
		Title:     strings.TrimSpace(b.Title),
		Author:    b.Author(),
		Downloads: b.DownloadCount,
		Cover:     b.Cover(),
		TextURL:   b.TextURL(),
		Subjects:  b.Subjects,
	}
	d.metaCache.Store(bookKey(id), book)

	return book, nil
}

func (d *bookDomain) GetContent(
	ctx context.Context, req *model.GetBookContentRequest,
) (*model.GetBookContentResponse, error) {
	if cached, ok := d.textCache.Load(bookKey(req.ID)); ok {
		return &cached, nil
	}

	book, err := d.metadata(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if book.TextURL == "" {
		return nil, errorx.New(errorx.NotFound, "book_text_unavailable")
	}

	raw, err := d.gutendexCaller.GetText(ctx, book.TextURL)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot download text of book %d: %v", req.ID, err)
		return nil, errorx.New(errorx.BadGateway, "book_text_fetch_failed")
	}

	text := []rune(stripGutenbergBoilerplate(raw))
	if len(text) < minBookTextLength {
		return nil, errorx.New(errorx.Unprocessable, "book_text_too_short")
	}

	maxLength := xcontext.Configs(ctx).Book.MaxTextLength
	if maxLength <= 0 {
		maxLength = defaultMaxTextLength
	}

	if len(text) > maxLength {
		text = text[:maxLength]
	}

	resp := model.GetBookContentResponse{
		ID:     req.ID,
		Title:  orDefault(book.Title, fmt.Sprintf("Book %d", req.ID)),
		Author: orDefault(book.Author, "Unknown"),
		Cover:  book.Cover,
		Text:   string(text),
	}
	d.textCache.Store(bookKey(req.ID), resp)

	return &resp, nil
}

// stripGutenbergBoilerplate keeps the text between the start and end markers
// of a Project Gutenberg file and collapses runs of blank lines.
func stripGutenbergBoilerplate(text string) string {
	for _, marker := range gutenbergStartMarkers {
		idx := strings.Index(text, marker)
		if idx == -1 {
			continue
		}

		if nl := strings.Index(text[idx:], "\n"); nl != -1 {
			text = text[idx+nl+1:]
		}
		break
	}

	for _, marker := range gutenbergEndMarkers {
		if idx := strings.Index(text, marker); idx != -1 {
			text = text[:idx]
			break
		}
	}

	text = carriageReturnPattern.ReplaceAllString(text, "\n")
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
