package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/versestream/backend/internal/client"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/mocks"
	"github.com/versestream/backend/pkg/errorx"
	"github.com/versestream/backend/pkg/testutil"
)

var (
	bookFaith = client.GutendexBook{
		ID:            10,
		Title:         " Faith and Works ",
		Authors:       []client.GutendexAuthor{{Name: "Smith, John"}},
		Subjects:      []string{"Christian life"},
		Formats:       map[string]string{"text/plain; charset=utf-8": "https://example.com/10.txt"},
		DownloadCount: 500,
	}

	bookPopular = client.GutendexBook{
		ID:    20,
		Title: "Pilgrim's Progress",
		Formats: map[string]string{
			"text/plain":  "https://example.com/20.txt",
			"image/jpeg":  "https://example.com/20.jpg",
			"application": "https://example.com/20.epub",
		},
		DownloadCount: 5000,
	}

	bookWithoutText = client.GutendexBook{
		ID:            30,
		Title:         "Faith in pictures",
		Formats:       map[string]string{"image/png": "https://example.com/30.png"},
		DownloadCount: 9000,
	}
)

func Test_bookDomain_Search(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)

	results := []client.GutendexBook{bookFaith, bookPopular, bookWithoutText}

	t.Run("default query", func(t *testing.T) {
		gutendexCaller := &mocks.GutendexCaller{}
		gutendexCaller.On("Search", mock.Anything, "faith", false).Return(results, nil)

		llmCaller := &mocks.LLMCaller{}
		llmCaller.On("RankBooks", mock.Anything, "faith", mock.Anything).Return(nil, client.ErrLLMDisabled)

		resp, err := NewBookDomain(gutendexCaller, llmCaller).Search(ctx, &model.SearchBooksRequest{Q: "a"})
		require.NoError(t, err)
		require.Equal(t, "faith", resp.Query)
		require.Len(t, resp.Books, 2)

		// 0 + 5000/1000 beats 2 + 500/1000.
		require.Equal(t, int64(20), resp.Books[0].ID)
		require.Equal(t, int64(5), resp.Books[0].AIScore)
		require.Equal(t, "https://example.com/20.jpg", resp.Books[0].Cover)
		require.Equal(t, "Unknown", resp.Books[0].Author)
		require.NotNil(t, resp.Books[0].Subjects)

		require.Equal(t, int64(10), resp.Books[1].ID)
		require.Equal(t, int64(2), resp.Books[1].AIScore)
		require.Equal(t, "Faith and Works", resp.Books[1].Title)
		require.Equal(t, "https://example.com/10.txt", resp.Books[1].TextURL)
	})

	t.Run("popular without query", func(t *testing.T) {
		gutendexCaller := &mocks.GutendexCaller{}
		gutendexCaller.On("Search", mock.Anything, "", true).Return(results, nil)

		llmCaller := &mocks.LLMCaller{}
		llmCaller.On("RankBooks", mock.Anything, "popular", mock.Anything).Return(nil, errors.New("bad reply"))

		resp, err := NewBookDomain(gutendexCaller, llmCaller).Search(ctx, &model.SearchBooksRequest{Popular: "yes"})
		require.NoError(t, err)
		require.Equal(t, "popular", resp.Query)
		require.Equal(t, int64(20), resp.Books[0].AIScore)
		require.Equal(t, int64(2), resp.Books[1].AIScore)
	})

	t.Run("ranked by llm", func(t *testing.T) {
		gutendexCaller := &mocks.GutendexCaller{}
		gutendexCaller.On("Search", mock.Anything, "grace", false).Return(results, nil)

		llmCaller := &mocks.LLMCaller{}
		llmCaller.On("RankBooks", mock.Anything, "grace", mock.Anything).
			Return([]model.Book{{ID: 10}, {ID: 20}}, nil)

		resp, err := NewBookDomain(gutendexCaller, llmCaller).Search(ctx, &model.SearchBooksRequest{Q: " grace "})
		require.NoError(t, err)
		require.Equal(t, int64(10), resp.Books[0].ID)
		require.Equal(t, int64(20), resp.Books[1].ID)
	})

	t.Run("upstream failure", func(t *testing.T) {
		gutendexCaller := &mocks.GutendexCaller{}
		gutendexCaller.On("Search", mock.Anything, "faith", false).Return(nil, errors.New("timeout"))

		_, err := NewBookDomain(gutendexCaller, &mocks.LLMCaller{}).Search(ctx, &model.SearchBooksRequest{})
		require.Equal(t, errorx.New(errorx.BadGateway, "book_search_failed"), err)
	})
}

func Test_bookDomain_GetContent(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)

	body := strings.Repeat("And the word was with God. ", 20)
	raw := "Header line\r\n*** START OF THE PROJECT GUTENBERG EBOOK FAITH ***\r\n\r\n\r\n\r\n" +
		body + "\r\n*** END OF THE PROJECT GUTENBERG EBOOK FAITH ***\r\nLicense"

	gutendexCaller := &mocks.GutendexCaller{}
	gutendexCaller.On("GetBook", mock.Anything, int64(10)).Return(&bookFaith, nil).Once()
	gutendexCaller.On("GetText", mock.Anything, "https://example.com/10.txt").Return(raw, nil).Once()

	domain := NewBookDomain(gutendexCaller, &mocks.LLMCaller{})

	resp, err := domain.GetContent(ctx, &model.GetBookContentRequest{ID: 10})
	require.NoError(t, err)
	require.Equal(t, "Faith and Works", resp.Title)
	require.Equal(t, "Smith, John", resp.Author)
	require.Equal(t, strings.TrimSpace(body), resp.Text)

	// Served from the cache, the mocks expect a single call.
	resp, err = domain.GetContent(ctx, &model.GetBookContentRequest{ID: 10})
	require.NoError(t, err)
	require.Equal(t, strings.TrimSpace(body), resp.Text)
	gutendexCaller.AssertExpectations(t)
}

func Test_bookDomain_GetContent_Errors(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)

	gutendexCaller := &mocks.GutendexCaller{}
	gutendexCaller.On("GetBook", mock.Anything, int64(1)).Return(nil, client.ErrNotFound)
	gutendexCaller.On("GetBook", mock.Anything, int64(30)).Return(&bookWithoutText, nil)
	gutendexCaller.On("GetBook", mock.Anything, int64(10)).Return(&bookFaith, nil)
	gutendexCaller.On("GetBook", mock.Anything, int64(20)).Return(&bookPopular, nil)
	gutendexCaller.On("GetText", mock.Anything, "https://example.com/10.txt").Return("", errors.New("reset"))
	gutendexCaller.On("GetText", mock.Anything, "https://example.com/20.txt").Return("too short", nil)

	domain := NewBookDomain(gutendexCaller, &mocks.LLMCaller{})

	tests := []struct {
		id      int64
		wantErr error
	}{
		{id: 1, wantErr: errorx.New(errorx.NotFound, "book_not_found")},
		{id: 30, wantErr: errorx.New(errorx.NotFound, "book_text_unavailable")},
		{id: 10, wantErr: errorx.New(errorx.BadGateway, "book_text_fetch_failed")},
		{id: 20, wantErr: errorx.New(errorx.Unprocessable, "book_text_too_short")},
	}

	for _, tt := range tests {
		_, err := domain.GetContent(ctx, &model.GetBookContentRequest{ID: tt.id})
		require.Equal(t, tt.wantErr, err, "book %d", tt.id)
	}
}

func Test_bookDomain_GetContent_Truncate(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)

	gutendexCaller := &mocks.GutendexCaller{}
	gutendexCaller.On("GetBook", mock.Anything, int64(20)).Return(&bookPopular, nil)
	gutendexCaller.On("GetText", mock.Anything, "https://example.com/20.txt").
		Return(strings.Repeat("a", 900000), nil)

	resp, err := NewBookDomain(gutendexCaller, &mocks.LLMCaller{}).GetContent(ctx, &model.GetBookContentRequest{ID: 20})
	require.NoError(t, err)
	require.Len(t, resp.Text, 800000)
}

func Test_stripGutenbergBoilerplate(t *testing.T) {
	require.Equal(t, "a\n\nb", stripGutenbergBoilerplate("  a\r\n\r\n\r\n\r\nb  "))
	require.Equal(t, "body", stripGutenbergBoilerplate(
		"x\n*** START OF THIS PROJECT GUTENBERG EBOOK X ***\nbody\n*** END OF THIS PROJECT GUTENBERG EBOOK X ***"))
}
