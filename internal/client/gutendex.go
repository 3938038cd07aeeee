package client

import (
	"context"
	"errors"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/versestream/backend/pkg/api"
	"github.com/versestream/backend/pkg/xcontext"
)

var ErrNotFound = errors.New("not found")

var preferredTextFormats = []string{
	"text/plain; charset=utf-8",
	"text/plain; charset=us-ascii",
	"text/plain",
}

type GutendexAuthor struct {
	Name string `mapstructure:"name"`
}

type GutendexBook struct {
	ID            int64             `mapstructure:"id"`
	Title         string            `mapstructure:"title"`
	Authors       []GutendexAuthor  `mapstructure:"authors"`
	Subjects      []string          `mapstructure:"subjects"`
	Formats       map[string]string `mapstructure:"formats"`
	DownloadCount int64             `mapstructure:"download_count"`
}

// Author joins every named author, or returns "Unknown".
func (b GutendexBook) Author() string {
	names := []string{}
	for _, a := range b.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return "Unknown"
	}

	return strings.Join(names, ", ")
}

func (b GutendexBook) Cover() string {
	if cover := b.Formats["image/jpeg"]; cover != "" {
		return cover
	}

	return b.Formats["image/png"]
}

// TextURL returns the best plain text download, empty when the book has none.
func (b GutendexBook) TextURL() string {
	for _, format := range preferredTextFormats {
		if link := b.Formats[format]; strings.HasPrefix(link, "http") {
			return link
		}
	}

	for format, link := range b.Formats {
		if strings.HasPrefix(format, "text/plain") && strings.HasPrefix(link, "http") {
			return link
		}
	}

	return ""
}

type GutendexCaller interface {
	Search(ctx context.Context, search string, popular bool) ([]GutendexBook, error)
	GetBook(ctx context.Context, id int64) (*GutendexBook, error)
	GetText(ctx context.Context, textURL string) (string, error)
}

type gutendexCaller struct {
	apiGenerator  api.Generator
	textGenerator api.Generator
}

// NewGutendexCaller calls the catalog through apiGenerator. Book texts are
// downloaded from absolute URLs through textGenerator.
func NewGutendexCaller(apiGenerator, textGenerator api.Generator) *gutendexCaller {
	return &gutendexCaller{apiGenerator: apiGenerator, textGenerator: textGenerator}
}

func (c *gutendexCaller) Search(ctx context.Context, search string, popular bool) ([]GutendexBook, error) {
	params := api.Parameter{}
	if search != "" {
		params["search"] = search
	}

	if popular {
		params["sort"] = "popular"
	}

	resp, err := c.apiGenerator.New("/books").
		Query(params).
		Timeout(xcontext.Configs(ctx).Book.SearchTimeout).
		GET(ctx)
	if err != nil {
		return nil, err
	}

	body, ok := resp.JSON()
	if !resp.OK() || !ok {
		return nil, errors.New("book search failed")
	}

	results, err := body.GetArray("results")
	if err != nil {
		return nil, err
	}

	var books []GutendexBook
	if err := mapstructure.WeakDecode([]any(results), &books); err != nil {
		return nil, err
	}

	return books, nil
}

func (c *gutendexCaller) GetBook(ctx context.Context, id int64) (*GutendexBook, error) {
	resp, err := c.apiGenerator.New("/books/%d", id).
		Timeout(xcontext.Configs(ctx).Book.SearchTimeout).
		GET(ctx)
	if err != nil {
		return nil, err
	}

	body, ok := resp.JSON()
	if !resp.OK() || !ok {
		return nil, ErrNotFound
	}

	var book GutendexBook
	if err := mapstructure.WeakDecode(map[string]any(body), &book); err != nil {
		return nil, err
	}

	if book.ID == 0 {
		book.ID = id
	}

	return &book, nil
}

func (c *gutendexCaller) GetText(ctx context.Context, textURL string) (string, error) {
	resp, err := c.textGenerator.New("%s", textURL).
		Timeout(xcontext.Configs(ctx).Book.ContentTimeout).
		GET(ctx)
	if err != nil {
		return "", err
	}

	if !resp.OK() {
		return "", ErrNotFound
	}

	return string(resp.RawBody), nil
}
