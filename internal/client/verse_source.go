package client

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/versestream/backend/pkg/api"
	"github.com/versestream/backend/pkg/xcontext"
)

var bookPattern = regexp.MustCompile(`^([0-9]?\s?[A-Za-z]+)`)

// ExtractBook returns the book name at the start of a reference, such as
// "1 John" in "1 John 4:8".
func ExtractBook(reference string) string {
	if match := bookPattern.FindStringSubmatch(reference); match != nil {
		return match[1]
	}

	return "Unknown"
}

type VerseSource struct {
	Name  string
	URL   string
	Query api.Parameter
}

var DefaultVerseSources = []VerseSource{
	{
		Name:  "Bible-API.com",
		URL:   "https://bible-api.com/",
		Query: api.Parameter{"random": "verse"},
	},
	{
		Name:  "labs.bible.org",
		URL:   "https://labs.bible.org/api/",
		Query: api.Parameter{"passage": "random", "type": "json"},
	},
	{
		Name:  "KJV Random",
		URL:   "https://bible-api.com/",
		Query: api.Parameter{"random": "verse", "translation": "kjv"},
	},
}

type FetchedVerse struct {
	Reference   string
	Text        string
	Translation string
	Source      string
	Book        string
}

type VerseSourceCaller interface {
	// Fetch asks the next source in round-robin order for a random verse.
	Fetch(ctx context.Context) (*FetchedVerse, error)
}

type verseSourceCaller struct {
	apiGenerator api.Generator
	sources      []VerseSource
	next         atomic.Uint64
}

// NewVerseSourceCaller expects a generator without domain, source URLs are
// absolute.
func NewVerseSourceCaller(apiGenerator api.Generator, sources ...VerseSource) *verseSourceCaller {
	if len(sources) == 0 {
		sources = DefaultVerseSources
	}

	return &verseSourceCaller{apiGenerator: apiGenerator, sources: sources}
}

func (c *verseSourceCaller) Fetch(ctx context.Context) (*FetchedVerse, error) {
	index := (c.next.Add(1) - 1) % uint64(len(c.sources))
	source := c.sources[index]
	cfg := xcontext.Configs(ctx).Rotation

	resp, err := c.apiGenerator.New(source.URL).
		Query(source.Query).
		Timeout(cfg.FetchTimeout).
		GET(ctx, api.UserAgent(cfg.UserAgent))
	if err != nil {
		return nil, err
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%s answered status %d", source.Name, resp.Code)
	}

	var verse *FetchedVerse
	if body, ok := resp.JSON(); ok {
		verse = parseVerseObject(body)
	} else if array, ok := resp.Array(); ok {
		verse = parseVerseArray(array)
	}

	if verse == nil {
		return nil, fmt.Errorf("unknown response shape from %s", source.Name)
	}

	if verse.Text == "" {
		return nil, errors.New("empty verse text")
	}

	verse.Source = source.Name
	verse.Book = ExtractBook(verse.Reference)
	return verse, nil
}

func parseVerseObject(body api.JSON) *FetchedVerse {
	verse := &FetchedVerse{
		Reference:   body.Text("reference"),
		Text:        strings.TrimSpace(body.Text("text")),
		Translation: body.Text("translation_name"),
	}

	if verse.Reference == "" {
		verse.Reference = "Unknown"
	}

	if verse.Translation == "" {
		verse.Translation = "KJV"
	}

	return verse
}

func parseVerseArray(array api.Array) *FetchedVerse {
	first, ok := array.JSONAt(0)
	if !ok {
		return nil
	}

	return &FetchedVerse{
		Reference: fmt.Sprintf("%s %s:%s",
			first.Text("bookname"), first.Text("chapter"), first.Text("verse")),
		Text:        strings.TrimSpace(first.Text("text")),
		Translation: "WEB",
	}
}
