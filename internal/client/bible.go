package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/pkg/api"
	"github.com/versestream/backend/pkg/xcontext"
)

type BibleCaller interface {
	GetBooks(ctx context.Context, translation string) (*model.GetBibleBooksResponse, error)
	GetChapter(ctx context.Context, translation, book, chapter string) (*model.GetBibleChapterResponse, error)
}

type bibleCaller struct {
	apiGenerator api.Generator
}

func NewBibleCaller(apiGenerator api.Generator) *bibleCaller {
	return &bibleCaller{apiGenerator: apiGenerator}
}

func (c *bibleCaller) GetBooks(ctx context.Context, translation string) (*model.GetBibleBooksResponse, error) {
	resp, err := c.apiGenerator.New("/data/%s", url.PathEscape(translation)).
		Timeout(xcontext.Configs(ctx).Bible.Timeout).
		GET(ctx)
	if err != nil {
		return nil, err
	}

	body, ok := resp.JSON()
	if !resp.OK() || !ok {
		return nil, fmt.Errorf("cannot load books of %s (status %d)", translation, resp.Code)
	}

	rawBooks, err := body.GetArray("books")
	if err != nil {
		return nil, err
	}

	result := &model.GetBibleBooksResponse{
		Translation:   translationName(body, translation),
		TranslationID: translation,
	}

	if err := mapstructure.WeakDecode([]any(rawBooks), &result.Books); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *bibleCaller) GetChapter(
	ctx context.Context, translation, book, chapter string,
) (*model.GetBibleChapterResponse, error) {
	resp, err := c.apiGenerator.New("/%s", url.PathEscape(book+" "+chapter)).
		Query(api.Parameter{"translation": translation}).
		Timeout(xcontext.Configs(ctx).Bible.Timeout).
		GET(ctx)
	if err != nil {
		return nil, err
	}

	body, ok := resp.JSON()
	if !resp.OK() || !ok {
		return nil, fmt.Errorf("cannot load %s %s (status %d)", book, chapter, resp.Code)
	}

	result := &model.GetBibleChapterResponse{
		Reference:     body.Text("reference"),
		Translation:   body.Text("translation_name"),
		TranslationID: body.Text("translation_id"),
		Verses:        []model.BibleVerse{},
		Text:          body.Text("text"),
	}

	if result.Translation == "" {
		result.Translation = translationName(body, translation)
	}

	if result.TranslationID == "" {
		result.TranslationID = translation
	}

	if rawVerses, err := body.GetArray("verses"); err == nil && rawVerses != nil {
		if err := mapstructure.WeakDecode([]any(rawVerses), &result.Verses); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// translationName reads the translation field which is either a plain name
// or an object describing the translation.
func translationName(body api.JSON, fallback string) string {
	if info, err := body.GetJSON("translation"); err == nil && info != nil {
		if name := info.Text("name"); name != "" {
			return name
		}
	}

	if name, err := body.GetString("translation"); err == nil && name != "" {
		return name
	}

	return fallback
}
