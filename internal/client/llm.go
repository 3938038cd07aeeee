package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/versestream/backend/internal/model"
	"github.com/versestream/backend/pkg/api"
	"github.com/versestream/backend/pkg/xcontext"
)

const maxBiblePicks = 10

const rankBooksPrompt = "You rank public-domain book candidates for a reader. " +
	"Return JSON ONLY with key ranked_ids (array of ids). " +
	"Heavily prioritize download_count/popularity. Use relevance to the query as a tiebreaker. " +
	"Only use ids from the candidate list."

const biblePicksPrompt = "You are a Bible reading guide. Return JSON ONLY with key picks: " +
	"an array of objects with fields reference, title, reason. " +
	"Use well-known, popular Bible sections. " +
	"reference must look like 'John 1-3' or 'Romans 8'. " +
	"Provide 8-10 picks. Keep reason under 14 words."

var ErrLLMDisabled = errors.New("llm is not configured")

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

type LLMCaller interface {
	// RankBooks reorders books, the ones the model left out are appended in
	// their original order.
	RankBooks(ctx context.Context, query string, books []model.Book) ([]model.Book, error)
	BiblePicks(ctx context.Context, topic string) ([]model.BiblePick, error)
}

type llmCaller struct {
	apiGenerator api.Generator
}

func NewLLMCaller(apiGenerator api.Generator) *llmCaller {
	return &llmCaller{apiGenerator: apiGenerator}
}

type bookCandidate struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Downloads int64    `json:"downloads"`
	Subjects  []string `json:"subjects"`
}

func (c *llmCaller) RankBooks(ctx context.Context, query string, books []model.Book) ([]model.Book, error) {
	if len(books) == 0 {
		return books, nil
	}

	candidates := make([]bookCandidate, 0, len(books))
	for _, b := range books {
		subjects := b.Subjects
		if len(subjects) > 6 {
			subjects = subjects[:6]
		}

		candidates = append(candidates, bookCandidate{
			ID:        b.ID,
			Title:     b.Title,
			Author:    b.Author,
			Downloads: b.Downloads,
			Subjects:  subjects,
		})
	}

	encoded, err := json.Marshal(candidates)
	if err != nil {
		return nil, err
	}

	reply, err := c.complete(ctx, rankBooksPrompt,
		fmt.Sprintf("Query: %s\nCandidates: %s", query, encoded), 0.2, 180)
	if err != nil {
		return nil, err
	}

	var rankedIDs []any
	for _, key := range []string{"ranked_ids", "rankedIds", "ids"} {
		if ids, ok := reply[key].([]any); ok && len(ids) > 0 {
			rankedIDs = ids
			break
		}
	}

	if rankedIDs == nil {
		return nil, errors.New("no ranked ids in reply")
	}

	byID := make(map[string]model.Book, len(books))
	for _, b := range books {
		byID[strconv.FormatInt(b.ID, 10)] = b
	}

	seen := map[string]bool{}
	ranked := make([]model.Book, 0, len(books))
	for _, id := range rankedIDs {
		key := idString(id)
		if b, ok := byID[key]; ok && !seen[key] {
			ranked = append(ranked, b)
			seen[key] = true
		}
	}

	for _, b := range books {
		if key := strconv.FormatInt(b.ID, 10); !seen[key] {
			ranked = append(ranked, b)
		}
	}

	return ranked, nil
}

type rawPick struct {
	Reference string `mapstructure:"reference"`
	Ref       string `mapstructure:"ref"`
	Title     string `mapstructure:"title"`
	Reason    string `mapstructure:"reason"`
}

func (c *llmCaller) BiblePicks(ctx context.Context, topic string) ([]model.BiblePick, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "popular Bible selections"
	}

	reply, err := c.complete(ctx, biblePicksPrompt, "Topic: "+topic, 0.3, 220)
	if err != nil {
		return nil, err
	}

	items, ok := reply["picks"].([]any)
	if !ok {
		return nil, errors.New("no picks in reply")
	}

	picks := []model.BiblePick{}
	for _, item := range items {
		var raw rawPick
		if err := mapstructure.WeakDecode(item, &raw); err != nil {
			continue
		}

		reference := strings.TrimSpace(raw.Reference)
		if reference == "" {
			reference = strings.TrimSpace(raw.Ref)
		}

		if reference == "" {
			continue
		}

		title := strings.TrimSpace(raw.Title)
		if title == "" {
			title = reference
		}

		picks = append(picks, model.BiblePick{
			Reference: reference,
			Title:     title,
			Reason:    strings.TrimSpace(raw.Reason),
		})

		if len(picks) == maxBiblePicks {
			break
		}
	}

	return picks, nil
}

// complete sends one chat completion and returns the first JSON object found
// in the reply.
func (c *llmCaller) complete(
	ctx context.Context, system, user string, temperature float64, maxTokens int,
) (api.JSON, error) {
	cfg := xcontext.Configs(ctx).LLM
	if !cfg.Enabled() {
		return nil, ErrLLMDisabled
	}

	resp, err := c.apiGenerator.New("/chat/completions").
		Body(api.JSON{
			"model": cfg.Model,
			"messages": []map[string]string{
				{"role": "system", "content": system},
				{"role": "user", "content": user},
			},
			"temperature": temperature,
			"max_tokens":  maxTokens,
		}).
		Timeout(cfg.Timeout).
		POST(ctx, api.OAuth2("Bearer", cfg.APIKey))
	if err != nil {
		return nil, err
	}

	body, ok := resp.JSON()
	if !resp.OK() || !ok {
		return nil, fmt.Errorf("chat completion failed with status %d", resp.Code)
	}

	choices, err := body.GetArray("choices")
	if err != nil {
		return nil, err
	}

	first, ok := choices.JSONAt(0)
	if !ok {
		return nil, errors.New("no choice in reply")
	}

	content, err := first.GetString("message.content")
	if err != nil {
		return nil, err
	}

	match := jsonObjectPattern.FindString(content)
	if match == "" {
		return nil, errors.New("no json object in reply")
	}

	result := api.JSON{}
	if err := json.Unmarshal([]byte(match), &result); err != nil {
		return nil, err
	}

	return result, nil
}

func idString(id any) string {
	switch t := id.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return strings.TrimSpace(t)
	default:
		return fmt.Sprint(t)
	}
}
