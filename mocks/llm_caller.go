package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/versestream/backend/internal/model"
)

type LLMCaller struct {
	mock.Mock
}

func (c *LLMCaller) RankBooks(arg1 context.Context, arg2 string, arg3 []model.Book) ([]model.Book, error) {
	args := c.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Book), args.Error(1)
}

func (c *LLMCaller) BiblePicks(arg1 context.Context, arg2 string) ([]model.BiblePick, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BiblePick), args.Error(1)
}
