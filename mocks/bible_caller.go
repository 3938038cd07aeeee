package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/versestream/backend/internal/model"
)

type BibleCaller struct {
	mock.Mock
}

func (c *BibleCaller) GetBooks(arg1 context.Context, arg2 string) (*model.GetBibleBooksResponse, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GetBibleBooksResponse), args.Error(1)
}

func (c *BibleCaller) GetChapter(
	arg1 context.Context, arg2, arg3, arg4 string,
) (*model.GetBibleChapterResponse, error) {
	args := c.Called(arg1, arg2, arg3, arg4)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GetBibleChapterResponse), args.Error(1)
}
