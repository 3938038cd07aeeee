package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/versestream/backend/internal/client"
)

type GutendexCaller struct {
	mock.Mock
}

func (c *GutendexCaller) Search(arg1 context.Context, arg2 string, arg3 bool) ([]client.GutendexBook, error) {
	args := c.Called(arg1, arg2, arg3)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.GutendexBook), args.Error(1)
}

func (c *GutendexCaller) GetBook(arg1 context.Context, arg2 int64) (*client.GutendexBook, error) {
	args := c.Called(arg1, arg2)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.GutendexBook), args.Error(1)
}

func (c *GutendexCaller) GetText(arg1 context.Context, arg2 string) (string, error) {
	args := c.Called(arg1, arg2)
	return args.String(0), args.Error(1)
}
