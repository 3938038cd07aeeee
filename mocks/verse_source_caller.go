package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/versestream/backend/internal/client"
)

type VerseSourceCaller struct {
	mock.Mock
}

func (c *VerseSourceCaller) Fetch(arg1 context.Context) (*client.FetchedVerse, error) {
	args := c.Called(arg1)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.FetchedVerse), args.Error(1)
}
