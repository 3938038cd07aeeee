package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/versestream/backend/pkg/authenticator"
)

type OAuth2Service struct {
	mock.Mock
}

func (s *OAuth2Service) Service() string {
	args := s.Called()
	return args.String(0)
}

func (s *OAuth2Service) LoginURL(arg1 string) string {
	args := s.Called(arg1)
	return args.String(0)
}

func (s *OAuth2Service) VerifyAuthorizationCode(arg1 context.Context, arg2 string) (authenticator.OAuth2User, error) {
	args := s.Called(arg1, arg2)
	return args.Get(0).(authenticator.OAuth2User), args.Error(1)
}
