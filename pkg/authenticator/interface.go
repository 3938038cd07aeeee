package authenticator

import (
	"context"
)

type TokenEngine[T any] interface {
	Generate(sub string, obj T) (string, error)
	Verify(token string) (T, error)
}

type OAuth2User struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

type OAuth2Service interface {
	Service() string
	LoginURL(state string) string
	VerifyAuthorizationCode(ctx context.Context, code string) (OAuth2User, error)
}
