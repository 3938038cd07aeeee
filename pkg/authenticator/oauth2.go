package authenticator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/versestream/backend/config"
	"golang.org/x/oauth2"
)

type OAuth2Config struct {
	*oidc.Provider
	oauth2.Config

	name string
}

// NewOAuth2Config discovers the provider endpoints from the issuer's
// well-known configuration document.
func NewOAuth2Config(
	ctx context.Context, cfg config.OAuth2Configs, redirectURL string,
) (*OAuth2Config, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	oauth2Cfg := oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     provider.Endpoint(),
		RedirectURL:  redirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}

	return &OAuth2Config{name: cfg.Name, Provider: provider, Config: oauth2Cfg}, nil
}

func (a *OAuth2Config) Service() string {
	return a.name
}

func (a *OAuth2Config) LoginURL(state string) string {
	return a.Config.AuthCodeURL(state)
}

// VerifyAuthorizationCode exchanges the code for a token and reads the profile
// from the userinfo endpoint. When the provider also returns an id token, its
// subject must match the userinfo subject.
func (a *OAuth2Config) VerifyAuthorizationCode(ctx context.Context, code string) (OAuth2User, error) {
	token, err := a.Config.Exchange(ctx, code)
	if err != nil {
		return OAuth2User{}, err
	}

	info, err := a.Provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return OAuth2User{}, err
	}

	if _, ok := token.Extra("id_token").(string); ok {
		subject, err := a.VerifyIDToken(ctx, token)
		if err != nil {
			return OAuth2User{}, err
		}

		if subject != info.Subject {
			return OAuth2User{}, errors.New("id token subject mismatch")
		}
	}

	var profile map[string]any
	if err := info.Claims(&profile); err != nil {
		return OAuth2User{}, err
	}

	user := OAuth2User{ID: info.Subject, Email: info.Email}
	user.Name, _ = profile["name"].(string)
	user.Picture, _ = profile["picture"].(string)
	if user.Name == "" {
		user.Name, _, _ = strings.Cut(info.Email, "@")
	}

	return user, nil
}

// VerifyIDToken verifies that an *oauth2.Token carries a valid *oidc.IDToken
// and returns its subject.
func (a *OAuth2Config) VerifyIDToken(ctx context.Context, token *oauth2.Token) (string, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", errors.New("no id_token field in oauth2 token")
	}

	idToken, err := a.Verifier(&oidc.Config{ClientID: a.ClientID}).Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("invalid id token: %w", err)
	}

	return idToken.Subject, nil
}
