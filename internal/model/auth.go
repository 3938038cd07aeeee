package model

import "net/http"

type AccessToken struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
}

type GoogleLoginRequest struct{}

type GoogleLoginResponse struct {
	RedirectURL string `json:"-"`
	State       string `json:"-"`
}

func (r GoogleLoginResponse) RedirectInfo() (int, string) {
	return http.StatusTemporaryRedirect, r.RedirectURL
}

func (r GoogleLoginResponse) SessionInfo() map[string]any {
	return map[string]any{"oauth_state": r.State}
}

type CallbackRequest struct {
	Code  string `form:"code"`
	State string `form:"state"`
	Error string `form:"error"`
}

type CallbackResponse struct {
	AccessToken string `json:"-"`
	RedirectURL string `json:"-"`
}

func (r CallbackResponse) RedirectInfo() (int, string) {
	return http.StatusFound, r.RedirectURL
}

func (r CallbackResponse) AccessTokenInfo() string {
	return r.AccessToken
}

// Logging in twice with the same state is not allowed.
func (r CallbackResponse) SessionInfo() map[string]any {
	return map[string]any{"oauth_state": ""}
}

type LogoutRequest struct{}

type LogoutResponse struct {
	RedirectURL string `json:"-"`
}

func (r LogoutResponse) RedirectInfo() (int, string) {
	return http.StatusFound, r.RedirectURL
}

// An empty access token expires the cookie.
func (r LogoutResponse) AccessTokenInfo() string {
	return ""
}

// A nil session drops every stored value.
func (r LogoutResponse) SessionInfo() map[string]any {
	return nil
}

type CheckBanRequest struct{}

type CheckBanResponse struct {
	Banned    bool    `json:"banned"`
	Reason    *string `json:"reason"`
	ExpiresAt *string `json:"expires_at"`
}
