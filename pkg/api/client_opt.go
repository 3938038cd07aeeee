package api

import (
	"net/http"
)

type oauth2Opt struct {
	token string
}

func OAuth2(prefix, token string) *oauth2Opt {
	return &oauth2Opt{token: prefix + " " + token}
}

func (opt *oauth2Opt) Do(client defaultClient, req *http.Request) {
	req.Header.Set("Authorization", opt.token)
}

type userAgentOpt struct {
	agent string
}

func UserAgent(agent string) *userAgentOpt {
	return &userAgentOpt{agent: agent}
}

func (opt *userAgentOpt) Do(client defaultClient, req *http.Request) {
	req.Header.Set("User-Agent", opt.agent)
}
