package model

import "time"

type GetUserInfoRequest struct{}

type GetUserInfoResponse struct {
	CreatedAt    time.Time `json:"created_at"`
	IsAdmin      bool      `json:"is_admin"`
	IsBanned     bool      `json:"is_banned"`
	Role         string    `json:"role"`
	Name         string    `json:"name"`
	SessionAdmin bool      `json:"session_admin"`
}

type UpdateNameRequest struct {
	Name string `json:"name"`
}

type UpdateNameResponse struct {
	Success     bool   `json:"success"`
	Name        string `json:"name"`
	AccessToken string `json:"-"`
}

func (r UpdateNameResponse) AccessTokenInfo() string {
	return r.AccessToken
}

type VerifyRoleCodeRequest struct {
	Role string `json:"role"`
	Code string `json:"code"`
}

type VerifyRoleCodeResponse struct {
	Success     bool   `json:"success"`
	Role        string `json:"role"`
	RoleDisplay string `json:"role_display"`
	AccessToken string `json:"-"`
}

func (r VerifyRoleCodeResponse) AccessTokenInfo() string {
	return r.AccessToken
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	TotalVerses   int64 `json:"total_verses"`
	Liked         int64 `json:"liked"`
	Saved         int64 `json:"saved"`
	Comments      int64 `json:"comments"`
	Community     int64 `json:"community"`
	Replies       int64 `json:"replies"`
	TotalComments int64 `json:"total_comments"`
}
