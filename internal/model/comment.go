package model

import "time"

type Reply struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
	UserName    string    `json:"user_name"`
	UserPicture string    `json:"user_picture"`
	UserRole    string    `json:"user_role"`
}

// Comment is either a verse comment or a community message.
type Comment struct {
	ID          int64          `json:"id"`
	Text        string         `json:"text"`
	Timestamp   time.Time      `json:"timestamp"`
	UserName    string         `json:"user_name"`
	UserPicture string         `json:"user_picture"`
	UserID      int64          `json:"user_id"`
	UserRole    string         `json:"user_role"`
	Reactions   map[string]int `json:"reactions"`
	Replies     []Reply        `json:"replies"`
	ReplyCount  int            `json:"reply_count"`
}

type GetCommentsRequest struct {
	VerseID int64 `uri:"verse_id"`
}

type GetCommentsResponse []Comment

type PostCommentRequest struct {
	VerseID int64  `json:"verse_id"`
	Text    string `json:"text"`
}

type PostCommentResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type GetCommunityRequest struct{}

type GetCommunityResponse []Comment

type PostCommunityRequest struct {
	Text string `json:"text"`
}

type PostCommunityResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type ReactRequest struct {
	ItemID   int64  `json:"item_id"`
	ItemType string `json:"item_type"`
	Reaction string `json:"reaction"`
}

type ReactResponse struct {
	Success   bool           `json:"success"`
	Active    bool           `json:"active"`
	Reactions map[string]int `json:"reactions"`
}

type PostReplyRequest struct {
	ParentType string `json:"parent_type"`
	ParentID   int64  `json:"parent_id"`
	Text       string `json:"text"`
}

type PostReplyResponse struct {
	Success    bool    `json:"success"`
	Replies    []Reply `json:"replies"`
	ReplyCount int     `json:"reply_count"`
}

type DeleteCommentRequest struct {
	ID int64 `uri:"id"`
}

type DeleteCommentResponse struct {
	Success bool `json:"success"`
}

type DeleteCommunityRequest struct {
	ID int64 `uri:"id"`
}

type DeleteCommunityResponse struct {
	Success bool `json:"success"`
}
