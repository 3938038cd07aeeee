package model

import "time"

type PingPresenceRequest struct {
	Path string `json:"path"`
}

type PingPresenceResponse struct {
	Success bool `json:"success"`
}

type GetOnlineRequest struct{}

type GetOnlineResponse struct {
	Count int64 `json:"count"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type GetNotificationsRequest struct{}

type GetNotificationsResponse []Notification

type ReadNotificationsRequest struct{}

type ReadNotificationsResponse struct {
	Success bool `json:"success"`
}
