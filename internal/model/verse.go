package model

type Verse struct {
	ID        int64  `json:"id"`
	Ref       string `json:"ref"`
	Text      string `json:"text"`
	Trans     string `json:"trans"`
	Source    string `json:"source"`
	Book      string `json:"book"`
	IsNew     bool   `json:"is_new"`
	SessionID string `json:"session_id"`
}

type GetCurrentRequest struct{}

type GetCurrentResponse struct {
	Verse       Verse  `json:"verse"`
	Countdown   int    `json:"countdown"`
	TotalVerses int64  `json:"total_verses"`
	SessionID   string `json:"session_id"`
	Interval    int    `json:"interval"`
}

type SetIntervalRequest struct {
	Interval int `json:"interval"`
}

type SetIntervalResponse struct {
	Success  bool `json:"success"`
	Interval int  `json:"interval"`
}

type HealthRequest struct{}

type HealthResponse struct {
	Status           string `json:"status"`
	GeneratorRunning bool   `json:"generator_running"`
	CurrentVerse     string `json:"current_verse"`
	TimeLeft         int    `json:"time_left"`
	Interval         int    `json:"interval"`
}

type SearchVersesRequest struct {
	Q     string `form:"q"`
	Limit int    `form:"limit"`
}

type SearchVersesResponse struct {
	Query  string         `json:"query"`
	Total  uint64         `json:"total"`
	Verses []VerseSummary `json:"verses"`
}

type VerseSummary struct {
	ID   int64  `json:"id"`
	Ref  string `json:"ref"`
	Book string `json:"book"`
}
