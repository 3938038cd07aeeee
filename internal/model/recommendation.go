package model

type Recommendation struct {
	ID     int64  `json:"id"`
	Ref    string `json:"ref"`
	Text   string `json:"text"`
	Trans  string `json:"trans"`
	Book   string `json:"book"`
	Reason string `json:"reason"`
}

type GetRecommendationsRequest struct{}

type GetRecommendationsResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

type GenerateRecommendationRequest struct {
	ExcludeIDs []int64 `json:"exclude_ids"`
}

type GenerateRecommendationResponse struct {
	Success        bool            `json:"success"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

type GetMoodVerseRequest struct {
	Mood string `uri:"mood"`

	// Exclude is a comma separated list of verse ids.
	Exclude string `form:"exclude"`
}

type GetMoodVerseResponse struct {
	ID    int64  `json:"id"`
	Ref   string `json:"ref"`
	Text  string `json:"text"`
	Trans string `json:"trans"`
	Book  string `json:"book"`
}

type GetDailyChallengeRequest struct{}

type GetDailyChallengeResponse struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Goal        int    `json:"goal"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	ChallengeID string `json:"challenge_id"`
	ExpiresAt   string `json:"expires_at"`
	XPReward    int    `json:"xp_reward"`
	Progress    int    `json:"progress"`
	Completed   bool   `json:"completed"`
}
