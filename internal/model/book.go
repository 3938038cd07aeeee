package model

type Book struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	Downloads int64    `json:"downloads"`
	Cover     string   `json:"cover"`
	TextURL   string   `json:"text_url"`
	AIScore   int64    `json:"ai_score"`
	Subjects  []string `json:"subjects"`
}

type SearchBooksRequest struct {
	Q       string `form:"q"`
	Popular string `form:"popular"`
}

type SearchBooksResponse struct {
	Query string `json:"query"`
	Books []Book `json:"books"`
}

type GetBookContentRequest struct {
	ID int64 `uri:"id"`
}

type GetBookContentResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Cover  string `json:"cover"`
	Text   string `json:"text"`
}
