package model

type BibleBook struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type GetBibleBooksRequest struct {
	Translation string `form:"translation"`
}

type GetBibleBooksResponse struct {
	Translation   string      `json:"translation"`
	TranslationID string      `json:"translation_id"`
	Books         []BibleBook `json:"books"`
}

type GetBibleChapterRequest struct {
	Translation string `form:"translation"`
	Book        string `form:"book"`
	Chapter     string `form:"chapter"`
}

type BibleVerse struct {
	BookID   string `json:"book_id" mapstructure:"book_id"`
	BookName string `json:"book_name" mapstructure:"book_name"`
	Chapter  int    `json:"chapter" mapstructure:"chapter"`
	Verse    int    `json:"verse" mapstructure:"verse"`
	Text     string `json:"text" mapstructure:"text"`
}

type GetBibleChapterResponse struct {
	Reference     string       `json:"reference"`
	Translation   string       `json:"translation"`
	TranslationID string       `json:"translation_id"`
	Verses        []BibleVerse `json:"verses"`
	Text          string       `json:"text"`
}

type BiblePick struct {
	Reference string `json:"reference" mapstructure:"reference"`
	Title     string `json:"title" mapstructure:"title"`
	Reason    string `json:"reason" mapstructure:"reason"`
}

type GetBiblePicksRequest struct {
	Topic string `form:"topic"`
}

type GetBiblePicksResponse struct {
	Topic string      `json:"topic"`
	Picks []BiblePick `json:"picks"`
}
