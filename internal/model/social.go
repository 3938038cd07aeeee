package model

import "time"

type LikeRequest struct {
	VerseID int64 `json:"verse_id"`
}

type LikeResponse struct {
	Liked          bool            `json:"liked"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

type SaveRequest struct {
	VerseID int64 `json:"verse_id"`
}

type SaveResponse struct {
	Saved bool `json:"saved"`
}

type CheckLikeRequest struct {
	VerseID int64 `uri:"verse_id"`
}

type CheckLikeResponse struct {
	Liked bool `json:"liked"`
}

type CheckSaveRequest struct {
	VerseID int64 `uri:"verse_id"`
}

type CheckSaveResponse struct {
	Saved bool `json:"saved"`
}

type GetLikedVersesRequest struct{}

type GetLikedVersesResponse []VerseSummary

type GetSavedVersesRequest struct{}

type GetSavedVersesResponse []VerseSummary

type LibraryVerse struct {
	ID      int64      `json:"id"`
	Ref     string     `json:"ref"`
	Text    string     `json:"text"`
	Trans   string     `json:"trans"`
	Source  string     `json:"source"`
	Book    string     `json:"book"`
	LikedAt *time.Time `json:"liked_at"`
	SavedAt *time.Time `json:"saved_at"`
}

type CollectionVerse struct {
	ID   int64  `json:"id"`
	Ref  string `json:"ref"`
	Text string `json:"text"`
}

type Collection struct {
	ID     int64             `json:"id"`
	Name   string            `json:"name"`
	Color  string            `json:"color"`
	Count  int               `json:"count"`
	Verses []CollectionVerse `json:"verses"`
}

type GetLibraryRequest struct{}

type GetLibraryResponse struct {
	Liked          []LibraryVerse `json:"liked"`
	Saved          []LibraryVerse `json:"saved"`
	Collections    []Collection   `json:"collections"`
	LikedCount     int            `json:"liked_count"`
	SavedCount     int            `json:"saved_count"`
	FavoritesCount int            `json:"favorites_count"`
}

type CreateCollectionRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CreateCollectionResponse Collection

type AddToCollectionRequest struct {
	CollectionID int64 `json:"collection_id"`
	VerseID      int64 `json:"verse_id"`
}

type AddToCollectionResponse struct {
	Success bool `json:"success"`
}
