package model

import "time"

// Content type values. The column is free-form text so new types can be
// introduced without a migration.
const (
	ContentTypeNote = "note"
	ContentTypeURL  = "url"
)

// User is an account identity. Credential handling lives in the external
// identity collaborator; the backend only needs the id and unique username.
type User struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	CreationTime time.Time `json:"creationTime"`
}

// ContentItem is one stored unit of knowledge: a note, a link, or a scraped
// page. Link and ImageURL are nil for plain notes.
type ContentItem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Link         *string   `json:"link"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	ImageURL     *string   `json:"imageUrl"`
	CreationTime time.Time `json:"createdAt"`
}

// ShareLink maps an opaque hash to a user, granting read-only access to that
// user's content list. At most one per user.
type ShareLink struct {
	Hash         string    `json:"hash"`
	UserID       string    `json:"userId"`
	CreationTime time.Time `json:"creationTime"`
}

// SearchHit is one vector-index match.
type SearchHit struct {
	ContentID string  `json:"contentId"`
	UserID    string  `json:"userId"`
	Title     string  `json:"title"`
	Snippet   string  `json:"snippet"`
	Score     float64 `json:"score"`
}

// ScoredContent pairs a hydrated content item with its similarity score.
type ScoredContent struct {
	ContentItem
	SimilarityScore float64 `json:"similarityScore"`
}
