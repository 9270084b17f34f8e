package domain

import "time"

// Note is a personal annotation on a book. IsShared caches the backend's value
// and changes only after a confirmed toggle.
type Note struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"bookId"`
	Location  string    `json:"location"`
	Text      string    `json:"text"`
	IsShared  bool      `json:"isShared"`
	CreatedAt time.Time `json:"createdAt"`
}

// SharedNote is a note another reader made public on the same book.
type SharedNote struct {
	Note
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName,omitempty"`
}
