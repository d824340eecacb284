package domain

import "time"

// Note is the persisted entity. Content is an HTML fragment carrying
// the rich-text body; every read and write is scoped by OwnerID.
type Note struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateNoteRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListNotesQuery captures the list endpoint's query parameters. Order
// is the field to sort by, newest first; zero Limit means no cap.
type ListNotesQuery struct {
	Order string `validate:"omitempty,oneof=created_at updated_at"`
	Limit int    `validate:"gte=0"`
}
