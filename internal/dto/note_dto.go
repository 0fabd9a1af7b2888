package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/foxclub-backend/internal/models"
	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
	Pinned  *bool  `json:"pinned"`
}

type UpdateNoteRequest struct {
	Content *string `json:"content"`
	Pinned  *bool   `json:"pinned"`
}

type NoteAuthor struct {
	ID     uuid.UUID `json:"id"`
	Pseudo string    `json:"pseudo"`
}

type NoteResponse struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	Content   string      `json:"content"`
	Pinned    bool        `json:"pinned"`
	Author    *NoteAuthor `json:"author"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func NewNoteResponse(n *models.AdminNote) NoteResponse {
	resp := NoteResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Content:   n.Content,
		Pinned:    n.Pinned,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
	if n.Admin != nil {
		resp.Author = &NoteAuthor{ID: n.Admin.ID, Pseudo: n.Admin.Pseudo}
	}
	return resp
}

type NoteListResponse struct {
	Data []NoteResponse `json:"data"`
}
