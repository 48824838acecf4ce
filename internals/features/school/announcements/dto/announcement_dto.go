package dto

import (
	"time"

	"github.com/google/uuid"

	"madrasa_backend/internals/features/school/announcements/model"
)

// POST /api/a/announcements
type CreateAnnouncementRequest struct {
	Title   string `json:"title" validate:"required,notblank,min=3,max=200"`
	Content string `json:"content" validate:"required,notblank"`
}

type AnnouncementResponse struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromModel(m model.AnnouncementModel) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        m.AnnouncementID,
		Title:     m.AnnouncementTitle,
		Content:   m.AnnouncementContent,
		AuthorID:  m.AnnouncementAuthorID,
		CreatedAt: m.AnnouncementCreatedAt,
	}
}
