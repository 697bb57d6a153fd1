package comments

import (
	"time"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
)

// CommentDTO is the wire shape of a comment.
type CommentDTO struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDTO projects a comment row.
func ToDTO(comment *models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}

// ToDTOs projects a list.
func ToDTOs(rows []models.Comment) []CommentDTO {
	out := make([]CommentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}
