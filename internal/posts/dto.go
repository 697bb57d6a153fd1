package posts

import (
	"time"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
)

// PostDTO is the wire shape of a post.
type PostDTO struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	ImageURL  string     `json:"image_url"`
	Caption   *string    `json:"caption"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at"`
}

// ToDTO projects a post row.
func ToDTO(post *models.Post) PostDTO {
	return PostDTO{
		ID:        post.ID,
		UserID:    post.UserID,
		ImageURL:  post.ImageURL,
		Caption:   post.Caption,
		CreatedAt: post.CreatedAt,
		EditedAt:  post.EditedAt,
	}
}

// ToDTOs projects a list.
func ToDTOs(rows []models.Post) []PostDTO {
	out := make([]PostDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}
