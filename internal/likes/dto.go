package likes

import (
	"time"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
)

// LikeDTO is the wire shape of a like.
type LikeDTO struct {
	PostID  int64     `json:"post_id"`
	UserID  int64     `json:"user_id"`
	LikedAt time.Time `json:"liked_at"`
}

// ToDTO projects a like row.
func ToDTO(like *models.Like) LikeDTO {
	return LikeDTO{
		PostID:  like.PostID,
		UserID:  like.UserID,
		LikedAt: like.LikedAt,
	}
}

// ToDTOs projects a list.
func ToDTOs(rows []models.Like) []LikeDTO {
	out := make([]LikeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}
