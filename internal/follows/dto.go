package follows

import (
	"time"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
)

// FollowDTO is the wire shape of a follow edge.
type FollowDTO struct {
	FollowerID  int64     `json:"follower_id"`
	FollowingID int64     `json:"following_id"`
	FollowedAt  time.Time `json:"followed_at"`
}

// ToDTO projects a follow row.
func ToDTO(follow *models.Follow) FollowDTO {
	return FollowDTO{
		FollowerID:  follow.FollowerID,
		FollowingID: follow.FollowingID,
		FollowedAt:  follow.FollowedAt,
	}
}

// ToDTOs projects a list.
func ToDTOs(rows []models.Follow) []FollowDTO {
	out := make([]FollowDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}
