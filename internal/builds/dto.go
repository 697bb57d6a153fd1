package builds

import (
	"time"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
)

// BuildDTO is the wire shape of a build.
type BuildDTO struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	VehicleID       int64     `json:"vehicle_id"`
	Nickname        *string   `json:"nickname"`
	CoverPictureURL *string   `json:"cover_picture_url"`
	Description     *string   `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToDTO projects a build row.
func ToDTO(build *models.Build) BuildDTO {
	return BuildDTO{
		ID:              build.ID,
		UserID:          build.UserID,
		VehicleID:       build.VehicleID,
		Nickname:        build.Nickname,
		CoverPictureURL: build.CoverPictureURL,
		Description:     build.Description,
		CreatedAt:       build.CreatedAt,
	}
}

// ToDTOs projects a list.
func ToDTOs(rows []models.Build) []BuildDTO {
	out := make([]BuildDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}
