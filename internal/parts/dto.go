package parts

import (
	"time"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
)

// PartDTO is the wire shape of a part.
type PartDTO struct {
	ID          int64     `json:"id"`
	BrandID     int64     `json:"brand_id"`
	PartTypeID  int64     `json:"part_type_id"`
	SubmittedBy int64     `json:"submitted_by"`
	Name        string    `json:"name"`
	PartNumber  *string   `json:"part_number"`
	ImageURL    *string   `json:"image_url"`
	Description *string   `json:"description"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToDTO projects a part row.
func ToDTO(part *models.Part) PartDTO {
	return PartDTO{
		ID:          part.ID,
		BrandID:     part.BrandID,
		PartTypeID:  part.PartTypeID,
		SubmittedBy: part.SubmittedBy,
		Name:        part.Name,
		PartNumber:  part.PartNumber,
		ImageURL:    part.ImageURL,
		Description: part.Description,
		IsVerified:  part.IsVerified,
		CreatedAt:   part.CreatedAt,
	}
}

// ToDTOs projects a list.
func ToDTOs(rows []models.Part) []PartDTO {
	out := make([]PartDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}
