package catalog

import "github.com/gearboxapp/gearbox-backend/pkg/db/models"

// BrandDTO is the wire shape of a brand.
type BrandDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PartTypeDTO is the wire shape of a part type.
type PartTypeDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ToBrandDTOs projects a list of brands.
func ToBrandDTOs(rows []models.Brand) []BrandDTO {
	out := make([]BrandDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, BrandDTO{ID: row.ID, Name: row.Name})
	}
	return out
}

// ToPartTypeDTOs projects a list of part types.
func ToPartTypeDTOs(rows []models.PartType) []PartTypeDTO {
	out := make([]PartTypeDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, PartTypeDTO{ID: row.ID, Name: row.Name})
	}
	return out
}
