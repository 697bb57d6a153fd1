package vehicles

import "github.com/gearboxapp/gearbox-backend/pkg/db/models"

// VehicleDTO is the wire shape of a vehicle catalog row.
type VehicleDTO struct {
	ID    int64  `json:"id"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
}

// ToDTO projects a vehicle row.
func ToDTO(vehicle *models.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:    vehicle.ID,
		Make:  vehicle.Make,
		Model: vehicle.Model,
		Year:  vehicle.Year,
	}
}

// ToDTOs projects a list.
func ToDTOs(rows []models.Vehicle) []VehicleDTO {
	out := make([]VehicleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out
}
