package controllers

import (
	"net/http"

	"github.com/gearboxapp/gearbox-backend/api/responses"
	"github.com/gearboxapp/gearbox-backend/internal/catalog"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
)

// ListBrands returns the brand reference table.
func ListBrands(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Brands(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteData(w, catalog.ToBrandDTOs(rows))
	}
}

// ListPartTypes returns the part-type reference table.
func ListPartTypes(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.PartTypes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteData(w, catalog.ToPartTypeDTOs(rows))
	}
}
