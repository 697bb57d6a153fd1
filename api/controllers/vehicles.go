package controllers

import (
	"net/http"
	"strings"

	"github.com/gearboxapp/gearbox-backend/api/responses"
	"github.com/gearboxapp/gearbox-backend/api/validators"
	"github.com/gearboxapp/gearbox-backend/internal/vehicles"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
)

// VehicleYears lists the distinct catalog years, newest first.
func VehicleYears(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		years, err := svc.Years(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteData(w, years)
	}
}

// VehicleMakes lists the makes for the year in the path.
func VehicleMakes(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		yearParam, err := validators.URLParamID(r, "year")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		year := int(yearParam)
		makes, err := svc.Makes(r.Context(), year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteData(w, makes)
	}
}

// VehicleModels lists the models for a year and make.
func VehicleModels(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseQueryInt(r, "year", 0, 1, 9999)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		mk := strings.TrimSpace(r.URL.Query().Get("make"))
		if year == 0 || mk == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "year and make query parameters are required"))
			return
		}
		rows, err := svc.Models(r.Context(), year, mk)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteData(w, vehicles.ToDTOs(rows))
	}
}

// VehicleQueryModels does a typeahead search on the model name, optionally
// pinned to a year. An empty result is a valid answer here, not a 404.
func VehicleQueryModels(svc vehicles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("model"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "model query parameter is required"))
			return
		}

		var year *int
		if raw := strings.TrimSpace(r.URL.Query().Get("year")); raw != "" {
			value, err := validators.ParseQueryInt(r, "year", 0, 1, 9999)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			year = &value
		}

		rows, err := svc.Suggest(r.Context(), query, year, pagination.Params{Limit: pagination.SuggestLimit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteData(w, vehicles.ToDTOs(rows))
	}
}
