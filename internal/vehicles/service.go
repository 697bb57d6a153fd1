package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gearboxapp/gearbox-backend/pkg/db"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the vehicle service.
type ServiceParams struct {
	Repo Repository
}

// Service exposes the seeded vehicle catalog lookups plus the admin-only
// create path.
type Service interface {
	Years(ctx context.Context) ([]int, error)
	Makes(ctx context.Context, year int) ([]string, error)
	Models(ctx context.Context, year int, make string) ([]models.Vehicle, error)
	Suggest(ctx context.Context, model string, year *int, p pagination.Params) ([]models.Vehicle, error)
	Create(ctx context.Context, input CreateVehicleInput) (*models.Vehicle, error)
}

// CreateVehicleInput is the admin payload for extending the catalog.
type CreateVehicleInput struct {
	Make  string `json:"make" validate:"required"`
	Model string `json:"model" validate:"required"`
	Year  int    `json:"year" validate:"required"`
}

type service struct {
	repo Repository
}

// NewService builds a vehicle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("vehicle repo is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Years(ctx context.Context) ([]int, error) {
	years, err := s.repo.Years(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing vehicle years")
	}
	if len(years) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no vehicle years available")
	}
	return years, nil
}

func (s *service) Makes(ctx context.Context, year int) ([]string, error) {
	makes, err := s.repo.MakesForYear(ctx, year)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing vehicle makes")
	}
	if len(makes) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no makes found for year %d", year))
	}
	return makes, nil
}

func (s *service) Models(ctx context.Context, year int, make string) ([]models.Vehicle, error) {
	if strings.TrimSpace(make) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "make is required")
	}
	rows, err := s.repo.ModelsForYearMake(ctx, year, make)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing vehicle models")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no models found for year %d and make %s", year, make))
	}
	return rows, nil
}

// Suggest backs the type-ahead search box; unlike the drilldown lookups an
// empty result is fine here.
func (s *service) Suggest(ctx context.Context, model string, year *int, p pagination.Params) ([]models.Vehicle, error) {
	if strings.TrimSpace(model) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "model query is required")
	}
	rows, err := s.repo.Search(ctx, strings.TrimSpace(model), year, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "searching vehicles")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input CreateVehicleInput) (*models.Vehicle, error) {
	input.Make = strings.TrimSpace(input.Make)
	input.Model = strings.TrimSpace(input.Model)
	if input.Make == "" || input.Model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "make and model are required")
	}
	if input.Year < 1886 || input.Year > time.Now().Year()+2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year is out of range")
	}

	vehicle := &models.Vehicle{Make: input.Make, Model: input.Model, Year: input.Year}
	if err := s.repo.Create(ctx, vehicle); err != nil {
		if db.IsUniqueViolation(err, "vehicles_year_make_model_key") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "vehicle already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating vehicle")
	}
	return vehicle, nil
}
