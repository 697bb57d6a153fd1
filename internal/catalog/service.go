package catalog

import (
	"context"
	"errors"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo Repository
}

// Service serves the flat reference catalogs.
type Service interface {
	Brands(ctx context.Context) ([]models.Brand, error)
	PartTypes(ctx context.Context) ([]models.PartType, error)
}

type service struct {
	repo Repository
}

// NewService builds a catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("catalog repo is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Brands(ctx context.Context) ([]models.Brand, error) {
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing brands")
	}
	return brands, nil
}

func (s *service) PartTypes(ctx context.Context) ([]models.PartType, error) {
	types, err := s.repo.ListPartTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing part types")
	}
	return types, nil
}
