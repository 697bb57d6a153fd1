package builds

import (
	"context"
	stdErrors "errors"

	"github.com/gearboxapp/gearbox-backend/internal/guard"
	"github.com/gearboxapp/gearbox-backend/internal/parts"
	"github.com/gearboxapp/gearbox-backend/internal/vehicles"
	"github.com/gearboxapp/gearbox-backend/pkg/db"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the build service.
type ServiceParams struct {
	Repo        Repository
	VehicleRepo vehicles.Repository
	PartRepo    parts.Repository
}

// CreateBuildInput is the POST /builds payload. The vehicle must name an
// existing catalog row.
type CreateBuildInput struct {
	VehicleID       int64   `json:"vehicle_id" validate:"required"`
	Nickname        *string `json:"nickname"`
	CoverPictureURL *string `json:"cover_picture_url"`
	Description     *string `json:"description"`
}

// UpdateBuildInput edits the descriptive fields; the vehicle is immutable.
type UpdateBuildInput struct {
	Nickname        *string `json:"nickname"`
	CoverPictureURL *string `json:"cover_picture_url"`
	Description     *string `json:"description"`
}

// Service owns builds and their part lists.
type Service interface {
	Create(ctx context.Context, actor *models.User, input CreateBuildInput) (*models.Build, error)
	Get(ctx context.Context, id int64) (*models.Build, error)
	ListByUser(ctx context.Context, userID int64, p pagination.Params) ([]models.Build, error)
	Update(ctx context.Context, actor *models.User, id int64, input UpdateBuildInput) (*models.Build, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
	AddPart(ctx context.Context, actor *models.User, buildID, partID int64) error
	RemovePart(ctx context.Context, actor *models.User, buildID, partID int64) error
	Parts(ctx context.Context, buildID int64, p pagination.Params) ([]models.Part, error)
}

type service struct {
	repo        Repository
	vehicleRepo vehicles.Repository
	partRepo    parts.Repository
}

// NewService builds a build service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "build repo is required")
	}
	if params.VehicleRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle repo is required")
	}
	if params.PartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part repo is required")
	}
	return &service{
		repo:        params.Repo,
		vehicleRepo: params.VehicleRepo,
		partRepo:    params.PartRepo,
	}, nil
}

func (s *service) Create(ctx context.Context, actor *models.User, input CreateBuildInput) (*models.Build, error) {
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if _, err := s.vehicleRepo.FindByID(ctx, input.VehicleID); err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading vehicle")
	}

	build := &models.Build{
		UserID:          actor.ID,
		VehicleID:       input.VehicleID,
		Nickname:        input.Nickname,
		CoverPictureURL: input.CoverPictureURL,
		Description:     input.Description,
	}
	if err := s.repo.Create(ctx, build); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating build")
	}
	return build, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Build, error) {
	return s.find(ctx, id)
}

func (s *service) ListByUser(ctx context.Context, userID int64, p pagination.Params) ([]models.Build, error) {
	rows, err := s.repo.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing builds")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, actor *models.User, id int64, input UpdateBuildInput) (*models.Build, error) {
	build, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(actor, guard.Resource{Kind: guard.KindBuild, OwnerID: build.UserID}, guard.ActionWrite); err != nil {
		return nil, err
	}

	if input.Nickname != nil {
		build.Nickname = input.Nickname
	}
	if input.CoverPictureURL != nil {
		build.CoverPictureURL = input.CoverPictureURL
	}
	if input.Description != nil {
		build.Description = input.Description
	}

	if err := s.repo.Save(ctx, build); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving build")
	}
	return build, nil
}

func (s *service) Delete(ctx context.Context, actor *models.User, id int64) error {
	build, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := guard.Authorize(actor, guard.Resource{Kind: guard.KindBuild, OwnerID: build.UserID}, guard.ActionDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, build.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting build")
	}
	return nil
}

// AddPart checks the build first so a missing build 404s before any
// ownership denial, then the part, then inserts. The composite key turns a
// duplicate membership into a Conflict.
func (s *service) AddPart(ctx context.Context, actor *models.User, buildID, partID int64) error {
	build, err := s.find(ctx, buildID)
	if err != nil {
		return err
	}
	if err := guard.Authorize(actor, guard.Resource{Kind: guard.KindBuild, OwnerID: build.UserID}, guard.ActionWrite); err != nil {
		return err
	}
	if _, err := s.partRepo.FindByID(ctx, partID); err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "part not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading part")
	}

	if err := s.repo.AddPart(ctx, buildID, partID); err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "part already on this build")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding part to build")
	}
	return nil
}

func (s *service) RemovePart(ctx context.Context, actor *models.User, buildID, partID int64) error {
	build, err := s.find(ctx, buildID)
	if err != nil {
		return err
	}
	if err := guard.Authorize(actor, guard.Resource{Kind: guard.KindBuild, OwnerID: build.UserID}, guard.ActionWrite); err != nil {
		return err
	}

	removed, err := s.repo.RemovePart(ctx, buildID, partID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing part from build")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "part is not on this build")
	}
	return nil
}

func (s *service) Parts(ctx context.Context, buildID int64, p pagination.Params) ([]models.Part, error) {
	if _, err := s.find(ctx, buildID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListParts(ctx, buildID, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing build parts")
	}
	return rows, nil
}

func (s *service) find(ctx context.Context, id int64) (*models.Build, error) {
	build, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "build not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading build")
	}
	return build, nil
}
