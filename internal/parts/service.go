package parts

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/gearboxapp/gearbox-backend/internal/catalog"
	"github.com/gearboxapp/gearbox-backend/internal/guard"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the part service.
type ServiceParams struct {
	Repo        Repository
	CatalogRepo catalog.Repository
}

// CreatePartInput is the POST /parts payload. Brand and part type must name
// existing catalog rows.
type CreatePartInput struct {
	BrandID     int64   `json:"brand_id" validate:"required"`
	PartTypeID  int64   `json:"part_type_id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	PartNumber  *string `json:"part_number"`
	ImageURL    *string `json:"image_url"`
	Description *string `json:"description"`
}

// UpdatePartInput edits the descriptive fields. Brand, part type, and the
// verified flag are not editable through this surface.
type UpdatePartInput struct {
	Name        *string `json:"name"`
	PartNumber  *string `json:"part_number"`
	ImageURL    *string `json:"image_url"`
	Description *string `json:"description"`
}

// Service owns the part lifecycle. Verification is a moderator action that
// locks the part against submitter deletion.
type Service interface {
	Create(ctx context.Context, actor *models.User, input CreatePartInput) (*models.Part, error)
	Get(ctx context.Context, id int64) (*models.Part, error)
	List(ctx context.Context, p pagination.Params) ([]models.Part, error)
	Update(ctx context.Context, actor *models.User, id int64, input UpdatePartInput) (*models.Part, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
	Verify(ctx context.Context, id int64) (*models.Part, error)
}

type service struct {
	repo        Repository
	catalogRepo catalog.Repository
}

// NewService builds a part service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{repo: params.Repo, catalogRepo: params.CatalogRepo}, nil
}

func (s *service) Create(ctx context.Context, actor *models.User, input CreatePartInput) (*models.Part, error) {
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, err := s.catalogRepo.FindBrandByID(ctx, input.BrandID); err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading brand")
	}
	if _, err := s.catalogRepo.FindPartTypeByID(ctx, input.PartTypeID); err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "part type not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading part type")
	}

	part := &models.Part{
		BrandID:     input.BrandID,
		PartTypeID:  input.PartTypeID,
		SubmittedBy: actor.ID,
		Name:        strings.TrimSpace(input.Name),
		PartNumber:  input.PartNumber,
		ImageURL:    input.ImageURL,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, part); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating part")
	}
	return part, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Part, error) {
	return s.find(ctx, id)
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]models.Part, error) {
	rows, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing parts")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, actor *models.User, id int64, input UpdatePartInput) (*models.Part, error) {
	part, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	res := guard.Resource{Kind: guard.KindPart, OwnerID: part.SubmittedBy, PartVerified: part.IsVerified}
	if err := guard.Authorize(actor, res, guard.ActionWrite); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		part.Name = strings.TrimSpace(*input.Name)
	}
	if input.PartNumber != nil {
		part.PartNumber = input.PartNumber
	}
	if input.ImageURL != nil {
		part.ImageURL = input.ImageURL
	}
	if input.Description != nil {
		part.Description = input.Description
	}

	if err := s.repo.Save(ctx, part); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving part")
	}
	return part, nil
}

// Delete refuses verified parts for everyone, the submitter included; the
// guard encodes that rule.
func (s *service) Delete(ctx context.Context, actor *models.User, id int64) error {
	part, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	res := guard.Resource{Kind: guard.KindPart, OwnerID: part.SubmittedBy, PartVerified: part.IsVerified}
	if err := guard.Authorize(actor, res, guard.ActionDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, part.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting part")
	}
	return nil
}

// Verify flips the moderation flag. The admin surface is gated by middleware
// before it reaches here; verifying twice is harmless.
func (s *service) Verify(ctx context.Context, id int64) (*models.Part, error) {
	part, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetVerified(ctx, part.ID, true); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying part")
	}
	part.IsVerified = true
	return part, nil
}

func (s *service) find(ctx context.Context, id int64) (*models.Part, error) {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "part not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading part")
	}
	return part, nil
}
