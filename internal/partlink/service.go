package partlink

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gearboxapp/gearbox-backend/internal/catalog"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the part-link service.
type ServiceParams struct {
	Fetcher     Fetcher
	Extractor   Extractor
	CatalogRepo catalog.Repository
}

// DraftPart is the pre-filled part form handed back to the client. Nothing is
// persisted; the user reviews the draft and submits it through POST /parts.
type DraftPart struct {
	BrandID     int64   `json:"brand_id"`
	BrandName   string  `json:"brand_name"`
	PartTypeID  int64   `json:"part_type_id"`
	PartName    string  `json:"part_name"`
	PartNumber  *string `json:"part_number"`
	ImageURL    *string `json:"image_url"`
	Description *string `json:"description"`
}

// Service turns a retailer URL into a draft part.
type Service interface {
	ExtractFromURL(ctx context.Context, actor *models.User, rawURL string) (*DraftPart, error)
}

type service struct {
	fetcher     Fetcher
	extractor   Extractor
	catalogRepo catalog.Repository
}

// NewService builds a part-link service.
func NewService(params ServiceParams) (Service, error) {
	if params.Fetcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fetcher is required")
	}
	if params.Extractor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "extractor is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		fetcher:     params.Fetcher,
		extractor:   params.Extractor,
		catalogRepo: params.CatalogRepo,
	}, nil
}

// extractedFields mirrors the JSON contract in the extraction prompt.
type extractedFields struct {
	Brand       string  `json:"brand"`
	PartName    string  `json:"part_name"`
	PartNumber  *string `json:"part_number"`
	ImageURL    *string `json:"image_url"`
	Description *string `json:"description"`
}

func (s *service) ExtractFromURL(ctx context.Context, actor *models.User, rawURL string) (*DraftPart, error) {
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid url is required")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid url is required")
	}

	pageText, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetch, err, "unable to fetch page")
	}

	raw, err := s.extractor.ExtractFields(ctx, pageText)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeExtraction, err, "unable to extract part details")
	}

	var fields extractedFields
	if err := json.Unmarshal([]byte(stripFences(raw)), &fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeExtraction, err, "unable to extract part details")
	}
	if strings.TrimSpace(fields.Brand) == "" || strings.TrimSpace(fields.PartName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeExtraction, "unable to extract part details")
	}

	brand, err := s.catalogRepo.FindBrandByName(ctx, strings.TrimSpace(fields.Brand))
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "brand not found in database")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading brand")
	}

	partType, err := s.classify(ctx, fields)
	if err != nil {
		return nil, err
	}

	return &DraftPart{
		BrandID:     brand.ID,
		BrandName:   brand.Name,
		PartTypeID:  partType.ID,
		PartName:    strings.TrimSpace(fields.PartName),
		PartNumber:  fields.PartNumber,
		ImageURL:    fields.ImageURL,
		Description: fields.Description,
	}, nil
}

// classify asks the model to pick a category id from the seeded list. The
// model is untrusted input here: anything that is not an integer naming a
// known part type is a validation failure, not a server fault.
func (s *service) classify(ctx context.Context, fields extractedFields) (*models.PartType, error) {
	types, err := s.catalogRepo.ListPartTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing part types")
	}

	description := ""
	if fields.Description != nil {
		description = *fields.Description
	}
	raw, err := s.extractor.ClassifyPartType(ctx, fields.PartName, description, types)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeExtraction, err, "unable to categorize part type")
	}

	id, err := strconv.ParseInt(strings.TrimSpace(stripFences(raw)), 10, 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to categorize part type")
	}
	partType, err := s.catalogRepo.FindPartTypeByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to categorize part type")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading part type")
	}
	return partType, nil
}

// stripFences removes a markdown code fence the model sometimes wraps around
// its answer despite the prompt.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
