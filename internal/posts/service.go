package posts

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/gearboxapp/gearbox-backend/internal/guard"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the post service.
type ServiceParams struct {
	Repo Repository
}

// CreatePostInput is the POST /posts payload. Every post carries an image;
// the caption is optional.
type CreatePostInput struct {
	ImageURL string  `json:"image_url" validate:"required,url"`
	Caption  *string `json:"caption"`
}

// UpdatePostInput edits the caption only; the image is immutable.
type UpdatePostInput struct {
	Caption *string `json:"caption"`
}

// Service owns the post lifecycle.
type Service interface {
	Create(ctx context.Context, actor *models.User, input CreatePostInput) (*models.Post, error)
	Get(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, p pagination.Params) ([]models.Post, error)
	ListByUser(ctx context.Context, userID int64, p pagination.Params) ([]models.Post, error)
	Update(ctx context.Context, actor *models.User, id int64, input UpdatePostInput) (*models.Post, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
	AdminDelete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

// NewService builds a post service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post repo is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, actor *models.User, input CreatePostInput) (*models.Post, error) {
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_url is required")
	}

	post := &models.Post{
		UserID:   actor.ID,
		ImageURL: strings.TrimSpace(input.ImageURL),
		Caption:  input.Caption,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating post")
	}
	return post, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Post, error) {
	return s.find(ctx, id)
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]models.Post, error) {
	rows, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing posts")
	}
	return rows, nil
}

func (s *service) ListByUser(ctx context.Context, userID int64, p pagination.Params) ([]models.Post, error) {
	rows, err := s.repo.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing posts")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, actor *models.User, id int64, input UpdatePostInput) (*models.Post, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(actor, guard.Resource{Kind: guard.KindPost, OwnerID: post.UserID}, guard.ActionWrite); err != nil {
		return nil, err
	}

	if input.Caption == nil {
		return post, nil
	}
	post.Caption = input.Caption
	now := time.Now().UTC()
	post.EditedAt = &now

	if err := s.repo.Save(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving post")
	}
	return post, nil
}

func (s *service) Delete(ctx context.Context, actor *models.User, id int64) error {
	post, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := guard.Authorize(actor, guard.Resource{Kind: guard.KindPost, OwnerID: post.UserID}, guard.ActionDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting post")
	}
	return nil
}

// AdminDelete skips the ownership guard; the admin surface is gated by
// middleware before it reaches here.
func (s *service) AdminDelete(ctx context.Context, id int64) error {
	post, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, post.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting post")
	}
	return nil
}

func (s *service) find(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading post")
	}
	return post, nil
}
