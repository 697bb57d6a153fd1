package comments

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/gearboxapp/gearbox-backend/internal/guard"
	"github.com/gearboxapp/gearbox-backend/internal/posts"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the comment service.
type ServiceParams struct {
	Repo     Repository
	PostRepo posts.Repository
}

// CreateCommentInput is the POST /comments payload.
type CreateCommentInput struct {
	PostID int64  `json:"post_id" validate:"required"`
	Body   string `json:"comment" validate:"required"`
}

// Service owns comment creation, listing, and deletion. Comments are
// create-once; there is no edit path.
type Service interface {
	Create(ctx context.Context, actor *models.User, input CreateCommentInput) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64, p pagination.Params) ([]models.Comment, error)
	Delete(ctx context.Context, actor *models.User, commentID int64) error
}

type service struct {
	repo     Repository
	postRepo posts.Repository
}

// NewService builds a comment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment repo is required")
	}
	if params.PostRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post repo is required")
	}
	return &service{repo: params.Repo, postRepo: params.PostRepo}, nil
}

func (s *service) Create(ctx context.Context, actor *models.User, input CreateCommentInput) (*models.Comment, error) {
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment body is required")
	}
	if err := s.ensurePost(ctx, input.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: input.PostID,
		UserID: actor.ID,
		Body:   strings.TrimSpace(input.Body),
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating comment")
	}
	return comment, nil
}

// ListByPost 404s only when the parent post is missing; a post with no
// comments is an empty list.
func (s *service) ListByPost(ctx context.Context, postID int64, p pagination.Params) ([]models.Comment, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByPost(ctx, postID, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing comments")
	}
	return rows, nil
}

func (s *service) Delete(ctx context.Context, actor *models.User, commentID int64) error {
	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "comment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading comment")
	}
	if err := guard.Authorize(actor, guard.Resource{Kind: guard.KindComment, OwnerID: comment.UserID}, guard.ActionDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, comment.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting comment")
	}
	return nil
}

func (s *service) ensurePost(ctx context.Context, postID int64) error {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "post not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading post")
	}
	return nil
}
