package likes

import (
	"context"
	stdErrors "errors"

	"github.com/gearboxapp/gearbox-backend/internal/posts"
	"github.com/gearboxapp/gearbox-backend/pkg/db"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the like service.
type ServiceParams struct {
	Repo     Repository
	PostRepo posts.Repository
}

// Service owns like/unlike plus the public like queries. Unlike is the only
// mutation the guard table defines for likes and it is always scoped to the
// actor's own row, so ownership never needs an explicit check here.
type Service interface {
	Like(ctx context.Context, actor *models.User, postID int64) (*models.Like, error)
	Unlike(ctx context.Context, actor *models.User, postID int64) error
	ListForPost(ctx context.Context, postID int64, p pagination.Params) ([]models.Like, error)
	CountForPost(ctx context.Context, postID int64) (int64, error)
}

type service struct {
	repo     Repository
	postRepo posts.Repository
}

// NewService builds a like service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "like repo is required")
	}
	if params.PostRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post repo is required")
	}
	return &service{repo: params.Repo, postRepo: params.PostRepo}, nil
}

// Like inserts the (post, user) row and lets the primary key settle races:
// a duplicate insert is a Conflict no matter which request got there first.
func (s *service) Like(ctx context.Context, actor *models.User, postID int64) (*models.Like, error) {
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	like := &models.Like{PostID: postID, UserID: actor.ID}
	if err := s.repo.Create(ctx, like); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "post already liked")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating like")
	}
	return like, nil
}

func (s *service) Unlike(ctx context.Context, actor *models.User, postID int64) error {
	if actor == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.ensurePost(ctx, postID); err != nil {
		return err
	}

	removed, err := s.repo.Delete(ctx, postID, actor.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting like")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "like does not exist")
	}
	return nil
}

func (s *service) ListForPost(ctx context.Context, postID int64, p pagination.Params) ([]models.Like, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListForPost(ctx, postID, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing likes")
	}
	return rows, nil
}

func (s *service) CountForPost(ctx context.Context, postID int64) (int64, error) {
	if err := s.ensurePost(ctx, postID); err != nil {
		return 0, err
	}
	count, err := s.repo.CountForPost(ctx, postID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting likes")
	}
	return count, nil
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
