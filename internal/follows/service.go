package follows

import (
	"context"
	stdErrors "errors"

	"github.com/gearboxapp/gearbox-backend/internal/users"
	"github.com/gearboxapp/gearbox-backend/pkg/db"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// ServiceParams groups dependencies for the follow service.
type ServiceParams struct {
	Repo     Repository
	UserRepo users.Repository
}

// Service owns the directed follow graph. Self-follow is malformed input,
// not an authorization problem, and is rejected before any edge lookup.
type Service interface {
	Follow(ctx context.Context, actor *models.User, targetID int64) (*models.Follow, error)
	Unfollow(ctx context.Context, actor *models.User, targetID int64) error
	Followers(ctx context.Context, userID int64, p pagination.Params) ([]models.Follow, error)
	FollowerCount(ctx context.Context, userID int64) (int64, error)
	Following(ctx context.Context, userID int64, p pagination.Params) ([]models.Follow, error)
	FollowingCount(ctx context.Context, userID int64) (int64, error)
}

type service struct {
	repo     Repository
	userRepo users.Repository
}

// NewService builds a follow service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "follow repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{repo: params.Repo, userRepo: params.UserRepo}, nil
}

func (s *service) Follow(ctx context.Context, actor *models.User, targetID int64) (*models.Follow, error) {
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.ID == targetID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "you cannot follow yourself")
	}
	if err := s.ensureUser(ctx, targetID); err != nil {
		return nil, err
	}

	follow := &models.Follow{FollowerID: actor.ID, FollowingID: targetID}
	if err := s.repo.Create(ctx, follow); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "you already follow this profile")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating follow")
	}
	return follow, nil
}

func (s *service) Unfollow(ctx context.Context, actor *models.User, targetID int64) error {
	if actor == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.ID == targetID {
		return pkgerrors.New(pkgerrors.CodeValidation, "you cannot unfollow yourself")
	}
	if err := s.ensureUser(ctx, targetID); err != nil {
		return err
	}

	removed, err := s.repo.Delete(ctx, actor.ID, targetID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting follow")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "you do not follow this user")
	}
	return nil
}

func (s *service) Followers(ctx context.Context, userID int64, p pagination.Params) ([]models.Follow, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListFollowers(ctx, userID, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing followers")
	}
	return rows, nil
}

func (s *service) FollowerCount(ctx context.Context, userID int64) (int64, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return 0, err
	}
	count, err := s.repo.CountFollowers(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting followers")
	}
	return count, nil
}

func (s *service) Following(ctx context.Context, userID int64, p pagination.Params) ([]models.Follow, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListFollowing(ctx, userID, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing following")
	}
	return rows, nil
}

func (s *service) FollowingCount(ctx context.Context, userID int64) (int64, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return 0, err
	}
	count, err := s.repo.CountFollowing(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting following")
	}
	return count, nil
}

func (s *service) ensureUser(ctx context.Context, userID int64) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return nil
}
