package users

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/gearboxapp/gearbox-backend/internal/guard"
	"github.com/gearboxapp/gearbox-backend/internal/identity"
	"github.com/gearboxapp/gearbox-backend/pkg/db"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

const maxUsernameLen = 30

// ServiceParams groups dependencies for the user service.
type ServiceParams struct {
	Repo        Repository
	Identity    identity.Provider
	AdminEmails map[string]struct{}
	Logger      *logger.Logger
}

// Service owns account lifecycle: signup, session resolution, profile edits,
// and the delete cascade.
type Service interface {
	Signup(ctx context.Context, bearer, username string) (*models.User, error)
	ResolveBySubject(ctx context.Context, subject string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	CheckUsername(ctx context.Context, username string) error
	UpdateProfile(ctx context.Context, actor *models.User, input UpdateProfileInput) (*models.User, error)
	Delete(ctx context.Context, actor *models.User, targetID int64) error
	Logout(ctx context.Context, subject string) error

	ListAll(ctx context.Context, p pagination.Params) ([]models.User, error)
	DeleteByUsername(ctx context.Context, actor *models.User, username string) error
	SetActiveByUsername(ctx context.Context, username string, active bool) error
}

type service struct {
	repo        Repository
	identity    identity.Provider
	adminEmails map[string]struct{}
	logg        *logger.Logger
}

// NewService builds a user service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity provider is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.AdminEmails == nil {
		params.AdminEmails = map[string]struct{}{}
	}
	return &service{
		repo:        params.Repo,
		identity:    params.Identity,
		adminEmails: params.AdminEmails,
		logg:        params.Logger,
	}, nil
}

// Signup registers a local account for a verified identity. The username
// check runs before any identity work so a duplicate never touches the
// provider.
func (s *service) Signup(ctx context.Context, bearer, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking username")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username is already taken")
	}

	claims, err := s.identity.VerifyToken(ctx, bearer)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBySubject(ctx, claims.Subject); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already exists")
	} else if !stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking existing subject")
	}

	_, isAdmin := s.adminEmails[strings.ToLower(claims.Email)]

	user := &models.User{
		Subject:  claims.Subject,
		Username: username,
		Email:    claims.Email,
		IsAdmin:  isAdmin,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// lost the race on username or subject
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username is already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}
	return user, nil
}

// ResolveBySubject maps verified cookie claims to the local account. A valid
// cookie without a row means signup never finished, which surfaces as 404
// rather than 401.
func (s *service) ResolveBySubject(ctx context.Context, subject string) (*models.User, error) {
	user, err := s.repo.FindBySubject(ctx, subject)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	if user.IsDisabled {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}
	return user, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

func (s *service) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

func (s *service) CheckUsername(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return err
	}
	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking username")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "username is already taken")
	}
	return nil
}

func (s *service) UpdateProfile(ctx context.Context, actor *models.User, input UpdateProfileInput) (*models.User, error) {
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := guard.Authorize(actor, guard.Resource{Kind: guard.KindUser, OwnerID: actor.ID}, guard.ActionWrite); err != nil {
		return nil, err
	}

	if input.Username != nil {
		next := strings.TrimSpace(*input.Username)
		if next != actor.Username {
			if err := validateUsername(next); err != nil {
				return nil, err
			}
			taken, err := s.repo.UsernameExists(ctx, next)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking username")
			}
			if taken {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "username is already taken")
			}
			actor.Username = next
		}
	}
	if input.Bio != nil {
		actor.Bio = *input.Bio
	}
	if input.ProfilePicURL != nil {
		actor.ProfilePicURL = *input.ProfilePicURL
	}

	if err := s.repo.Save(ctx, actor); err != nil {
		if db.IsUniqueViolation(err, "users_username_key") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username is already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving user")
	}
	return actor, nil
}

// Delete removes the target account and everything owned by it. The identity
// provider is told after the local transaction commits; if that call fails
// the subject can no longer resolve a user anyway, so we log and move on.
func (s *service) Delete(ctx context.Context, actor *models.User, targetID int64) error {
	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	if err := guard.Authorize(actor, guard.Resource{Kind: guard.KindUser, OwnerID: target.ID}, guard.ActionDelete); err != nil {
		return err
	}

	if err := s.repo.DeleteCascade(ctx, target.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting user")
	}

	if err := s.identity.DeleteSubject(ctx, target.Subject); err != nil {
		s.logg.Error(s.logg.WithSubject(ctx, target.Subject), "identity cleanup after user delete failed", err)
	}
	return nil
}

func (s *service) Logout(ctx context.Context, subject string) error {
	return s.identity.RevokeSessions(ctx, subject)
}

func (s *service) ListAll(ctx context.Context, p pagination.Params) ([]models.User, error) {
	list, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing users")
	}
	return list, nil
}

func (s *service) DeleteByUsername(ctx context.Context, actor *models.User, username string) error {
	target, err := s.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.Delete(ctx, actor, target.ID)
}

// SetActiveByUsername flips the disabled flag locally and at the identity
// provider. Deactivation also revokes live sessions so the lockout is
// immediate.
func (s *service) SetActiveByUsername(ctx context.Context, username string, active bool) error {
	target, err := s.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.repo.SetDisabled(ctx, target.ID, !active); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating disabled flag")
	}
	if err := s.identity.SetDisabled(ctx, target.Subject, !active); err != nil {
		return err
	}
	if !active {
		if err := s.identity.RevokeSessions(ctx, target.Subject); err != nil {
			return err
		}
	}
	return nil
}

func validateUsername(username string) error {
	if username == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if len(username) > maxUsernameLen {
		return pkgerrors.New(pkgerrors.CodeValidation, "username is too long")
	}
	return nil
}
