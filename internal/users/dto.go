package users

import (
	"time"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
)

// ProfileDTO is the public view of a user; Subject and Email never leave the
// server through this shape.
type ProfileDTO struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Bio           string    `json:"bio"`
	ProfilePicURL string    `json:"profile_pic_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// AccountDTO is the self/admin view that additionally exposes email and
// account flags.
type AccountDTO struct {
	ProfileDTO
	Email      string `json:"email"`
	IsAdmin    bool   `json:"is_admin"`
	IsDisabled bool   `json:"is_disabled"`
}

// UpdateProfileInput carries the PATCH /users/me fields; nil means unchanged.
type UpdateProfileInput struct {
	Username      *string `json:"username"`
	Bio           *string `json:"bio"`
	ProfilePicURL *string `json:"profile_pic_url"`
}

// ToProfileDTO projects the public fields.
func ToProfileDTO(user *models.User) ProfileDTO {
	return ProfileDTO{
		ID:            user.ID,
		Username:      user.Username,
		Bio:           user.Bio,
		ProfilePicURL: user.ProfilePicURL,
		CreatedAt:     user.CreatedAt,
	}
}

// ToAccountDTO projects the owner-visible fields.
func ToAccountDTO(user *models.User) AccountDTO {
	return AccountDTO{
		ProfileDTO: ToProfileDTO(user),
		Email:      user.Email,
		IsAdmin:    user.IsAdmin,
		IsDisabled: user.IsDisabled,
	}
}
