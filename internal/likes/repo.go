package likes

import (
	"context"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates like persistence. Uniqueness lives in the
// composite primary key; the insert is the existence check.
type Repository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, postID, userID int64) (bool, error)
	ListForPost(ctx context.Context, postID int64, p pagination.Params) ([]models.Like, error)
	CountForPost(ctx context.Context, postID int64) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository binds the like repository to a gorm connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, like *models.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

// Delete reports whether a row was actually removed so the service can 404
// on a like that never existed.
func (r *gormRepository) Delete(ctx context.Context, postID, userID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormRepository) ListForPost(ctx context.Context, postID int64, p pagination.Params) ([]models.Like, error) {
	p = p.Normalize(pagination.MaxLimit)
	var rows []models.Like
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("liked_at DESC").
		Order("user_id DESC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) CountForPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
