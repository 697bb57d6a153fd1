package follows

import (
	"context"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates follow-edge persistence.
type Repository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID int64) (bool, error)
	ListFollowers(ctx context.Context, userID int64, p pagination.Params) ([]models.Follow, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	ListFollowing(ctx context.Context, userID int64, p pagination.Params) ([]models.Follow, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository binds the follow repository to a gorm connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *gormRepository) Delete(ctx context.Context, followerID, followingID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormRepository) ListFollowers(ctx context.Context, userID int64, p pagination.Params) ([]models.Follow, error) {
	p = p.Normalize(pagination.MaxLimit)
	var rows []models.Follow
	err := r.db.WithContext(ctx).
		Where("following_id = ?", userID).
		Order("followed_at DESC").
		Order("follower_id DESC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) ListFollowing(ctx context.Context, userID int64, p pagination.Params) ([]models.Follow, error) {
	p = p.Normalize(pagination.MaxLimit)
	var rows []models.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Order("followed_at DESC").
		Order("following_id DESC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}
