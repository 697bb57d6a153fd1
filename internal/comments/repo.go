package comments

import (
	"context"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates comment persistence.
type Repository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64, p pagination.Params) ([]models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository binds the comment repository to a gorm connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *gormRepository) ListByPost(ctx context.Context, postID int64, p pagination.Params) ([]models.Comment, error) {
	p = p.Normalize(pagination.MaxLimit)
	var rows []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
