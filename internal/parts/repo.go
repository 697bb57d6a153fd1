package parts

import (
	"context"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates part catalog persistence.
type Repository interface {
	Create(ctx context.Context, part *models.Part) error
	FindByID(ctx context.Context, id int64) (*models.Part, error)
	List(ctx context.Context, p pagination.Params) ([]models.Part, error)
	Save(ctx context.Context, part *models.Part) error
	Delete(ctx context.Context, id int64) error
	SetVerified(ctx context.Context, id int64, verified bool) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository binds the part repository to a gorm connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, part *models.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*models.Part, error) {
	var part models.Part
	if err := r.db.WithContext(ctx).First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *gormRepository) List(ctx context.Context, p pagination.Params) ([]models.Part, error) {
	p = p.Normalize(pagination.MaxLimit)
	var rows []models.Part
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Order("id ASC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) Save(ctx context.Context, part *models.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

// Delete removes the part and any build memberships referencing it so the
// catalog never leaves dangling build_parts rows behind.
func (r *gormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("part_id = ?", id).Delete(&models.BuildPart{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Part{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *gormRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ?", id).
		Update("is_verified", verified)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
