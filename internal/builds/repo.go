package builds

import (
	"context"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates build and build-part persistence.
type Repository interface {
	Create(ctx context.Context, build *models.Build) error
	FindByID(ctx context.Context, id int64) (*models.Build, error)
	ListByUser(ctx context.Context, userID int64, p pagination.Params) ([]models.Build, error)
	Save(ctx context.Context, build *models.Build) error
	Delete(ctx context.Context, id int64) error
	AddPart(ctx context.Context, buildID, partID int64) error
	RemovePart(ctx context.Context, buildID, partID int64) (bool, error)
	ListParts(ctx context.Context, buildID int64, p pagination.Params) ([]models.Part, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository binds the build repository to a gorm connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, build *models.Build) error {
	return r.db.WithContext(ctx).Create(build).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*models.Build, error) {
	var build models.Build
	if err := r.db.WithContext(ctx).First(&build, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &build, nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID int64, p pagination.Params) ([]models.Build, error) {
	p = p.Normalize(pagination.MaxLimit)
	var rows []models.Build
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) Save(ctx context.Context, build *models.Build) error {
	return r.db.WithContext(ctx).Save(build).Error
}

// Delete removes the build and its part memberships in one transaction.
func (r *gormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("build_id = ?", id).Delete(&models.BuildPart{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Build{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *gormRepository) AddPart(ctx context.Context, buildID, partID int64) error {
	return r.db.WithContext(ctx).
		Create(&models.BuildPart{BuildID: buildID, PartID: partID}).Error
}

func (r *gormRepository) RemovePart(ctx context.Context, buildID, partID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("build_id = ? AND part_id = ?", buildID, partID).
		Delete(&models.BuildPart{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormRepository) ListParts(ctx context.Context, buildID int64, p pagination.Params) ([]models.Part, error) {
	p = p.Normalize(pagination.MaxLimit)
	var rows []models.Part
	err := r.db.WithContext(ctx).
		Model(&models.Part{}).
		Joins("JOIN build_parts ON build_parts.part_id = parts.id").
		Where("build_parts.build_id = ?", buildID).
		Order("parts.id ASC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&rows).Error
	return rows, err
}
