package catalog

import (
	"context"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes the brand and part-type reference tables. Both are
// seeded at boot and grow only through the seed files, so there is no write
// surface here.
type Repository interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	FindBrandByID(ctx context.Context, id int64) (*models.Brand, error)
	FindBrandByName(ctx context.Context, name string) (*models.Brand, error)
	ListPartTypes(ctx context.Context) ([]models.PartType, error)
	FindPartTypeByID(ctx context.Context, id int64) (*models.PartType, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository binds the catalog repository to a gorm connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error
	return brands, err
}

func (r *gormRepository) FindBrandByID(ctx context.Context, id int64) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// FindBrandByName matches case-insensitively; the extraction pipeline hands
// us whatever casing the source page used.
func (r *gormRepository) FindBrandByName(ctx context.Context, name string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *gormRepository) ListPartTypes(ctx context.Context) ([]models.PartType, error) {
	var types []models.PartType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *gormRepository) FindPartTypeByID(ctx context.Context, id int64) (*models.PartType, error) {
	var pt models.PartType
	if err := r.db.WithContext(ctx).First(&pt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pt, nil
}
