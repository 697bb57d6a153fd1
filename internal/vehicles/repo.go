package vehicles

import (
	"context"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository encapsulates vehicle catalog persistence.
type Repository interface {
	Years(ctx context.Context) ([]int, error)
	MakesForYear(ctx context.Context, year int) ([]string, error)
	ModelsForYearMake(ctx context.Context, year int, make string) ([]models.Vehicle, error)
	Search(ctx context.Context, model string, year *int, p pagination.Params) ([]models.Vehicle, error)
	FindByID(ctx context.Context, id int64) (*models.Vehicle, error)
	Create(ctx context.Context, vehicle *models.Vehicle) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository binds the vehicle repository to a gorm connection.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Years(ctx context.Context) ([]int, error) {
	var years []int
	err := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Distinct("year").
		Order("year DESC").
		Pluck("year", &years).Error
	return years, err
}

func (r *gormRepository) MakesForYear(ctx context.Context, year int) ([]string, error) {
	var makes []string
	err := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Distinct("make").
		Where("year = ?", year).
		Order("make ASC").
		Pluck("make", &makes).Error
	return makes, err
}

func (r *gormRepository) ModelsForYearMake(ctx context.Context, year int, make string) ([]models.Vehicle, error) {
	var rows []models.Vehicle
	err := r.db.WithContext(ctx).
		Where("year = ? AND make = ?", year, make).
		Order("model ASC").
		Find(&rows).Error
	return rows, err
}

// Search does a case-insensitive substring match on the model name,
// optionally pinned to a year. Ordering is fixed so paging is stable.
func (r *gormRepository) Search(ctx context.Context, model string, year *int, p pagination.Params) ([]models.Vehicle, error) {
	p = p.Normalize(pagination.SuggestLimit)

	query := r.db.WithContext(ctx).
		Where("LOWER(model) LIKE LOWER(?)", "%"+model+"%")
	if year != nil {
		query = query.Where("year = ?", *year)
	}

	var rows []models.Vehicle
	err := query.
		Order("year DESC").
		Order("make ASC").
		Order("model ASC").
		Order("id ASC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&rows).Error
	return rows, err
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *gormRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}
