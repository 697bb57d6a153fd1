package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Brand{}, &models.PartType{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	seed := []models.Brand{{Name: "Borla"}, {Name: "HKS"}, {Name: "APR"}}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed brands: %v", err)
	}
	types := []models.PartType{{Name: "Exhaust"}, {Name: "Intake"}}
	if err := db.Create(&types).Error; err != nil {
		t.Fatalf("seed part types: %v", err)
	}
	return db
}

func TestFindBrandByNameIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupCatalogTestDB(t))

	for _, name := range []string{"borla", "BORLA", "Borla"} {
		brand, err := repo.FindBrandByName(ctx, name)
		if err != nil {
			t.Fatalf("lookup %q failed: %v", name, err)
		}
		if brand.Name != "Borla" {
			t.Fatalf("lookup %q returned %q", name, brand.Name)
		}
	}

	_, err := repo.FindBrandByName(ctx, "nonexistent")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

func TestListBrandsOrderedByName(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupCatalogTestDB(t))

	brands, err := repo.ListBrands(ctx)
	if err != nil {
		t.Fatalf("list brands: %v", err)
	}
	if len(brands) != 3 {
		t.Fatalf("expected 3 brands, got %d", len(brands))
	}
	if brands[0].Name != "APR" || brands[2].Name != "HKS" {
		t.Fatalf("unexpected order: %+v", brands)
	}
}

func TestFindPartTypeByID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupCatalogTestDB(t))

	types, err := repo.ListPartTypes(ctx)
	if err != nil {
		t.Fatalf("list part types: %v", err)
	}
	if len(types) != 2 {
		t.Fatalf("expected 2 part types, got %d", len(types))
	}

	pt, err := repo.FindPartTypeByID(ctx, types[0].ID)
	if err != nil {
		t.Fatalf("find part type: %v", err)
	}
	if pt.Name != types[0].Name {
		t.Fatalf("expected %q, got %q", types[0].Name, pt.Name)
	}

	if _, err := repo.FindPartTypeByID(ctx, 9999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}
