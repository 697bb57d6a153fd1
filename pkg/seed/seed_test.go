package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gearboxapp/gearbox-backend/pkg/db"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSeedTestDB(t *testing.T) *db.Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Vehicle{}, &models.Brand{}, &models.PartType{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return db.NewFromConn(conn)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestVehicles_SkipsMalformedRows(t *testing.T) {
	ctx := context.Background()
	client := newSeedTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "seed-test"})

	csvPath := writeFile(t, "vehicles.csv", "make,model,year\nHonda,Civic,2004\nMazda,Miata,notayear\nSubaru,WRX,2015\n,,2020\n")

	if err := Vehicles(ctx, logg, client, csvPath); err != nil {
		t.Fatalf("vehicles seed failed: %v", err)
	}

	var got []models.Vehicle
	if err := client.DB().Order("year").Find(&got).Error; err != nil {
		t.Fatalf("loading vehicles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(got))
	}
	if got[0].Make != "Honda" || got[1].Make != "Subaru" {
		t.Fatalf("unexpected vehicles seeded: %+v", got)
	}
}

func TestVehicles_NoopWhenPopulated(t *testing.T) {
	ctx := context.Background()
	client := newSeedTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "seed-test"})

	if err := client.DB().Create(&models.Vehicle{Make: "Toyota", Model: "Supra", Year: 1998}).Error; err != nil {
		t.Fatalf("preload failed: %v", err)
	}

	csvPath := writeFile(t, "vehicles.csv", "make,model,year\nHonda,Civic,2004\n")
	if err := Vehicles(ctx, logg, client, csvPath); err != nil {
		t.Fatalf("vehicles seed failed: %v", err)
	}

	var count int64
	if err := client.DB().Model(&models.Vehicle{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected populated table to short-circuit, got %d rows", count)
	}
}

func TestBrands_UpsertsByName(t *testing.T) {
	ctx := context.Background()
	client := newSeedTestDB(t)

	path := writeFile(t, "brands.txt", "HKS\nGReddy\n\n# comment\nHKS\n")
	if err := Brands(ctx, client, path); err != nil {
		t.Fatalf("brands seed failed: %v", err)
	}
	if err := Brands(ctx, client, path); err != nil {
		t.Fatalf("brands reseed failed: %v", err)
	}

	var count int64
	if err := client.DB().Model(&models.Brand{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 distinct brands, got %d", count)
	}
}

func TestAdminEmails(t *testing.T) {
	path := writeFile(t, "admins.txt", "Boss@Example.com\nmod@example.com\n")
	emails, err := AdminEmails(path)
	if err != nil {
		t.Fatalf("admin emails load failed: %v", err)
	}
	if _, ok := emails["boss@example.com"]; !ok {
		t.Fatalf("expected lowercased admin email, got %v", emails)
	}
	if len(emails) != 2 {
		t.Fatalf("expected 2 admin emails, got %d", len(emails))
	}

	if _, err := AdminEmails(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for unreadable admin emails file")
	}
}
