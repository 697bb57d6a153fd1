package vehicles

import (
	"context"
	"testing"

	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupVehicleService(t *testing.T, seed []models.Vehicle) Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Vehicle{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if len(seed) > 0 {
		if err := conn.Create(&seed).Error; err != nil {
			t.Fatalf("seeding vehicles: %v", err)
		}
	}
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func catalogSeed() []models.Vehicle {
	return []models.Vehicle{
		{Make: "Honda", Model: "Civic", Year: 2004},
		{Make: "Honda", Model: "S2000", Year: 2004},
		{Make: "Mazda", Model: "Miata", Year: 1999},
		{Make: "Mazda", Model: "Miata", Year: 2004},
		{Make: "Subaru", Model: "WRX", Year: 2015},
	}
}

func wantErrCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestYearsDescending(t *testing.T) {
	ctx := context.Background()
	svc := setupVehicleService(t, catalogSeed())

	years, err := svc.Years(ctx)
	if err != nil {
		t.Fatalf("years: %v", err)
	}
	want := []int{2015, 2004, 1999}
	if len(years) != len(want) {
		t.Fatalf("expected %v, got %v", want, years)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, years)
		}
	}
}

func TestYearsEmptyCatalogIsNotFound(t *testing.T) {
	svc := setupVehicleService(t, nil)
	_, err := svc.Years(context.Background())
	wantErrCode(t, err, pkgerrors.CodeNotFound)
}

func TestMakesForYearAscending(t *testing.T) {
	ctx := context.Background()
	svc := setupVehicleService(t, catalogSeed())

	makes, err := svc.Makes(ctx, 2004)
	if err != nil {
		t.Fatalf("makes: %v", err)
	}
	if len(makes) != 2 || makes[0] != "Honda" || makes[1] != "Mazda" {
		t.Fatalf("unexpected makes %v", makes)
	}

	_, err = svc.Makes(ctx, 1950)
	wantErrCode(t, err, pkgerrors.CodeNotFound)
}

func TestModelsForYearAndMake(t *testing.T) {
	ctx := context.Background()
	svc := setupVehicleService(t, catalogSeed())

	rows, err := svc.Models(ctx, 2004, "Honda")
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if len(rows) != 2 || rows[0].Model != "Civic" || rows[1].Model != "S2000" {
		t.Fatalf("unexpected models %+v", rows)
	}

	_, err = svc.Models(ctx, 2004, "Lada")
	wantErrCode(t, err, pkgerrors.CodeNotFound)
}

func TestSuggestMatchesSubstringCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc := setupVehicleService(t, catalogSeed())

	rows, err := svc.Suggest(ctx, "mIaT", nil, pagination.Params{})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both Miata years, got %+v", rows)
	}
	if rows[0].Year != 2004 || rows[1].Year != 1999 {
		t.Fatalf("expected newest first, got %+v", rows)
	}

	year := 1999
	rows, err = svc.Suggest(ctx, "miata", &year, pagination.Params{})
	if err != nil {
		t.Fatalf("suggest with year: %v", err)
	}
	if len(rows) != 1 || rows[0].Year != 1999 {
		t.Fatalf("unexpected year-pinned result %+v", rows)
	}

	// no match is an empty list, not an error
	rows, err = svc.Suggest(ctx, "zzz", nil, pagination.Params{})
	if err != nil || len(rows) != 0 {
		t.Fatalf("expected empty result, got %v %v", rows, err)
	}
}

func TestCreateVehicleConflictOnDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := setupVehicleService(t, catalogSeed())

	created, err := svc.Create(ctx, CreateVehicleInput{Make: "Nissan", Model: "350Z", Year: 2004})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	_, err = svc.Create(ctx, CreateVehicleInput{Make: "Nissan", Model: "350Z", Year: 2004})
	wantErrCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.Create(ctx, CreateVehicleInput{Make: "", Model: "350Z", Year: 2004})
	wantErrCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateVehicleInput{Make: "Nissan", Model: "350Z", Year: 1600})
	wantErrCode(t, err, pkgerrors.CodeValidation)
}
