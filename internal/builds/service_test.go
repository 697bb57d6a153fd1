package builds

import (
	"context"
	"testing"

	"github.com/gearboxapp/gearbox-backend/internal/parts"
	"github.com/gearboxapp/gearbox-backend/internal/vehicles"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"github.com/gearboxapp/gearbox-backend/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	owner    = &models.User{ID: 1, Username: "alice"}
	stranger = &models.User{ID: 2, Username: "bob"}
)

func setupBuildService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Vehicle{}, &models.Build{}, &models.BuildPart{},
		&models.Brand{}, &models.PartType{}, &models.Part{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := conn.Create(&models.Vehicle{ID: 1, Make: "Mazda", Model: "MX-5", Year: 1999}).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(conn),
		VehicleRepo: vehicles.NewRepository(conn),
		PartRepo:    parts.NewRepository(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func seedPart(t *testing.T, conn *gorm.DB) *models.Part {
	t.Helper()
	part := &models.Part{BrandID: 1, PartTypeID: 1, SubmittedBy: owner.ID, Name: "coilovers"}
	if err := conn.Create(part).Error; err != nil {
		t.Fatalf("seed part: %v", err)
	}
	return part
}

func wantCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestCreateRequiresVehicle(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupBuildService(t)

	_, err := svc.Create(ctx, owner, CreateBuildInput{VehicleID: 99})
	wantCode(t, err, pkgerrors.CodeNotFound)

	build, err := svc.Create(ctx, owner, CreateBuildInput{VehicleID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if build.UserID != owner.ID || build.VehicleID != 1 {
		t.Fatalf("unexpected build %+v", build)
	}
}

func TestOnlyOwnerCanModify(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupBuildService(t)
	build, err := svc.Create(ctx, owner, CreateBuildInput{VehicleID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	nick := "weekend toy"
	_, err = svc.Update(ctx, stranger, build.ID, UpdateBuildInput{Nickname: &nick})
	wantCode(t, err, pkgerrors.CodeForbidden)

	err = svc.Delete(ctx, stranger, build.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)

	updated, err := svc.Update(ctx, owner, build.ID, UpdateBuildInput{Nickname: &nick})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Nickname == nil || *updated.Nickname != nick {
		t.Fatalf("unexpected nickname %+v", updated.Nickname)
	}
}

func TestAddAndRemovePart(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupBuildService(t)
	build, err := svc.Create(ctx, owner, CreateBuildInput{VehicleID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	part := seedPart(t, conn)

	if err := svc.AddPart(ctx, owner, build.ID, part.ID); err != nil {
		t.Fatalf("add part: %v", err)
	}

	// second add changes nothing
	err = svc.AddPart(ctx, owner, build.ID, part.ID)
	wantCode(t, err, pkgerrors.CodeConflict)

	rows, err := svc.Parts(ctx, build.ID, pagination.Params{})
	if err != nil || len(rows) != 1 || rows[0].ID != part.ID {
		t.Fatalf("unexpected parts %+v (%v)", rows, err)
	}

	if err := svc.RemovePart(ctx, owner, build.ID, part.ID); err != nil {
		t.Fatalf("remove part: %v", err)
	}
	err = svc.RemovePart(ctx, owner, build.ID, part.ID)
	wantCode(t, err, pkgerrors.CodeNotFound)
}

func TestNonOwnerCannotTouchPartList(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupBuildService(t)
	build, err := svc.Create(ctx, owner, CreateBuildInput{VehicleID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	part := seedPart(t, conn)

	err = svc.AddPart(ctx, stranger, build.ID, part.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)

	if err := svc.AddPart(ctx, owner, build.ID, part.ID); err != nil {
		t.Fatalf("add part: %v", err)
	}
	err = svc.RemovePart(ctx, stranger, build.ID, part.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)

	rows, err := svc.Parts(ctx, build.ID, pagination.Params{})
	if err != nil || len(rows) != 1 {
		t.Fatalf("part list should be untouched, got %+v (%v)", rows, err)
	}
}

func TestMissingBuildBeatsOwnership(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupBuildService(t)
	part := seedPart(t, conn)

	// a missing build is 404 for everyone, never 403
	err := svc.AddPart(ctx, stranger, 999, part.ID)
	wantCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Get(ctx, 999)
	wantCode(t, err, pkgerrors.CodeNotFound)
}

func TestAddMissingPartIs404(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupBuildService(t)
	build, err := svc.Create(ctx, owner, CreateBuildInput{VehicleID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.AddPart(ctx, owner, build.ID, 999)
	wantCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteRemovesMemberships(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupBuildService(t)
	build, err := svc.Create(ctx, owner, CreateBuildInput{VehicleID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	part := seedPart(t, conn)
	if err := svc.AddPart(ctx, owner, build.ID, part.ID); err != nil {
		t.Fatalf("add part: %v", err)
	}

	if err := svc.Delete(ctx, owner, build.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var leftover int64
	if err := conn.Model(&models.BuildPart{}).Where("build_id = ?", build.ID).Count(&leftover).Error; err != nil {
		t.Fatalf("count build parts: %v", err)
	}
	if leftover != 0 {
		t.Fatalf("expected memberships gone, found %d", leftover)
	}
}
