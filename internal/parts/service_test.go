package parts

import (
	"context"
	"testing"

	"github.com/gearboxapp/gearbox-backend/internal/catalog"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	submitter = &models.User{ID: 1, Username: "alice"}
	stranger  = &models.User{ID: 2, Username: "bob"}
	admin     = &models.User{ID: 3, Username: "root", IsAdmin: true}
)

func setupPartService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Brand{}, &models.PartType{}, &models.Part{}, &models.BuildPart{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := conn.Create(&models.Brand{ID: 1, Name: "Brembo"}).Error; err != nil {
		t.Fatalf("seed brand: %v", err)
	}
	if err := conn.Create(&models.PartType{ID: 1, Name: "Brakes"}).Error; err != nil {
		t.Fatalf("seed part type: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Repo:        NewRepository(conn),
		CatalogRepo: catalog.NewRepository(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func wantCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestCreateRequiresCatalogRows(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupPartService(t)

	_, err := svc.Create(ctx, submitter, CreatePartInput{BrandID: 99, PartTypeID: 1, Name: "GT kit"})
	wantCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.Create(ctx, submitter, CreatePartInput{BrandID: 1, PartTypeID: 99, Name: "GT kit"})
	wantCode(t, err, pkgerrors.CodeNotFound)

	part, err := svc.Create(ctx, submitter, CreatePartInput{BrandID: 1, PartTypeID: 1, Name: "GT kit"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if part.SubmittedBy != submitter.ID || part.IsVerified {
		t.Fatalf("unexpected part %+v", part)
	}
}

func TestOnlySubmitterCanEdit(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupPartService(t)
	part, err := svc.Create(ctx, submitter, CreatePartInput{BrandID: 1, PartTypeID: 1, Name: "GT kit"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "GT kit v2"
	_, err = svc.Update(ctx, stranger, part.ID, UpdatePartInput{Name: &name})
	wantCode(t, err, pkgerrors.CodeForbidden)

	updated, err := svc.Update(ctx, submitter, part.ID, UpdatePartInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("expected name %q, got %q", name, updated.Name)
	}
}

func TestVerifiedPartCannotBeDeleted(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupPartService(t)
	part, err := svc.Create(ctx, submitter, CreatePartInput{BrandID: 1, PartTypeID: 1, Name: "GT kit"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Verify(ctx, part.ID); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// even the submitter and an admin are refused once verified
	err = svc.Delete(ctx, submitter, part.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)
	err = svc.Delete(ctx, admin, part.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)

	if _, err := svc.Get(ctx, part.ID); err != nil {
		t.Fatalf("part should still exist: %v", err)
	}
}

func TestUnverifiedPartDeletableBySubmitterOnly(t *testing.T) {
	ctx := context.Background()
	svc, conn := setupPartService(t)
	part, err := svc.Create(ctx, submitter, CreatePartInput{BrandID: 1, PartTypeID: 1, Name: "GT kit"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Delete(ctx, stranger, part.ID)
	wantCode(t, err, pkgerrors.CodeForbidden)

	// membership rows go with the part
	if err := conn.Create(&models.BuildPart{BuildID: 7, PartID: part.ID}).Error; err != nil {
		t.Fatalf("seed build part: %v", err)
	}

	if err := svc.Delete(ctx, submitter, part.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = svc.Get(ctx, part.ID)
	wantCode(t, err, pkgerrors.CodeNotFound)

	var leftover int64
	if err := conn.Model(&models.BuildPart{}).Where("part_id = ?", part.ID).Count(&leftover).Error; err != nil {
		t.Fatalf("count build parts: %v", err)
	}
	if leftover != 0 {
		t.Fatalf("expected build_parts rows to be removed, found %d", leftover)
	}
}

func TestVerifyMissingPartIs404(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupPartService(t)
	_, err := svc.Verify(ctx, 999)
	wantCode(t, err, pkgerrors.CodeNotFound)
}
