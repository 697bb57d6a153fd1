package partlink

import (
	"context"
	"testing"

	"github.com/gearboxapp/gearbox-backend/internal/catalog"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	pkgerrors "github.com/gearboxapp/gearbox-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var actor = &models.User{ID: 1, Username: "alice"}

type fakeFetcher struct {
	text string
	err  error
}

func (f *fakeFetcher) Fetch(context.Context, string) (string, error) {
	return f.text, f.err
}

type fakeExtractor struct {
	fields   string
	partType string
	err      error
}

func (f *fakeExtractor) ExtractFields(context.Context, string) (string, error) {
	return f.fields, f.err
}

func (f *fakeExtractor) ClassifyPartType(context.Context, string, string, []models.PartType) (string, error) {
	return f.partType, f.err
}

func setupService(t *testing.T, fetcher Fetcher, extractor Extractor) Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Brand{}, &models.PartType{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := conn.Create(&models.Brand{ID: 1, Name: "Brembo"}).Error; err != nil {
		t.Fatalf("seed brand: %v", err)
	}
	if err := conn.Create(&models.PartType{ID: 3, Name: "Brakes"}).Error; err != nil {
		t.Fatalf("seed part type: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Fetcher:     fetcher,
		Extractor:   extractor,
		CatalogRepo: catalog.NewRepository(conn),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func wantCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestExtractFromURLHappyPath(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t,
		&fakeFetcher{text: "Brembo GT Big Brake Kit product page"},
		&fakeExtractor{
			// fenced output is tolerated
			fields:   "```json\n{\"brand\": \"brembo\", \"part_name\": \"GT Big Brake Kit\", \"part_number\": \"1A1.8001A\", \"image_url\": null, \"description\": \"Six piston calipers.\"}\n```",
			partType: " 3 ",
		},
	)

	draft, err := svc.ExtractFromURL(ctx, actor, "https://shop.example/brembo-gt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if draft.BrandID != 1 || draft.BrandName != "Brembo" {
		t.Fatalf("unexpected brand %+v", draft)
	}
	if draft.PartTypeID != 3 || draft.PartName != "GT Big Brake Kit" {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if draft.PartNumber == nil || *draft.PartNumber != "1A1.8001A" {
		t.Fatalf("unexpected part number %+v", draft.PartNumber)
	}
}

func TestFetchFailureIsFetchError(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t,
		&fakeFetcher{err: pkgerrors.New(pkgerrors.CodeFetch, "unable to fetch page")},
		&fakeExtractor{},
	)

	_, err := svc.ExtractFromURL(ctx, actor, "https://shop.example/dead-link")
	wantCode(t, err, pkgerrors.CodeFetch)
}

func TestInvalidURLRejected(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t, &fakeFetcher{text: "x"}, &fakeExtractor{})

	for _, raw := range []string{"", "not a url", "ftp://files.example/part"} {
		_, err := svc.ExtractFromURL(ctx, actor, raw)
		wantCode(t, err, pkgerrors.CodeValidation)
	}
}

func TestMalformedModelOutputIsExtractionError(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t,
		&fakeFetcher{text: "page"},
		&fakeExtractor{fields: "I could not find any part on this page, sorry!"},
	)

	_, err := svc.ExtractFromURL(ctx, actor, "https://shop.example/p")
	wantCode(t, err, pkgerrors.CodeExtraction)
}

func TestUnknownBrandIs404(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t,
		&fakeFetcher{text: "page"},
		&fakeExtractor{fields: `{"brand": "AcmeRacing", "part_name": "Widget"}`},
	)

	_, err := svc.ExtractFromURL(ctx, actor, "https://shop.example/p")
	wantCode(t, err, pkgerrors.CodeNotFound)
}

func TestUnparseableCategoryIsValidationError(t *testing.T) {
	ctx := context.Background()

	// non-integer answer
	svc := setupService(t,
		&fakeFetcher{text: "page"},
		&fakeExtractor{fields: `{"brand": "Brembo", "part_name": "GT kit"}`, partType: "Brakes"},
	)
	_, err := svc.ExtractFromURL(ctx, actor, "https://shop.example/p")
	wantCode(t, err, pkgerrors.CodeValidation)

	// integer that names no seeded category
	svc = setupService(t,
		&fakeFetcher{text: "page"},
		&fakeExtractor{fields: `{"brand": "Brembo", "part_name": "GT kit"}`, partType: "42"},
	)
	_, err = svc.ExtractFromURL(ctx, actor, "https://shop.example/p")
	wantCode(t, err, pkgerrors.CodeValidation)
}

func TestAnonymousCallerRejected(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t, &fakeFetcher{text: "page"}, &fakeExtractor{})

	_, err := svc.ExtractFromURL(ctx, nil, "https://shop.example/p")
	wantCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n7\n```":             "7",
		`{"a":1}`:                 `{"a":1}`,
		"  7  ":                   "7",
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Fatalf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
