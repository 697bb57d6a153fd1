package seed

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gearboxapp/gearbox-backend/pkg/config"
	"github.com/gearboxapp/gearbox-backend/pkg/db"
	"github.com/gearboxapp/gearbox-backend/pkg/db/models"
	"github.com/gearboxapp/gearbox-backend/pkg/logger"
	"gorm.io/gorm/clause"
)

// Run loads the reference catalogs on boot. Vehicles are skipped entirely when
// the table already has rows; brands and part types upsert by name so new
// entries in the files land on redeploy.
func Run(ctx context.Context, cfg config.SeedConfig, logg *logger.Logger, client *db.Client) error {
	if err := Vehicles(ctx, logg, client, cfg.VehiclesCSV); err != nil {
		return fmt.Errorf("seeding vehicles: %w", err)
	}
	if err := Brands(ctx, client, cfg.BrandsFile); err != nil {
		return fmt.Errorf("seeding brands: %w", err)
	}
	if err := PartTypes(ctx, client, cfg.PartTypesFile); err != nil {
		return fmt.Errorf("seeding part types: %w", err)
	}
	return nil
}

// Vehicles populates the vehicle catalog from a CSV with make,model,year
// columns. The source may be a local path or an http(s) URL. Malformed rows
// are logged and skipped; a populated table makes the whole load a no-op.
func Vehicles(ctx context.Context, logg *logger.Logger, client *db.Client, source string) error {
	if source == "" {
		return fmt.Errorf("vehicles csv source is required")
	}

	var count int64
	if err := client.DB().WithContext(ctx).Model(&models.Vehicle{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting vehicles: %w", err)
	}
	if count > 0 {
		logg.Info(ctx, "vehicle catalog already populated, skipping CSV import")
		return nil
	}

	rc, err := openSource(ctx, source)
	if err != nil {
		return err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading csv header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"make", "model", "year"} {
		if _, ok := cols[required]; !ok {
			return fmt.Errorf("csv header missing %q column", required)
		}
	}

	var rows []models.Vehicle
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logg.Warn(ctx, fmt.Sprintf("skipping malformed csv row: %v", err))
			continue
		}
		if len(record) <= cols["make"] || len(record) <= cols["model"] || len(record) <= cols["year"] {
			logg.Warn(ctx, "skipping short csv row")
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(record[cols["year"]]))
		if err != nil {
			logg.Warn(ctx, fmt.Sprintf("skipping row with bad year %q", record[cols["year"]]))
			continue
		}
		mk := strings.TrimSpace(record[cols["make"]])
		model := strings.TrimSpace(record[cols["model"]])
		if mk == "" || model == "" {
			logg.Warn(ctx, "skipping row with empty make or model")
			continue
		}
		rows = append(rows, models.Vehicle{Make: mk, Model: model, Year: year})
	}

	if len(rows) == 0 {
		logg.Warn(ctx, "vehicle csv contained no usable rows")
		return nil
	}

	if err := client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 500).Error; err != nil {
		return fmt.Errorf("inserting vehicles: %w", err)
	}
	logg.Info(ctx, fmt.Sprintf("seeded %d vehicles", len(rows)))
	return nil
}

// Brands loads the brand reference list, one name per line.
func Brands(ctx context.Context, client *db.Client, path string) error {
	names, err := readLines(path)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	rows := make([]models.Brand, 0, len(names))
	for _, name := range names {
		rows = append(rows, models.Brand{Name: name})
	}
	return client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// PartTypes loads the part-type reference list, one name per line.
func PartTypes(ctx context.Context, client *db.Client, path string) error {
	names, err := readLines(path)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}
	rows := make([]models.PartType, 0, len(names))
	for _, name := range names {
		rows = append(rows, models.PartType{Name: name})
	}
	return client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// AdminEmails reads the admin allowlist, one lowercase email per line.
// A missing or unreadable file is an error the caller must treat as fatal;
// an empty allowlist silently granting no admins is fine, but failing to
// read one is not.
func AdminEmails(path string) (map[string]struct{}, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("reading admin emails: %w", err)
	}
	out := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		out[strings.ToLower(line)] = struct{}{}
	}
	return out, nil
}

func readLines(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %q: %w", path, err)
	}
	return out, nil
}

func openSource(ctx context.Context, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("building csv request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching csv %q: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching csv %q: status %d", source, resp.StatusCode)
		}
		return resp.Body, nil
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open csv %q: %w", source, err)
	}
	return f, nil
}
