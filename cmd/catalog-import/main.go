// catalog-import loads a spreadsheet of reference models into the catalog
// and pokes the server's cache invalidation hook. It is the in-repo face of
// the catalog sync producer: marketplace taxonomy exports are dropped here
// as xlsx files with columns full name / make-brand / model / device type.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"listing-range-api/internal/config"
	"listing-range-api/internal/database"
	"listing-range-api/internal/model"
	"listing-range-api/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var (
		file          = flag.String("file", "", "xlsx file with catalog rows")
		kindFlag      = flag.String("kind", "", "catalog kind (vehicles, cellphones, tablets)")
		sheet         = flag.String("sheet", "", "sheet name (default: first sheet)")
		invalidateURL = flag.String("invalidate-url", "", "server invalidate hook, e.g. http://localhost:8080/api/v1/catalog/vehicles/invalidate")
	)
	flag.Parse()

	if *file == "" || *kindFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: catalog-import -file catalog.xlsx -kind vehicles [-sheet Sheet1] [-invalidate-url URL]")
		os.Exit(2)
	}

	kind, err := model.ParseKind(*kindFlag)
	if err != nil {
		slog.Error("invalid kind", "error", err)
		os.Exit(2)
	}

	entries, err := readEntries(*file, *sheet, kind)
	if err != nil {
		slog.Error("failed to read spreadsheet", "file", *file, "error", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		slog.Error("spreadsheet contains no usable rows", "file", *file)
		os.Exit(1)
	}
	slog.Info("parsed catalog rows", "file", *file, "kind", kind, "rows", len(entries))

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	copied, err := repository.NewCatalogRepo(db).ReplaceKind(ctx, kind, entries)
	if err != nil {
		slog.Error("failed to replace catalog entries", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog replaced", "kind", kind, "rows", copied)

	// The cache never learns about writes on its own; tell the server.
	if *invalidateURL != "" {
		resp, err := http.Post(*invalidateURL, "application/json", nil)
		if err != nil {
			slog.Error("failed to call invalidate hook", "url", *invalidateURL, "error", err)
			os.Exit(1)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			slog.Error("invalidate hook rejected", "url", *invalidateURL, "status", resp.StatusCode)
			os.Exit(1)
		}
		slog.Info("cache invalidated", "kind", kind)
	}
}

// readEntries parses rows of full name / primary / secondary / device type.
// A header row is skipped when its first cell is not a usable name, and
// rows with an empty full name are dropped.
func readEntries(path, sheet string, kind model.Kind) ([]model.CatalogEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	var entries []model.CatalogEntry
	for i, row := range rows {
		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		fullName := cell(0)
		if fullName == "" {
			continue
		}
		if i == 0 && strings.EqualFold(fullName, "full name") {
			continue
		}

		entries = append(entries, model.CatalogEntry{
			Kind:       kind,
			FullName:   fullName,
			Primary:    cell(1),
			Secondary:  cell(2),
			DeviceType: cell(3),
		})
	}

	return entries, nil
}
