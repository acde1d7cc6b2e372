// Package source loads the program table from the configured data source.
//
// Supported sources are a sqlite file (the original dataset format),
// PostgreSQL, csv, json, yaml and xlsx files, and any of the file formats
// stored in an S3-compatible bucket. Loading happens once at startup;
// the returned Table is immutable.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JonMunkholm/UniSearch/internal/config"
	"github.com/JonMunkholm/UniSearch/internal/core"
	"github.com/JonMunkholm/UniSearch/internal/metrics"
)

// Open loads the table described by cfg.
func Open(ctx context.Context, cfg config.DataConfig) (*core.Table, error) {
	if cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LoadTimeout)
		defer cancel()
	}

	start := time.Now()
	kind := cfg.SourceKind()

	records, err := load(ctx, kind, cfg)
	if err != nil {
		return nil, err
	}

	t := core.NewTable(records)
	metrics.DatasetRows.WithLabelValues(kind).Set(float64(t.Len()))
	slog.Info("dataset loaded",
		"source", kind,
		"rows", t.Len(),
		"countries", len(t.CountryOptions())-1,
		"duration", time.Since(start),
	)
	return t, nil
}

func load(ctx context.Context, kind string, cfg config.DataConfig) ([]core.Record, error) {
	switch kind {
	case config.SourceSQLite:
		rows, err := loadSQLite(ctx, cfg.Path, cfg.Table)
		if err != nil {
			return nil, err
		}
		return toRecords(rows), nil

	case config.SourcePostgres:
		rows, err := loadPostgres(ctx, cfg.URL, cfg.Table)
		if err != nil {
			return nil, err
		}
		return toRecords(rows), nil

	case config.SourceCSV, config.SourceJSON, config.SourceYAML, config.SourceXLSX:
		return loadFile(kind, cfg.Path, cfg.Sheet)

	case config.SourceS3:
		return loadS3(ctx, cfg.S3, cfg.Sheet)

	default:
		return nil, fmt.Errorf("unsupported data source %q", kind)
	}
}

// loadFile decodes a local dataset file.
func loadFile(kind, path, sheet string) ([]core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s dataset: %w", kind, err)
	}
	defer f.Close()

	return Decode(kind, f, sheet)
}
