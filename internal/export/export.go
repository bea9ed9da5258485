// Package export writes solved plan snapshots for out-of-band consumers
// (analytics, audits). Export is optional and never fails a run.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/E-Rombi/route-go/internal/cloudwriter"
	"github.com/E-Rombi/route-go/internal/models"
)

// Destination is one export sink for plan snapshots.
type Destination interface {
	WritePlan(routeDate time.Time, payload *models.SolutionPayload) error
	Close() error
}

// ForConfig builds the configured sink, or nil when export is disabled.
func ForConfig(cfg *models.Config) (Destination, error) {
	if !cfg.Export.Enabled {
		return nil, nil
	}

	switch cfg.Export.Format {
	case "json", "":
		return NewJSONExport(cfg.Export.OutputPath, cfg.Export.OutputFolder), nil
	case "parquet":
		return NewParquetExport(cfg)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", cfg.Export.Format)
	}
}

// cloudFactory builds the cloud writer factory for non-local destinations.
func cloudFactory(cfg *models.Config) (cloudwriter.CloudWriterFactory, error) {
	switch cfg.CloudStorage.Provider {
	case "s3":
		return cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
	default:
		return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
	}
}

// JSONExport writes one pretty-printed plan file per route date.
type JSONExport struct {
	basePath string
	folder   string
}

func NewJSONExport(basePath, folder string) *JSONExport {
	return &JSONExport{basePath: basePath, folder: folder}
}

func (j *JSONExport) WritePlan(routeDate time.Time, payload *models.SolutionPayload) error {
	dir := filepath.Join(j.basePath, j.folder, routeDate.Format("2006-01-02"))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "plan.json"), data, 0o644)
}

func (j *JSONExport) Close() error { return nil }
