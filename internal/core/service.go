package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ServiceConfig holds the paths and limits the service is built from.
type ServiceConfig struct {
	CSVPath              string        // CSV source file
	TempDir              string        // Directory for export archives (default: $TMPDIR/csvexport)
	MaxConcurrentExports int           // Export slots (default: 8)
	ExportWaitTime       time.Duration // Max wait for an export slot (default: 10s)
}

// Service is the entry point for all operations. It keeps no per-request
// state; the only shared piece is the export limiter.
type Service struct {
	loader   *Loader
	packager *Packager
	exports  *ExportLimiter
}

// NewService creates a Service. The temp directory is created if missing.
// The CSV file is not checked here: it is external state that may appear
// or change after startup.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.CSVPath == "" {
		return nil, fmt.Errorf("csv path is required")
	}

	packager := NewPackager(cfg.TempDir)
	if err := os.MkdirAll(packager.TempDir(), 0o700); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	return &Service{
		loader:   NewLoader(cfg.CSVPath),
		packager: packager,
		exports:  NewExportLimiter(cfg.MaxConcurrentExports, cfg.ExportWaitTime),
	}, nil
}

// SourcePath returns the CSV source path.
func (s *Service) SourcePath() string {
	return s.loader.Path()
}

// Records loads all rows of the CSV source.
func (s *Service) Records(ctx context.Context) ([]Record, error) {
	return s.loader.Load(ctx)
}

// Filters loads the CSV source and derives its filter lists.
func (s *Service) Filters(ctx context.Context) (FilterSet, error) {
	records, err := s.loader.Load(ctx)
	if err != nil {
		return FilterSet{}, err
	}
	return DeriveFilters(records)
}

// Export packages payload into an archive. The returned release func must be
// called once the archive has been streamed; it removes the file and frees
// the export slot, and is a no-op after the first call. Removal failures are
// logged, not returned.
func (s *Service) Export(ctx context.Context, payload any) (*Archive, func(), error) {
	if err := s.exports.Acquire(ctx); err != nil {
		return nil, nil, err
	}

	archive, err := s.packager.Package(ctx, payload)
	if err != nil {
		s.exports.Release()
		return nil, nil, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := archive.Remove(); err != nil {
				slog.Warn("failed to remove export archive", "path", archive.Path(), "error", err)
			}
			s.exports.Release()
		})
	}
	return archive, release, nil
}

// ExportLimiterStatus returns the export limiter occupancy.
func (s *Service) ExportLimiterStatus() ExportLimiterStatus {
	return s.exports.Status()
}

// WaitForExports blocks until in-flight exports finish or ctx ends.
func (s *Service) WaitForExports(ctx context.Context) error {
	return s.exports.WaitForDrain(ctx)
}
