package core

// scheduler.go runs the background sweep of the export temp directory.
//
// Exports remove their archive once the response is written. A process that
// dies mid-export cannot, so the sweeper deletes export archives older than
// MaxAge. It runs once on start, then every Interval, until ctx is cancelled.
// Failures are logged and never stop the application.

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SweepConfig holds settings for the temp archive sweeper.
type SweepConfig struct {
	Interval time.Duration // How often to sweep (default: 10m)
	MaxAge   time.Duration // Archives older than this are removed (default: 1h)
}

func (c SweepConfig) withDefaults() SweepConfig {
	if c.Interval <= 0 {
		c.Interval = 10 * time.Minute
	}
	if c.MaxAge <= 0 {
		c.MaxAge = time.Hour
	}
	return c
}

// StartSweeper blocks, sweeping stale export archives until ctx is cancelled.
func (s *Service) StartSweeper(ctx context.Context, cfg SweepConfig) {
	cfg = cfg.withDefaults()
	slog.Info("temp sweeper started",
		"dir", s.packager.TempDir(),
		"interval", cfg.Interval,
		"max_age", cfg.MaxAge,
	)

	s.runSweep(cfg.MaxAge)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("temp sweeper stopped")
			return
		case <-ticker.C:
			s.runSweep(cfg.MaxAge)
		}
	}
}

func (s *Service) runSweep(maxAge time.Duration) {
	start := time.Now()
	removed, err := SweepStaleArchives(s.packager.TempDir(), maxAge, start)
	if err != nil {
		slog.Error("temp sweep failed", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("removed stale export archives",
			"count", removed,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// SweepStaleArchives removes export archives in dir last modified before
// now-maxAge and returns how many were removed. Only names of the form
// export-<uuid>.zip are considered; anything else is never touched.
func SweepStaleArchives(dir string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isArchiveName(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue // removed concurrently
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			slog.Warn("failed to remove stale archive", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// isArchiveName reports whether name was produced by Packager.Package.
func isArchiveName(name string) bool {
	id, ok := strings.CutPrefix(name, exportTempPrefix)
	if !ok {
		return false
	}
	id, ok = strings.CutSuffix(id, exportTempSuffix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
