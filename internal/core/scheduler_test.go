package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSweepStaleArchives(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := now.Add(-2 * time.Hour)

	files := []struct {
		name    string
		modTime time.Time
		keep    bool
	}{
		{"export-0b6f1c2e-5a3d-4f7e-9c1a-2d8e4b6a9f01.zip", old, false},
		{"export-7c9e6679-7425-40de-944b-e07fc1f90ae7.zip", now, true},
		{"export-quarterly-report.zip", old, true},
		{"record.csv", old, true},
		{"export-0b6f1c2e-5a3d-4f7e-9c1a-2d8e4b6a9f01.json", old, true},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, f.modTime, f.modTime); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := SweepStaleArchives(dir, time.Hour, now)
	if err != nil {
		t.Fatalf("SweepStaleArchives() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	for _, f := range files {
		_, err := os.Stat(filepath.Join(dir, f.name))
		exists := err == nil
		if exists != f.keep {
			t.Errorf("%s exists = %v, want %v", f.name, exists, f.keep)
		}
	}
}

func TestSweepStaleArchives_MissingDir(t *testing.T) {
	if _, err := SweepStaleArchives(filepath.Join(t.TempDir(), "gone"), time.Hour, time.Now()); err == nil {
		t.Error("expected error for missing dir")
	}
}

func TestSweepConfig_Defaults(t *testing.T) {
	cfg := SweepConfig{}.withDefaults()
	if cfg.Interval != 10*time.Minute || cfg.MaxAge != time.Hour {
		t.Errorf("withDefaults() = %+v", cfg)
	}
}

func TestIsArchiveName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"export-0b6f1c2e-5a3d-4f7e-9c1a-2d8e4b6a9f01.zip", true},
		{"export-quarterly-report.zip", false},
		{"export-.zip", false},
		{"report-0b6f1c2e-5a3d-4f7e-9c1a-2d8e4b6a9f01.zip", false},
		{"export-0b6f1c2e-5a3d-4f7e-9c1a-2d8e4b6a9f01.zip.tmp", false},
	}

	for _, tt := range tests {
		if got := isArchiveName(tt.name); got != tt.want {
			t.Errorf("isArchiveName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSweeper_DefaultDirIsDedicated(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	svc, err := NewService(ServiceConfig{CSVPath: "record.csv"})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if got, want := svc.packager.TempDir(), filepath.Join(tmp, "csvexport"); got != want {
		t.Fatalf("temp dir = %q, want %q", got, want)
	}

	// A foreign archive in the shared temp dir survives a sweep.
	foreign := filepath.Join(tmp, "export-quarterly-report.zip")
	if err := os.WriteFile(foreign, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(foreign, old, old); err != nil {
		t.Fatal(err)
	}

	svc.runSweep(time.Hour)

	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("foreign archive removed: %v", err)
	}
}
