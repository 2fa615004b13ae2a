package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

const (
	// ExportEntryName is the single entry stored in every export archive.
	ExportEntryName = "filtered_data.json"

	// ExportFileName is the attachment name offered to the client.
	ExportFileName = "filtered_data.zip"

	// exportTempPrefix marks temp archives so the sweeper can find leftovers.
	exportTempPrefix = "export-"
	exportTempSuffix = ".zip"

	// defaultTempSubdir is created under os.TempDir() when no temp dir is set.
	defaultTempSubdir = "csvexport"
)

// Packager turns an export payload into a zip archive on disk.
type Packager struct {
	tempDir string
}

// NewPackager creates a Packager writing archives into tempDir.
// An empty tempDir means a "csvexport" directory under os.TempDir().
func NewPackager(tempDir string) *Packager {
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), defaultTempSubdir)
	}
	return &Packager{tempDir: tempDir}
}

// TempDir returns the directory archives are written to.
func (p *Packager) TempDir() string {
	return p.tempDir
}

// Archive is a finished export archive waiting to be streamed and removed.
type Archive struct {
	path string
	size int64
}

// Path returns the archive's location on disk.
func (a *Archive) Path() string { return a.path }

// Size returns the archive size in bytes.
func (a *Archive) Size() int64 { return a.size }

// Open opens the archive for reading.
func (a *Archive) Open() (*os.File, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open archive: %v", ErrIO, err)
	}
	return f, nil
}

// Remove deletes the archive. Removing an already-removed archive is not an error.
func (a *Archive) Remove() error {
	if err := os.Remove(a.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove archive: %v", ErrIO, err)
	}
	return nil
}

// Package serializes payload as indented JSON and writes it into a new
// single-entry archive at a unique temp path. The archive is flushed and
// closed before Package returns. On error no file is left behind.
func (p *Packager) Package(ctx context.Context, payload any) (*Archive, error) {
	data, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.tempDir, exportTempPrefix+uuid.NewString()+exportTempSuffix)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: create archive: %v", ErrIO, err)
	}

	size, err := writeArchive(f, data)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("%w: close archive: %v", ErrIO, closeErr)
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	return &Archive{path: path, size: size}, nil
}

// encodePayload renders payload as 2-space indented JSON. HTML characters
// are left as is, so raw payloads keep their text.
func encodePayload(payload any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// writeArchive writes the zip container to f and returns its final size.
func writeArchive(f *os.File, data []byte) (int64, error) {
	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     ExportEntryName,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: create entry: %v", ErrIO, err)
	}
	if _, err := entry.Write(data); err != nil {
		return 0, fmt.Errorf("%w: write entry: %v", ErrIO, err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("%w: finalize archive: %v", ErrIO, err)
	}
	if err := f.Sync(); err != nil {
		return 0, fmt.Errorf("%w: sync archive: %v", ErrIO, err)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat archive: %v", ErrIO, err)
	}
	return info.Size(), nil
}
