package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// contextCheckInterval is how often (in rows) Load checks for cancellation.
const contextCheckInterval = 100

// Loader reads the CSV source file. It holds no parsed state: every Load call
// re-opens and re-parses the file so responses always reflect what is on disk.
type Loader struct {
	path string
}

// NewLoader creates a Loader for the CSV file at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the configured source path.
func (l *Loader) Path() string {
	return l.path
}

// Load parses the source file into records, one per data row, in file order.
// The first row is the header. An empty or header-only file yields an empty
// slice. Failures wrap ErrIO or ErrParse.
func (l *Loader) Load(ctx context.Context) ([]Record, error) {
	start := time.Now()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, l.path, err)
	}
	defer f.Close()

	records, err := parseRecords(ctx, SkipBOM(f))
	if err != nil {
		return nil, err
	}

	slog.Debug("csv loaded",
		"path", l.path,
		"rows", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return records, nil
}

// parseRecords reads header and rows from r.
func parseRecords(ctx context.Context, r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are kept, see Record

	cols, err := reader.Read()
	if err == io.EOF {
		return []Record{}, nil
	}
	if err != nil {
		return nil, wrapReadError(err)
	}

	hdr := newHeader(cols)
	records := []Record{}

	for n := 0; ; n++ {
		if n%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapReadError(err)
		}
		records = append(records, newRecord(hdr, row, len(cols)))
	}

	return records, nil
}

// wrapReadError separates syntax errors from failures of the underlying file.
func wrapReadError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return fmt.Errorf("%w: read: %v", ErrIO, err)
}
