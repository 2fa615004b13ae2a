package core

import "fmt"

// Filter column names as they appear in the CSV header.
const (
	ColumnRegion   = "Region"
	ColumnCountry  = "Country"
	ColumnItemType = "Item Type"
)

// FilterSet holds the distinct values used to populate UI filter controls.
// Each list is in order of first occurrence and is never nil.
type FilterSet struct {
	Regions   []string `json:"regions"`
	Countries []string `json:"countries"`
	ItemTypes []string `json:"itemTypes"`
}

// DeriveFilters collects the distinct Region, Country and Item Type values of
// records. Values compare by exact string equality.
//
// A header without one of the filter columns is an error (ErrMissingColumn).
// A ragged row that simply lacks the cell contributes nothing for that column.
func DeriveFilters(records []Record) (FilterSet, error) {
	if len(records) > 0 {
		hdr := records[0].hdr
		for _, col := range []string{ColumnRegion, ColumnCountry, ColumnItemType} {
			if hdr == nil {
				return FilterSet{}, fmt.Errorf("%w: %q", ErrMissingColumn, col)
			}
			if _, ok := hdr.index[col]; !ok {
				return FilterSet{}, fmt.Errorf("%w: %q", ErrMissingColumn, col)
			}
		}
	}

	return FilterSet{
		Regions:   distinct(records, ColumnRegion),
		Countries: distinct(records, ColumnCountry),
		ItemTypes: distinct(records, ColumnItemType),
	}, nil
}

// distinct projects col from every record, keeping first occurrences only.
func distinct(records []Record, col string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, rec := range records {
		v, ok := rec.Get(col)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
