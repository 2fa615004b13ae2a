package core

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// header describes the columns shared by every Record from one load.
// names holds distinct column names in first-occurrence order; index maps a
// name to the cell position that supplies its value (the last duplicate wins).
type header struct {
	names []string
	index map[string]int
}

func newHeader(cols []string) *header {
	h := &header{
		names: make([]string, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, col := range cols {
		if _, seen := h.index[col]; !seen {
			h.names = append(h.names, col)
		}
		h.index[col] = i
	}
	return h
}

// Record is one CSV data row as an ordered column-name to value mapping.
//
// A row shorter than the header has no value for its trailing columns.
// Cells beyond the header are exposed under positional keys "_<index>",
// unless the header already has a column of that name, which then wins.
type Record struct {
	hdr   *header
	cells []string
	extra []extraCell // cells beyond the header
}

// extraCell names a cell past the header width by its position.
type extraCell struct {
	name string
	pos  int
}

func newRecord(h *header, cells []string, width int) Record {
	r := Record{hdr: h, cells: cells}
	for i := width; i < len(cells); i++ {
		name := "_" + strconv.Itoa(i)
		if h != nil {
			if _, taken := h.index[name]; taken {
				continue
			}
		}
		r.extra = append(r.extra, extraCell{name: name, pos: i})
	}
	return r
}

// Get returns the value of col and whether the row has one.
func (r Record) Get(col string) (string, bool) {
	if r.hdr != nil {
		if i, ok := r.hdr.index[col]; ok {
			if i < len(r.cells) {
				return r.cells[i], true
			}
			return "", false
		}
	}
	for _, e := range r.extra {
		if e.name == col {
			return r.cells[e.pos], true
		}
	}
	return "", false
}

// Columns returns the names present in this row, in output order.
func (r Record) Columns() []string {
	var cols []string
	if r.hdr != nil {
		for _, name := range r.hdr.names {
			if r.hdr.index[name] < len(r.cells) {
				cols = append(cols, name)
			}
		}
	}
	for _, e := range r.extra {
		cols = append(cols, e.name)
	}
	return cols
}

// Len returns the number of columns present in this row.
func (r Record) Len() int {
	return len(r.Columns())
}

// Map copies the record into a plain map.
func (r Record) Map() map[string]string {
	cols := r.Columns()
	m := make(map[string]string, len(cols))
	for _, col := range cols {
		m[col], _ = r.Get(col)
	}
	return m
}

// MarshalJSON encodes the record as a JSON object with keys in header order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns() {
		if i > 0 {
			buf.WriteByte(',')
		}
		val, _ := r.Get(col)
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
