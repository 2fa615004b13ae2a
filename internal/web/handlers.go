package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/csvexport/internal/core"
	"github.com/JonMunkholm/csvexport/internal/logging"
	"github.com/JonMunkholm/csvexport/internal/web/templates"
)

// exportRequest is the POST /api/export body. FilteredData stays raw so the
// archive keeps the client's key order, number text and HTML characters;
// only whitespace is re-indented.
type exportRequest struct {
	FilteredData json.RawMessage `json:"filteredData"`
}

// handlePapers returns every CSV row as a JSON array.
func (s *Server) handlePapers(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.Records(r.Context())
	if err != nil {
		respondError(w, r, err, msgLoadData)
		return
	}
	writeJSON(w, records)
}

// handleFilters returns the distinct Region, Country and Item Type values.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	filters, err := s.service.Filters(r.Context())
	if err != nil {
		respondError(w, r, err, msgLoadFilters)
		return
	}
	writeJSON(w, filters)
}

// handleExport packages filteredData into a zip archive and streams it as an
// attachment. The temp archive is removed on every exit path.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Export.MaxBodySize)

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, fmt.Errorf("%w: decode body: %w", core.ErrSerialization, err), msgExport)
		return
	}
	if req.FilteredData == nil {
		respondError(w, r, fmt.Errorf("%w: body has no filteredData", core.ErrSerialization), msgExport)
		return
	}

	archive, release, err := s.service.Export(r.Context(), req.FilteredData)
	if err != nil {
		respondError(w, r, err, msgExport)
		return
	}
	defer release()

	f, err := archive.Open()
	if err != nil {
		respondError(w, r, err, msgExport)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+core.ExportFileName+`"`)
	w.Header().Set("Content-Length", strconv.FormatInt(archive.Size(), 10))
	w.WriteHeader(http.StatusOK)

	// Headers are out; a failed copy can only be logged.
	if _, err := io.Copy(w, f); err != nil {
		logging.FromContext(r.Context()).Warn("failed to stream export archive",
			"path", archive.Path(),
			"error", err,
		)
	}
}

// handleIndex renders the status page. A load failure is shown inline.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := templates.StatusData{SourcePath: s.service.SourcePath()}

	records, err := s.service.Records(r.Context())
	if err == nil {
		var filters core.FilterSet
		filters, err = core.DeriveFilters(records)
		if err == nil {
			data.RowCount = len(records)
			data.Regions = len(filters.Regions)
			data.Countries = len(filters.Countries)
			data.ItemTypes = len(filters.ItemTypes)
		}
	}
	if err != nil {
		logging.FromContext(r.Context()).Warn("status page load failed",
			"error", err,
			"code", core.Classify(err),
		)
		data.LoadError = msgLoadData
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.StatusPage(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Warn("failed to render status page", "error", err)
	}
}

// healthResponse is the GET /healthz body.
type healthResponse struct {
	Status  string                   `json:"status"`
	Exports core.ExportLimiterStatus `json:"exports"`
}

// handleHealth reports liveness and export slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, healthResponse{
		Status:  "ok",
		Exports: s.service.ExportLimiterStatus(),
	})
}
