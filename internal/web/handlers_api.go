package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/UniSearch/internal/core"
	"github.com/JonMunkholm/UniSearch/internal/export"
	"github.com/JonMunkholm/UniSearch/internal/logging"
	"github.com/JonMunkholm/UniSearch/internal/metrics"
)

// OptionsResponse lists the selector choices.
type OptionsResponse struct {
	Countries []string `json:"countries"`
	Cities    []string `json:"cities"`
	Levels    []string `json:"levels"`
	Fees      []string `json:"fees"`
	PageSizes []int    `json:"pageSizes"`
}

// RecordResponse is one record with its formatted detail lines.
type RecordResponse struct {
	Record core.Record       `json:"record"`
	Detail []core.DetailLine `json:"detail"`
}

// HealthResponse reports liveness and dataset size.
type HealthResponse struct {
	Status   string `json:"status"`
	Rows     int    `json:"rows"`
	Sessions int    `json:"sessions"`
}

// querySession evaluates the request's query parameters on a throwaway
// session, so the API shares the control surface's fallback rules without
// touching any visitor's state.
//
// Parameters: search, country, city, level, fees, page, page_size.
func (s *Server) querySession(r *http.Request) (*core.Session, error) {
	q := r.URL.Query()

	f := core.DefaultFilterState()
	f.SearchText = q.Get("search")
	if v := q.Get("country"); v != "" {
		f.Country = v
	}
	if v := q.Get("city"); v != "" {
		f.City = v
	}
	if v := q.Get("level"); v != "" {
		f.Level = v
	}
	if v := q.Get("fees"); v != "" {
		f.FeesCategory = v
	}

	pageSize, err := intParam(r, "page_size", core.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	page, err := intParam(r, "page", 1)
	if err != nil {
		return nil, err
	}

	sess := core.NewSession("", s.table)
	sess.ApplyFilter(f)
	sess.SetPageSize(pageSize)
	sess.SetPage(page)
	return sess, nil
}

// intParam parses an integer query parameter with a default value.
func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, core.InvalidParam(name, v)
	}
	return n, nil
}

// handleAPISearch returns one page of results as JSON.
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sess, err := s.querySession(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	v := sess.View()
	metrics.ObserveQuery("api", start)

	writeJSON(w, r, v)
}

// handleAPIOptions returns the selector choices; cities narrow to ?country=.
func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		country = core.AllValue
	}
	writeJSON(w, r, OptionsResponse{
		Countries: s.options.Countries,
		Cities:    core.AvailableCities(s.table, country),
		Levels:    s.options.Levels,
		Fees:      s.options.Fees,
		PageSizes: s.options.PageSizes,
	})
}

// handleAPIRecord returns one record and its detail lines.
func (s *Server) handleAPIRecord(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		s.respondError(w, r, core.InvalidParam("id", idStr), http.StatusBadRequest)
		return
	}
	rec, ok := s.table.Record(id)
	if !ok {
		s.respondError(w, r, fmt.Errorf("record %d: %w", id, core.ErrRecordNotFound), http.StatusNotFound)
		return
	}
	writeJSON(w, r, RecordResponse{Record: rec, Detail: core.DetailFields(rec)})
}

// handleExportCSV streams every matching row as CSV.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	sess, err := s.querySession(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	results := sess.Results()

	setDownloadHeaders(w, export.ContentTypeCSV, "csv")
	if err := export.CSV(w, results); err != nil {
		// Headers are already sent; log only
		logging.FromContext(r.Context()).Error("csv export failed", "error", err, "rows", len(results))
		return
	}
	logging.FromContext(r.Context()).Info("csv export", "rows", len(results))
}

// handleExportXLSX writes every matching row as an xlsx workbook.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	sess, err := s.querySession(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	results := sess.Results()

	setDownloadHeaders(w, export.ContentTypeXLSX, "xlsx")
	if err := export.XLSX(w, results); err != nil {
		logging.FromContext(r.Context()).Error("xlsx export failed", "error", err, "rows", len(results))
		return
	}
	logging.FromContext(r.Context()).Info("xlsx export", "rows", len(results))
}

func setDownloadHeaders(w http.ResponseWriter, contentType, ext string) {
	filename := fmt.Sprintf("programs_%s.%s", time.Now().Format("20060102_150405"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, HealthResponse{
		Status:   "ok",
		Rows:     s.table.Len(),
		Sessions: s.store.Len(),
	})
}
