package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/UniSearch/internal/core"
	"github.com/JonMunkholm/UniSearch/internal/logging"
	"github.com/JonMunkholm/UniSearch/internal/metrics"
	"github.com/JonMunkholm/UniSearch/internal/web/templates"
)

// session returns the request's session. The Sessions middleware guarantees
// one on every page route.
func session(r *http.Request) *core.Session {
	s, _ := core.SessionFromContext(r.Context())
	return s
}

// handleIndex renders the results list for the caller's session.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := session(r)
	sess.ClearDetail()
	s.renderPage(w, r, sess.View())
}

// handleRecord renders the results list with one record's detail panel.
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		s.respondError(w, r, core.InvalidParam("id", idStr), http.StatusBadRequest)
		return
	}

	sess := session(r)
	if _, ok := sess.SelectRecordForDetail(id); !ok {
		s.respondError(w, r, fmt.Errorf("record %d: %w", id, core.ErrRecordNotFound), http.StatusNotFound)
		return
	}
	s.renderPage(w, r, sess.View())
}

// handleSearch applies the submitted form fields through the session setters,
// in the order search, country, city, level, fees, page size. Fields absent
// from the form leave that part of the state untouched.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, core.InvalidParam("form", err.Error()), http.StatusBadRequest)
		return
	}

	var pageSize int
	if v, ok := formValue(r, "page_size"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, r, core.InvalidParam("page_size", v), http.StatusBadRequest)
			return
		}
		pageSize = n
	}

	start := time.Now()
	sess := session(r)
	if v, ok := formValue(r, "search"); ok {
		sess.SetSearchText(v)
	}
	if v, ok := formValue(r, "country"); ok {
		sess.SetCountryFilter(v)
	}
	if v, ok := formValue(r, "city"); ok {
		sess.SetCityFilter(v)
	}
	if v, ok := formValue(r, "level"); ok {
		sess.SetLevelFilter(v)
	}
	if v, ok := formValue(r, "fees"); ok {
		sess.SetFeeCategoryFilter(v)
	}
	if pageSize != 0 {
		if !core.IsPageSize(pageSize) {
			logging.FromContext(r.Context()).Warn("page size not offered, normalizing",
				"requested", pageSize, "using", core.NormalizePageSize(pageSize))
		}
		sess.SetPageSize(pageSize)
	}
	metrics.ObserveQuery("web", start)

	logging.FromContext(r.Context()).Debug("filters applied", "filter", sess.Filter())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handlePrevPage(w http.ResponseWriter, r *http.Request) {
	session(r).GoToPreviousPage()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleNextPage(w http.ResponseWriter, r *http.Request) {
	session(r).GoToNextPage()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	session(r).Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, v core.View) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.SearchPage(v, s.options).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// formValue returns a posted form field and whether it was present.
func formValue(r *http.Request, name string) (string, bool) {
	vals, ok := r.PostForm[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}
