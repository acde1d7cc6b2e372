package core

import (
	"sync"
	"time"
)

// View is everything the presentation layer needs to render a list view.
type View struct {
	PageRows     []Record    `json:"rows"`
	CurrentPage  int         `json:"page"`
	TotalPages   int         `json:"totalPages"`
	TotalMatches int         `json:"totalMatches"`
	PageSize     int         `json:"pageSize"`
	Filter       FilterState `json:"filter"`
	CityOptions  []string    `json:"cityOptions"`
	Selected     *Record     `json:"selected,omitempty"`
}

// HasPrevious reports whether a previous page exists.
func (v View) HasPrevious() bool { return v.CurrentPage > 1 }

// HasNext reports whether a next page exists.
func (v View) HasNext() bool { return v.CurrentPage < v.TotalPages }

// Session holds one user's filter and page state over a shared Table.
//
// The setters are the only way to mutate state. Each one re-runs the query
// and re-clamps the page before returning, so View is always consistent.
type Session struct {
	mu sync.Mutex

	id       string
	table    *Table
	filter   FilterState
	page     PageState
	selected *Record

	results     []Record
	cityOptions []string
	lastSeen    time.Time
}

// NewSession creates a session with default filter and page state.
func NewSession(id string, t *Table) *Session {
	s := &Session{
		id:       id,
		table:    t,
		filter:   DefaultFilterState(),
		page:     DefaultPageState(),
		lastSeen: time.Now(),
	}
	s.refreshCities()
	s.recompute()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Table returns the shared table.
func (s *Session) Table() *Table { return s.table }

// Filter returns a copy of the current filter state.
func (s *Session) Filter() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Page returns a copy of the current page state.
func (s *Session) Page() PageState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SetSearchText sets the free-text search.
func (s *Session) SetSearchText(text string) {
	s.mutate(func() {
		s.filter.SearchText = text
	})
}

// SetCountryFilter selects a country. Unknown countries fall back to "All".
// The city options narrow to the new country; a selected city that is no
// longer offered resets to "All".
func (s *Session) SetCountryFilter(country string) {
	s.mutate(func() { s.setCountryLocked(country) })
}

// SetCityFilter selects a city among those offered for the current country.
// Any other value falls back to "All".
func (s *Session) SetCityFilter(city string) {
	s.mutate(func() { s.setCityLocked(city) })
}

// SetLevelFilter selects a program level. Unknown levels fall back to "All".
func (s *Session) SetLevelFilter(level string) {
	s.mutate(func() { s.setLevelLocked(level) })
}

// SetFeeCategoryFilter selects a fee bracket. Anything other than one of the
// five brackets falls back to "All".
func (s *Session) SetFeeCategoryFilter(category string) {
	s.mutate(func() { s.setFeeCategoryLocked(category) })
}

// ApplyFilter replaces the whole filter in one step. Values go through the
// same fallbacks as the individual setters, country before city.
func (s *Session) ApplyFilter(f FilterState) {
	s.mutate(func() {
		s.filter.SearchText = f.SearchText
		s.setCountryLocked(f.Country)
		s.setCityLocked(f.City)
		s.setLevelLocked(f.Level)
		s.setFeeCategoryLocked(f.FeesCategory)
	})
}

func (s *Session) setCountryLocked(country string) {
	if country != AllValue && !s.table.hasCountry(country) {
		country = AllValue
	}
	s.filter.Country = country
	s.refreshCities()
	if !containsString(s.cityOptions, s.filter.City) {
		s.filter.City = AllValue
	}
}

func (s *Session) setCityLocked(city string) {
	if !containsString(s.cityOptions, city) {
		city = AllValue
	}
	s.filter.City = city
}

func (s *Session) setLevelLocked(level string) {
	if level != AllValue && !s.table.hasLevel(level) {
		level = AllValue
	}
	s.filter.Level = level
}

func (s *Session) setFeeCategoryLocked(category string) {
	if !IsFeeCategory(category) {
		category = AllValue
	}
	s.filter.FeesCategory = category
}

// SetPageSize changes the page size, normalized to a selectable size.
func (s *Session) SetPageSize(n int) {
	s.mutate(func() {
		s.page.PageSize = NormalizePageSize(n)
	})
}

// SetPage jumps to a page number, clamped to the valid range.
func (s *Session) SetPage(n int) {
	s.mutate(func() {
		s.page.CurrentPage = n
	})
}

// GoToPreviousPage moves back one page; a no-op on page 1.
func (s *Session) GoToPreviousPage() {
	s.mutate(func() {
		s.page = GoToPage(s.page, -1, TotalPages(len(s.results), s.page.PageSize))
	})
}

// GoToNextPage moves forward one page; a no-op on the last page.
func (s *Session) GoToNextPage() {
	s.mutate(func() {
		s.page = GoToPage(s.page, 1, TotalPages(len(s.results), s.page.PageSize))
	})
}

// SelectRecordForDetail marks a record as selected for the detail view.
// It returns false if the ID is not in the table.
func (s *Session) SelectRecordForDetail(id int) (Record, bool) {
	r, ok := s.table.Record(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if !ok {
		return Record{}, false
	}
	s.selected = &r
	return r, true
}

// ClearDetail deselects the detail record.
func (s *Session) ClearDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.lastSeen = time.Now()
}

// Reset restores default filter and page state.
func (s *Session) Reset() {
	s.mutate(func() {
		s.filter = DefaultFilterState()
		s.page = DefaultPageState()
		s.selected = nil
		s.refreshCities()
	})
}

// View returns the current page of results and its metadata.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	rows := Paginate(s.results, s.page)
	out := make([]Record, len(rows))
	copy(out, rows)

	cities := make([]string, len(s.cityOptions))
	copy(cities, s.cityOptions)

	v := View{
		PageRows:     out,
		CurrentPage:  s.page.CurrentPage,
		TotalPages:   TotalPages(len(s.results), s.page.PageSize),
		TotalMatches: len(s.results),
		PageSize:     s.page.PageSize,
		Filter:       s.filter,
		CityOptions:  cities,
	}
	if s.selected != nil {
		sel := *s.selected
		v.Selected = &sel
	}
	return v
}

// Results returns every matching record, in table order.
func (s *Session) Results() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.results))
	copy(out, s.results)
	return out
}

// LastSeen returns the time of the last interaction.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// mutate applies fn under the lock, then recomputes results and re-clamps the page.
func (s *Session) mutate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	s.recompute()
	s.lastSeen = time.Now()
}

// recompute must be called with mu held.
func (s *Session) recompute() {
	s.results, _ = Query(s.table, s.filter)
	s.page = s.page.Clamp(len(s.results))
}

// refreshCities must be called with mu held.
func (s *Session) refreshCities() {
	s.cityOptions = AvailableCities(s.table, s.filter.Country)
}
