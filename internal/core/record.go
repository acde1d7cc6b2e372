package core

import (
	"sort"
)

// AllValue is the wildcard selector value meaning "no filter on this dimension".
const AllValue = "All"

// Record is one university program row.
//
// Optional text fields are empty strings when absent; numeric fields are zero
// when unknown. Loaders never reject a row for missing values.
type Record struct {
	ID                   int     `json:"id"` // Zero-based position in the Table
	Partner              string  `json:"partner"`
	Country              string  `json:"country"`
	City                 string  `json:"city"`
	University           string  `json:"university"`
	URL                  string  `json:"url"`
	Faculty              string  `json:"faculty"`
	Study                string  `json:"study"`
	Level                string  `json:"level"`
	DegreeDurationMonths float64 `json:"degreeDurationMonths"`
	FeesStd              float64 `json:"feesStd"` // EUR
	Fees                 float64 `json:"fees"`    // Original currency
	Currency             string  `json:"currency"`
	AppFeesStd           float64 `json:"appFeesStd"`
	AppFees              float64 `json:"appFees"`
	FeesCategory         string  `json:"feesCategory"`
}

// Table is the immutable, ordered set of records for a session's lifetime.
// A Table is safe to share between any number of sessions.
type Table struct {
	records   []Record
	countries []string
	levels    []string
	brackets  []string
}

// NewTable builds a Table from records in their source order.
// Record IDs are reassigned to match their position.
func NewTable(records []Record) *Table {
	rs := make([]Record, len(records))
	copy(rs, records)
	for i := range rs {
		rs[i].ID = i
	}

	t := &Table{records: rs}
	t.countries = distinctSorted(rs, func(r Record) string { return r.Country })
	t.levels = distinctSorted(rs, func(r Record) string { return r.Level })
	t.brackets = presentBrackets(rs)
	return t
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns the records in table order.
// The returned slice must not be modified.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	return t.records
}

// Record returns the record with the given ID.
func (t *Table) Record(id int) (Record, bool) {
	if t == nil || id < 0 || id >= len(t.records) {
		return Record{}, false
	}
	return t.records[id], true
}

// CountryOptions returns "All" followed by the distinct countries, sorted.
func (t *Table) CountryOptions() []string {
	return withAll(t.countries)
}

// LevelOptions returns "All" followed by the distinct program levels, sorted.
func (t *Table) LevelOptions() []string {
	return withAll(t.levels)
}

// FeeCategoryOptions returns "All" followed by the fee brackets present in the
// table, in bracket order rather than alphabetical order.
func (t *Table) FeeCategoryOptions() []string {
	return withAll(t.brackets)
}

// CityOptions returns the city selector options for a country.
func (t *Table) CityOptions(country string) []string {
	return AvailableCities(t, country)
}

// hasCountry reports whether any record carries the given country.
func (t *Table) hasCountry(country string) bool {
	return containsString(t.countries, country)
}

// hasLevel reports whether any record carries the given level.
func (t *Table) hasLevel(level string) bool {
	return containsString(t.levels, level)
}

// distinctSorted collects distinct non-empty values of a field, sorted ascending.
func distinctSorted(records []Record, field func(Record) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func withAll(values []string) []string {
	out := make([]string, 0, len(values)+1)
	out = append(out, AllValue)
	return append(out, values...)
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
