package core

import (
	"sort"
	"strings"
)

// FilterState is the current search text and categorical selections.
// City is only meaningful relative to Country.
type FilterState struct {
	SearchText   string `json:"search"`
	Country      string `json:"country"`
	City         string `json:"city"`
	Level        string `json:"level"`
	FeesCategory string `json:"fees"`
}

// DefaultFilterState returns an empty search with every selector set to "All".
func DefaultFilterState() FilterState {
	return FilterState{
		Country:      AllValue,
		City:         AllValue,
		Level:        AllValue,
		FeesCategory: AllValue,
	}
}

// Matches reports whether a record passes both the text search and the
// categorical filters.
//
// Text search is a case-insensitive substring match against country, city,
// university, study, level and fee bracket. Categorical filters compare
// exactly and case-sensitively; "All" disables a dimension.
func Matches(r Record, f FilterState) bool {
	return matchesSearch(r, strings.ToLower(f.SearchText)) && matchesCategories(r, f)
}

// matchesSearch expects needle to be lower-cased already.
func matchesSearch(r Record, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range [...]string{r.Country, r.City, r.University, r.Study, r.Level, r.FeesCategory} {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func matchesCategories(r Record, f FilterState) bool {
	return selectorMatches(f.Country, r.Country) &&
		selectorMatches(f.City, r.City) &&
		selectorMatches(f.Level, r.Level) &&
		selectorMatches(f.FeesCategory, r.FeesCategory)
}

// selectorMatches treats "All" and the empty selector as wildcards.
func selectorMatches(selected, value string) bool {
	if selected == AllValue || selected == "" {
		return true
	}
	return selected == value
}

// AvailableCities returns "All" followed by the distinct non-empty cities of
// records in the given country, sorted ascending. Country "All" considers
// every record.
func AvailableCities(t *Table, country string) []string {
	seen := make(map[string]struct{})
	var cities []string
	for _, r := range t.Records() {
		if r.City == "" || !selectorMatches(country, r.Country) {
			continue
		}
		if _, ok := seen[r.City]; ok {
			continue
		}
		seen[r.City] = struct{}{}
		cities = append(cities, r.City)
	}
	sort.Strings(cities)
	return withAll(cities)
}
