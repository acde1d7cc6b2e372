// Package templates holds the templ components of the search UI.
//
// Edit the .templ files and run `templ generate`; the _templ.go files are
// generated and committed alongside them.
package templates

import (
	"fmt"
	"strconv"

	"github.com/JonMunkholm/UniSearch/internal/core"
)

// Title is the page heading and document title.
const Title = "University Program Search"

// Options are the selector choices shown on the search form.
type Options struct {
	Countries []string
	Levels    []string
	Fees      []string
	PageSizes []int
}

// OptionsFor collects the selector choices for t.
func OptionsFor(t *core.Table) Options {
	return Options{
		Countries: t.CountryOptions(),
		Levels:    t.LevelOptions(),
		Fees:      t.FeeCategoryOptions(),
		PageSizes: core.PageSizes(),
	}
}

func pageSizeOptions(sizes []int) []string {
	out := make([]string, len(sizes))
	for i, n := range sizes {
		out[i] = strconv.Itoa(n)
	}
	return out
}

func recordURL(id int) string {
	return fmt.Sprintf("/record/%d", id)
}
