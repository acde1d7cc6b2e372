package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/UniSearch/internal/core"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func testTable() *core.Table {
	return core.NewTable([]core.Record{
		{Country: "France", City: "Paris", University: "Sorbonne", Study: "History", Level: "Master", FeesCategory: core.FeesBelow5k},
		{Country: "Germany", City: "Berlin", University: "<TU> Berlin", Study: "Physics", Level: "PhD"},
	})
}

func TestSearchPage_RendersFormResultsAndPagination(t *testing.T) {
	tbl := testTable()
	s := core.NewSession("s1", tbl)
	s.SetCountryFilter("France")

	html := renderString(t, SearchPage(s.View(), OptionsFor(tbl)))

	assert.Contains(t, html, `<option value="France" selected>France</option>`)
	assert.Contains(t, html, `<option value="Paris">Paris</option>`)
	assert.NotContains(t, html, `<option value="Berlin">`)
	assert.Contains(t, html, `<option value="10" selected>10</option>`)
	assert.Contains(t, html, `1 programs found`)
	assert.Contains(t, html, `href="/record/0"`)
	assert.Contains(t, html, `Page 1 of 1`)
	assert.Contains(t, html, `action="/page/prev"><button type="submit" disabled>`)
	assert.NotContains(t, html, `class="detail"`)
}

func TestResults_EscapesValues(t *testing.T) {
	s := core.NewSession("s1", testTable())
	html := renderString(t, Results(s.View()))

	assert.Contains(t, html, "&lt;TU&gt; Berlin")
	assert.NotContains(t, html, "<TU>")
}

func TestResults_Empty(t *testing.T) {
	s := core.NewSession("s1", testTable())
	s.SetSearchText("nothing matches this")

	html := renderString(t, Results(s.View()))
	assert.Contains(t, html, "0 programs found")
	assert.Contains(t, html, "No programs match")
}

func TestDetail_LinksUniversity(t *testing.T) {
	r := core.Record{University: "ETH", URL: "https://ethz.ch", Country: "Switzerland", Study: "CS", Level: "Master"}
	html := renderString(t, Detail(r, core.DetailFields(r)))

	assert.Contains(t, html, `<a href="https://ethz.ch" target="_blank" rel="noopener">ETH</a>`)
	assert.Contains(t, html, `<dt>Country</dt><dd>Switzerland</dd>`)
}

func TestDetail_SanitizesScriptURL(t *testing.T) {
	r := core.Record{University: "Bad", URL: "javascript:alert(1)"}
	html := renderString(t, Detail(r, core.DetailFields(r)))

	assert.NotContains(t, html, "javascript:")
}

func TestErrorAlert(t *testing.T) {
	html := renderString(t, ErrorAlert("Too many requests", "Please wait", "RATE001"))

	assert.Contains(t, html, `role="alert"`)
	assert.Contains(t, html, "Too many requests")
	assert.Contains(t, html, "Code: RATE001")
}

func TestResults_LinksUniversityToWebsite(t *testing.T) {
	tbl := core.NewTable([]core.Record{
		{Country: "Switzerland", City: "Zurich", University: "ETH", URL: "https://ethz.ch", Study: "CS", Level: "Master"},
		{Country: "France", City: "Paris", University: "Sorbonne", Study: "History", Level: "Master"},
		{Country: "Italy", City: "Rome", University: "Bad", URL: "javascript:alert(1)", Study: "Law", Level: "Master"},
	})
	html := renderString(t, Results(core.NewSession("s1", tbl).View()))

	assert.Contains(t, html, `<td><a href="https://ethz.ch" target="_blank" rel="noopener">ETH</a></td>`)
	assert.Contains(t, html, `<td>Sorbonne</td>`)
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, `<a href="/record/1">Details</a>`)
}

func TestErrorPage_WrapsAlertInLayout(t *testing.T) {
	msg := core.MapError(core.ErrRecordNotFound)
	html := renderString(t, ErrorPage(msg))

	assert.Contains(t, html, "<title>"+Title+"</title>")
	assert.Contains(t, html, `<div class="alert" role="alert"><strong>The selected program does not exist</strong>`)
	assert.Contains(t, html, "Code: REC001")
	assert.Contains(t, html, `<a class="back" href="/">Back to results</a></main>`)
}
