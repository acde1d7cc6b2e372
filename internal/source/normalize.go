package source

// normalize.go turns loosely typed rows from any source into core.Records.
//
// Sources disagree on types: sqlite hands back int64, float64 or []byte,
// pgx returns pgtype.Numeric for numeric columns, csv and xlsx give only
// strings, json gives float64. Every value is coerced here so the engine
// only ever sees trimmed strings and non-negative numbers:
//   - NULL, NaN and the strings "nan", "none", "null", "<na>" become ""
//   - Numbers accept currency symbols and thousands separators ("€12,500")
//   - Malformed or negative numbers become 0

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/UniSearch/internal/core"
)

// numericRegex validates that a string is a plain decimal after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

type field int

const (
	fieldPartner field = iota
	fieldCountry
	fieldCity
	fieldUniversity
	fieldURL
	fieldFaculty
	fieldStudy
	fieldLevel
	fieldDuration
	fieldFeesStd
	fieldFees
	fieldCurrency
	fieldAppFeesStd
	fieldAppFees
	fieldFeesCategory
)

// fieldColumns lists, per record field, the folded column names (lowercase,
// letters and digits only) it is read from, in order of precedence. The
// snake_case name of the original database comes first; when a row carries
// several aliases the earliest one wins.
var fieldColumns = [...]struct {
	field field
	names []string
}{
	{fieldPartner, []string{"partner"}},
	{fieldCountry, []string{"country"}},
	{fieldCity, []string{"city"}},
	{fieldUniversity, []string{"university"}},
	{fieldURL, []string{"url", "link", "website"}},
	{fieldFaculty, []string{"faculty"}},
	{fieldStudy, []string{"study", "program", "programme"}},
	{fieldLevel, []string{"level"}},
	{fieldDuration, []string{"degreeduration", "degreedurationmonths"}},
	{fieldFeesStd, []string{"feesstd"}},
	{fieldFees, []string{"fees"}},
	{fieldCurrency, []string{"currency"}},
	{fieldAppFeesStd, []string{"appfeesstd"}},
	{fieldAppFees, []string{"appfees"}},
	{fieldFeesCategory, []string{"feescategory", "feesbracket"}},
}

// foldColumn lowercases name and drops everything but letters and digits,
// so "fees_std", "feesStd" and "Fees Std" all fold to "feesstd".
func foldColumn(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// toRecords converts raw rows to records in order.
//
// When no row carries a fee category column at all, the bracket is derived
// from fees_std. A present but empty category stays empty.
func toRecords(rows []map[string]any) []core.Record {
	categoryNames := fieldColumns[fieldFeesCategory].names
	hasCategory := false
	for _, row := range rows {
		for k := range row {
			if slices.Contains(categoryNames, foldColumn(k)) {
				hasCategory = true
				break
			}
		}
		if hasCategory {
			break
		}
	}

	out := make([]core.Record, 0, len(rows))
	for _, row := range rows {
		r := toRecord(row)
		if !hasCategory {
			r.FeesCategory = core.FeeCategoryFor(r.FeesStd)
		}
		out = append(out, r)
	}
	return out
}

// foldRow indexes a row by folded column name. Raw names are visited in
// sorted order so that two spellings of one column ("fees_std" and
// "feesStd") resolve the same way on every load.
func foldRow(row map[string]any) map[string]any {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	folded := make(map[string]any, len(row))
	for _, k := range keys {
		fk := foldColumn(k)
		if _, seen := folded[fk]; !seen {
			folded[fk] = row[k]
		}
	}
	return folded
}

func toRecord(row map[string]any) core.Record {
	var r core.Record
	folded := foldRow(row)
	for _, fc := range fieldColumns {
		v, ok := firstPresent(folded, fc.names)
		if !ok {
			continue
		}
		switch fc.field {
		case fieldPartner:
			r.Partner = text(v)
		case fieldCountry:
			r.Country = text(v)
		case fieldCity:
			r.City = text(v)
		case fieldUniversity:
			r.University = text(v)
		case fieldURL:
			r.URL = text(v)
		case fieldFaculty:
			r.Faculty = text(v)
		case fieldStudy:
			r.Study = text(v)
		case fieldLevel:
			r.Level = text(v)
		case fieldDuration:
			r.DegreeDurationMonths = number(v)
		case fieldFeesStd:
			r.FeesStd = number(v)
		case fieldFees:
			r.Fees = number(v)
		case fieldCurrency:
			r.Currency = text(v)
		case fieldAppFeesStd:
			r.AppFeesStd = number(v)
		case fieldAppFees:
			r.AppFees = number(v)
		case fieldFeesCategory:
			r.FeesCategory = text(v)
		}
	}
	return r
}

// firstPresent returns the value of the first name present in folded.
func firstPresent(folded map[string]any, names []string) (any, bool) {
	for _, n := range names {
		if v, ok := folded[n]; ok {
			return v, true
		}
	}
	return nil, false
}

// text coerces a cell to a trimmed string. Missing markers become "".
func text(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case []byte:
		s = string(t)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		s = strconv.FormatInt(t, 10)
	case int:
		s = strconv.Itoa(t)
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}

	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "none", "null", "<na>":
		return ""
	}
	return s
}

// number coerces a cell to a non-negative float. Anything unparseable is 0.
func number(v any) float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case int:
		f = float64(t)
	case uint64:
		f = float64(t)
	case string:
		f = parseNumber(t)
	case []byte:
		f = parseNumber(string(t))
	case pgtype.Numeric:
		fv, err := t.Float64Value()
		if err != nil || !fv.Valid {
			return 0
		}
		f = fv.Float64
	case pgtype.Float8:
		if !t.Valid {
			return 0
		}
		f = t.Float64
	default:
		f = parseNumber(fmt.Sprint(t))
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// parseNumber parses a numeric string leniently.
// Handles currency symbols, thousands separators, and accounting format
// (parentheses for negative, which then clamps to 0).
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return 0
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if !numericRegex.MatchString(s) {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// zipRow pairs a header with a row of cells. Short rows leave trailing
// columns absent; extra cells are ignored.
func zipRow(header []string, cells []any) map[string]any {
	row := make(map[string]any, len(header))
	for i, name := range header {
		if i >= len(cells) {
			break
		}
		row[name] = cells[i]
	}
	return row
}
