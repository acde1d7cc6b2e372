package source

import (
	"math"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/UniSearch/internal/core"
)

func TestFoldColumn(t *testing.T) {
	for _, in := range []string{"fees_std", "feesStd", "Fees Std", "FEES-STD"} {
		assert.Equal(t, "feesstd", foldColumn(in), in)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"  Paris ", "Paris"},
		{"nan", ""},
		{"NaN", ""},
		{"None", ""},
		{"null", ""},
		{"<NA>", ""},
		{[]byte("Lyon"), "Lyon"},
		{math.NaN(), ""},
		{float64(24), "24"},
		{int64(7), "7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, text(tt.in), "text(%#v)", tt.in)
	}
}

func TestNumber(t *testing.T) {
	var numeric pgtype.Numeric
	assert.NoError(t, numeric.Scan("12500.50"))

	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float", 1500.0, 1500},
		{"int64", int64(24), 24},
		{"plain string", "12500", 12500},
		{"currency and separators", "€12,500", 12500},
		{"dollar", "$1,000.25", 1000.25},
		{"accounting negative", "(300)", 0},
		{"negative", "-5", 0},
		{"negative float", -3.0, 0},
		{"garbage", "about 5k", 0},
		{"nan float", math.NaN(), 0},
		{"nan string", "nan", 0},
		{"bytes", []byte("42"), 42},
		{"pg numeric", numeric, 12500.5},
		{"pg numeric null", pgtype.Numeric{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, number(tt.in), 1e-9)
		})
	}
}

func TestToRecords_MapsAliases(t *testing.T) {
	rows := []map[string]any{
		{
			"partner": "Erasmus", "country": "France", "city": "Paris",
			"university": "Sorbonne", "url": "https://sorbonne.fr", "faculty": nil,
			"study": "History", "level": "Master", "degree_duration": int64(24),
			"fees_std": 3000.0, "fees": 3000.0, "currency": "EUR",
			"app_fees_std": "50", "app_fees": "50", "fees_category": "Below €5,000",
			"unrelated": "ignored",
		},
		{
			"Partner": "Direct", "Country": "Switzerland", "City": "nan",
			"University": "ETH", "Study": "CS", "Level": "PhD",
			"degreeDurationMonths": "36", "feesStd": "1,500", "feesCategory": "",
		},
	}

	got := toRecords(rows)
	if assert.Len(t, got, 2) {
		assert.Equal(t, core.Record{
			Partner: "Erasmus", Country: "France", City: "Paris",
			University: "Sorbonne", URL: "https://sorbonne.fr",
			Study: "History", Level: "Master", DegreeDurationMonths: 24,
			FeesStd: 3000, Fees: 3000, Currency: "EUR",
			AppFeesStd: 50, AppFees: 50, FeesCategory: core.FeesBelow5k,
		}, got[0])

		assert.Equal(t, "", got[1].City)
		assert.Equal(t, 36.0, got[1].DegreeDurationMonths)
		assert.Equal(t, 1500.0, got[1].FeesStd)
		assert.Equal(t, "", got[1].FeesCategory, "present but empty category is not derived")
	}
}

func TestToRecords_AliasPrecedenceIsStable(t *testing.T) {
	row := map[string]any{
		"link":          "https://b",
		"url":           "https://a",
		"programme":     "Z",
		"program":       "Y",
		"study":         "X",
		"fees_bracket":  core.Fees5kTo10k,
		"fees_category": core.FeesBelow5k,
		"feesStd":       "9000",
		"fees_std":      "3000",
	}

	for i := 0; i < 100; i++ {
		r := toRecords([]map[string]any{row})[0]
		assert.Equal(t, "https://a", r.URL)
		assert.Equal(t, "X", r.Study)
		assert.Equal(t, core.FeesBelow5k, r.FeesCategory)
		assert.Equal(t, 9000.0, r.FeesStd)
	}
}

func TestToRecords_FallsBackToLaterAlias(t *testing.T) {
	r := toRecords([]map[string]any{{"link": "https://b", "programme": "Z"}})[0]
	assert.Equal(t, "https://b", r.URL)
	assert.Equal(t, "Z", r.Study)
}

func TestToRecords_DerivesCategoryWhenColumnAbsent(t *testing.T) {
	rows := []map[string]any{
		{"country": "Italy", "fees_std": 12000.0},
		{"country": "Italy", "fees_std": 0.0},
		{"country": "Italy", "fees_std": 45000.0},
	}

	got := toRecords(rows)
	assert.Equal(t, core.Fees10kTo20k, got[0].FeesCategory)
	assert.Equal(t, "", got[1].FeesCategory)
	assert.Equal(t, core.FeesAbove30k, got[2].FeesCategory)
}

func TestZipRow(t *testing.T) {
	row := zipRow([]string{"a", "b", "c"}, []any{"1", "2"})
	assert.Equal(t, map[string]any{"a": "1", "b": "2"}, row)

	row = zipRow([]string{"a"}, []any{"1", "extra"})
	assert.Equal(t, map[string]any{"a": "1"}, row)
}
