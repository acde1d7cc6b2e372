package source

import (
	"context"
	"encoding/csv"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/UniSearch/internal/config"
	"github.com/JonMunkholm/UniSearch/internal/core"
)

var sampleGrid = [][]string{
	{"partner", "country", "city", "university", "url", "faculty", "study", "level", "degree_duration", "fees_std", "fees", "currency", "app_fees_std", "app_fees", "fees_category"},
	{"Erasmus", "France", "Paris", "Sorbonne", "https://sorbonne.fr", "", "History", "Master", "24", "3000", "3000", "EUR", "0", "0", "Below €5,000"},
	{"Erasmus", "Switzerland", "Zurich", "ETH", "https://ethz.ch", "D-INFK", "Computer Science", "Master", "24", "1500", "1460", "CHF", "150", "146", "Below €5,000"},
	{"Direct", "Germany", "nan", "TUM", "https://tum.de", "", "Physics", "PhD", "36", "nan", "", "", "", "", ""},
}

func sampleCSV(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	w := csv.NewWriter(&b)
	require.NoError(t, w.WriteAll(sampleGrid))
	return b.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func assertSample(t *testing.T, tbl *core.Table) {
	t.Helper()
	require.Equal(t, 3, tbl.Len())

	first, ok := tbl.Record(0)
	require.True(t, ok)
	assert.Equal(t, "Sorbonne", first.University)
	assert.Equal(t, "", first.Faculty)
	assert.Equal(t, core.FeesBelow5k, first.FeesCategory)

	second, _ := tbl.Record(1)
	assert.Equal(t, "CHF", second.Currency)
	assert.Equal(t, 146.0, second.AppFees)

	third, _ := tbl.Record(2)
	assert.Equal(t, "", third.City)
	assert.Equal(t, 0.0, third.FeesStd)
	assert.Equal(t, "", third.FeesCategory)

	assert.Equal(t, []string{core.AllValue, "France", "Germany", "Switzerland"}, tbl.CountryOptions())
}

func TestOpen_CSV(t *testing.T) {
	path := writeFile(t, "programs.csv", sampleCSV(t))

	tbl, err := Open(context.Background(), config.DataConfig{Path: path})
	require.NoError(t, err)
	assertSample(t, tbl)
}

func TestOpen_CSVWithBOM(t *testing.T) {
	path := writeFile(t, "programs.csv", "\uFEFF"+sampleCSV(t))

	tbl, err := Open(context.Background(), config.DataConfig{Source: "csv", Path: path})
	require.NoError(t, err)
	assertSample(t, tbl)
}

func TestOpen_JSON(t *testing.T) {
	path := writeFile(t, "programs.json", `[
		{"partner":"Erasmus","country":"France","city":"Paris","university":"Sorbonne","study":"History","level":"Master","feesStd":3000,"feesCategory":"Below €5,000"},
		{"partner":"Erasmus","country":"Switzerland","city":"Zurich","university":"ETH","study":"Computer Science","level":"Master","feesStd":1500,"appFees":146,"currency":"CHF","feesCategory":"Below €5,000"},
		{"partner":"Direct","country":"Germany","city":null,"university":"TUM","study":"Physics","level":"PhD","feesStd":null,"feesCategory":null}
	]`)

	tbl, err := Open(context.Background(), config.DataConfig{Path: path})
	require.NoError(t, err)
	assertSample(t, tbl)
}

func TestOpen_YAML(t *testing.T) {
	path := writeFile(t, "programs.yaml", `
- partner: Erasmus
  country: France
  city: Paris
  university: Sorbonne
  study: History
  level: Master
  fees_std: 3000
  fees_category: "Below €5,000"
- partner: Erasmus
  country: Switzerland
  city: Zurich
  university: ETH
  study: Computer Science
  level: Master
  fees_std: 1500
  app_fees: 146
  currency: CHF
  fees_category: "Below €5,000"
- partner: Direct
  country: Germany
  city: ~
  university: TUM
  study: Physics
  level: PhD
  fees_category: ~
`)

	tbl, err := Open(context.Background(), config.DataConfig{Path: path})
	require.NoError(t, err)
	assertSample(t, tbl)
}

func TestOpen_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range sampleGrid {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	path := filepath.Join(t.TempDir(), "programs.xlsx")
	require.NoError(t, f.SaveAs(path))

	tbl, err := Open(context.Background(), config.DataConfig{Path: path})
	require.NoError(t, err)
	assertSample(t, tbl)

	_, err = Open(context.Background(), config.DataConfig{Path: path, Sheet: "Missing"})
	assert.ErrorContains(t, err, `sheet "Missing" not found`)
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universities.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE universities (
		partner TEXT, country TEXT, city TEXT, university TEXT, url TEXT, faculty TEXT,
		study TEXT, level TEXT, degree_duration REAL, fees_std REAL, fees REAL,
		currency TEXT, app_fees_std REAL, app_fees REAL, fees_category TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO universities VALUES
		('Erasmus','France','Paris','Sorbonne','https://sorbonne.fr',NULL,'History','Master',24,3000,3000,'EUR',0,0,'Below €5,000'),
		('Erasmus','Switzerland','Zurich','ETH','https://ethz.ch','D-INFK','Computer Science','Master',24,1500,1460,'CHF',150,146,'Below €5,000'),
		('Direct','Germany',NULL,'TUM','https://tum.de',NULL,'Physics','PhD',36,NULL,NULL,NULL,NULL,NULL,NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	tbl, err := Open(context.Background(), config.DataConfig{Path: path, Table: "universities"})
	require.NoError(t, err)
	assertSample(t, tbl)

	_, err = Open(context.Background(), config.DataConfig{Path: path, Table: "programs"})
	require.Error(t, err)
	assert.Equal(t, "SRC005", core.MapError(err).Code)
}

func TestOpen_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Open(context.Background(), config.DataConfig{Path: filepath.Join(t.TempDir(), "nope.db")})
		require.Error(t, err)
		assert.Equal(t, "SRC001", core.MapError(err).Code)
	})

	t.Run("unsupported source", func(t *testing.T) {
		_, err := Open(context.Background(), config.DataConfig{Source: "mongo"})
		require.Error(t, err)
		assert.Equal(t, "SRC003", core.MapError(err).Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeFile(t, "bad.json", `{"not": "an array"`)
		_, err := Open(context.Background(), config.DataConfig{Path: path})
		require.Error(t, err)
		assert.Equal(t, "SRC002", core.MapError(err).Code)
	})

	t.Run("s3 sqlite key", func(t *testing.T) {
		_, err := Open(context.Background(), config.DataConfig{
			Source: "s3",
			S3:     config.S3Config{Endpoint: "localhost:9000", Bucket: "b", Key: "data.db"},
		})
		require.Error(t, err)
		assert.Equal(t, "SRC003", core.MapError(err).Code)
	})
}

func TestDecode_EmptyInputs(t *testing.T) {
	for _, kind := range []string{config.SourceCSV, config.SourceJSON, config.SourceYAML} {
		records, err := Decode(kind, strings.NewReader(""), "")
		require.NoError(t, err, kind)
		assert.Empty(t, records, kind)
	}
}

func TestDecode_CSVHeaderOnly(t *testing.T) {
	records, err := Decode(config.SourceCSV, strings.NewReader("country,city\n"), "")
	require.NoError(t, err)
	assert.Empty(t, records)
}
