package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/UniSearch/internal/core"
)

func sampleRecords() []core.Record {
	t := core.NewTable([]core.Record{
		{Partner: "Erasmus", Country: "Switzerland", City: "Zurich", University: "ETH",
			Study: "Computer Science", Level: "Master", DegreeDurationMonths: 24,
			FeesStd: 1500, Fees: 1460, Currency: "CHF", FeesCategory: core.FeesBelow5k},
		{Partner: "Direct", Country: "Germany", University: "TUM, Munich", Study: "Physics", Level: "PhD"},
	})
	return t.Records()
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sampleRecords()))

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, Columns, lines[0])
	assert.Equal(t, []string{
		"0", "Erasmus", "Switzerland", "Zurich", "ETH", "", "", "Computer Science", "Master",
		"24", "1500", "1460", "CHF", "0", "0", "Below €5,000",
	}, lines[1])
	assert.Equal(t, "TUM, Munich", lines[2][4])
}

func TestCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, nil))

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "ETH", rows[1][4])
	assert.Equal(t, "1500", rows[1][10])
	assert.Equal(t, "PhD", rows[2][8])
}
