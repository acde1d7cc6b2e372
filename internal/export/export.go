// Package export writes query results as CSV or XLSX.
//
// Columns use the snake_case names of the original dataset, so an exported
// file can be loaded back as a csv or xlsx data source.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/UniSearch/internal/core"
)

// SheetName is the worksheet written by XLSX.
const SheetName = "Programs"

// Content types for HTTP responses.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Columns is the header row of every export.
var Columns = []string{
	"id", "partner", "country", "city", "university", "url", "faculty", "study", "level",
	"degree_duration", "fees_std", "fees", "currency", "app_fees_std", "app_fees", "fees_category",
}

// flushInterval is how many CSV rows are buffered between flushes.
const flushInterval = 1000

// Row returns the record's cells in Columns order.
func Row(r core.Record) []any {
	return []any{
		r.ID, r.Partner, r.Country, r.City, r.University, r.URL, r.Faculty, r.Study, r.Level,
		r.DegreeDurationMonths, r.FeesStd, r.Fees, r.Currency, r.AppFeesStd, r.AppFees, r.FeesCategory,
	}
}

// CSV writes a header and one line per record. When w is an http.Flusher
// the response is flushed periodically.
func CSV(w io.Writer, records []core.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	line := make([]string, len(Columns))
	for i, r := range records {
		for j, v := range Row(r) {
			line[j] = formatCell(v)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
		if (i+1)%flushInterval == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return err
			}
			if f, ok := w.(interface{ Flush() }); ok {
				f.Flush()
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// XLSX writes a single-sheet workbook with a header and one row per record.
func XLSX(w io.Writer, records []core.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("xlsx stream: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("xlsx header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, Row(r)); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("xlsx flush: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// formatCell renders a cell for CSV. Numbers drop a trailing ".0".
func formatCell(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
