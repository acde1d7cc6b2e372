package source

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v2"

	"github.com/JonMunkholm/UniSearch/internal/config"
	"github.com/JonMunkholm/UniSearch/internal/core"
)

// Decode reads records in the given file format from r.
// kind is one of csv, json, yaml or xlsx; sheet selects the xlsx worksheet
// and defaults to the first one.
func Decode(kind string, r io.Reader, sheet string) ([]core.Record, error) {
	var (
		rows []map[string]any
		err  error
	)
	switch kind {
	case config.SourceCSV:
		rows, err = decodeCSV(r)
	case config.SourceJSON:
		rows, err = decodeJSON(r)
	case config.SourceYAML:
		rows, err = decodeYAML(r)
	case config.SourceXLSX:
		rows, err = decodeXLSX(r, sheet)
	default:
		return nil, fmt.Errorf("unsupported data source %q", kind)
	}
	if err != nil {
		return nil, err
	}
	return toRecords(rows), nil
}

// decodeCSV reads a header row followed by data rows. A UTF-8 or UTF-16
// byte order mark, as written by Excel, is stripped.
func decodeCSV(r io.Reader) ([]map[string]any, error) {
	br := transform.NewReader(r, unicode.BOMOverride(encoding.Nop.NewDecoder()))
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode dataset: csv header: %w", err)
	}

	var rows []map[string]any
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode dataset: csv line %d: %w", line, err)
		}
		cells := make([]any, len(rec))
		for i, c := range rec {
			cells[i] = c
		}
		rows = append(rows, zipRow(header, cells))
	}
	return rows, nil
}

// decodeJSON reads an array of objects.
func decodeJSON(r io.Reader) ([]map[string]any, error) {
	var rows []map[string]any
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode dataset: json: %w", err)
	}
	return rows, nil
}

// decodeYAML reads a sequence of mappings.
func decodeYAML(r io.Reader) ([]map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var raw []map[interface{}]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode dataset: yaml: %w", err)
	}

	rows := make([]map[string]any, 0, len(raw))
	for _, m := range raw {
		row := make(map[string]any, len(m))
		for k, v := range m {
			row[fmt.Sprint(k)] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeXLSX reads the header row and data rows of one worksheet.
func decodeXLSX(r io.Reader, sheet string) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("decode dataset: xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("decode dataset: xlsx: sheet %q not found", sheet)
	}

	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("decode dataset: xlsx sheet %q: %w", sheet, err)
	}
	if len(grid) == 0 {
		return nil, nil
	}

	header := grid[0]
	rows := make([]map[string]any, 0, len(grid)-1)
	for _, rec := range grid[1:] {
		if len(rec) == 0 {
			continue
		}
		cells := make([]any, len(rec))
		for i, c := range rec {
			cells[i] = c
		}
		rows = append(rows, zipRow(header, cells))
	}
	return rows, nil
}
