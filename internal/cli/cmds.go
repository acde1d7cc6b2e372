package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/UniSearch/internal/core"
	"github.com/JonMunkholm/UniSearch/internal/export"
	"github.com/JonMunkholm/UniSearch/internal/metrics"
	"github.com/JonMunkholm/UniSearch/internal/web"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
	formatXLSX  = "xlsx"
)

func validFormat(f string, allowed ...string) error {
	for _, a := range allowed {
		if f == a {
			return nil
		}
	}
	return core.InvalidParam("format", f)
}

type queryFlags struct {
	filter   core.FilterState
	page     int
	pageSize int
	all      bool
	format   string
	out      string
}

func (a *app) queryCmd() *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter programs and print one page of results",
		Long: `Filter programs by free text and by country, city, level and fee bracket.

Selector values that do not exist in the dataset fall back to "All", and the
page is clamped to the available range, exactly as in the web UI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd, qf)
		},
	}
	cmd.Flags().SortFlags = false

	f := cmd.Flags()
	f.StringVarP(&qf.filter.SearchText, "search", "s", "", "case-insensitive text to search for")
	f.StringVar(&qf.filter.Country, "country", core.AllValue, "country filter")
	f.StringVar(&qf.filter.City, "city", core.AllValue, "city filter (must belong to --country)")
	f.StringVar(&qf.filter.Level, "level", core.AllValue, "program level filter")
	f.StringVar(&qf.filter.FeesCategory, "fees", core.AllValue, `fee bracket filter, e.g. "Below €5,000"`)
	f.IntVarP(&qf.page, "page", "p", 1, "page number")
	f.IntVarP(&qf.pageSize, "page-size", "n", core.DefaultPageSize, "rows per page (5, 10, 20 or 50)")
	f.BoolVar(&qf.all, "all", false, "output every match instead of one page")
	f.StringVarP(&qf.format, "format", "f", formatTable, "output format (table, json, csv, xlsx)")
	f.StringVarP(&qf.out, "out", "o", "", "write output to FILE atomically instead of stdout")
	return cmd
}

func (a *app) runQuery(cmd *cobra.Command, qf queryFlags) error {
	if err := validFormat(qf.format, formatTable, formatJSON, formatCSV, formatXLSX); err != nil {
		return err
	}
	if qf.format == formatXLSX && qf.out == "" {
		return fmt.Errorf("xlsx output needs --out: %w", core.InvalidParam("out", ""))
	}

	if !core.IsPageSize(qf.pageSize) {
		fmt.Fprintf(a.stderr, "page size %d is not offered; using %d\n", qf.pageSize, core.NormalizePageSize(qf.pageSize))
	}

	t, err := a.load(cmd.Context())
	if err != nil {
		return err
	}

	start := time.Now()
	sess := core.NewSession("cli", t)
	sess.ApplyFilter(qf.filter)
	sess.SetPageSize(qf.pageSize)
	sess.SetPage(qf.page)
	v := sess.View()
	metrics.ObserveQuery("cli", start)

	rows := v.PageRows
	if qf.all {
		rows = sess.Results()
	}

	var buf bytes.Buffer
	switch qf.format {
	case formatJSON:
		var payload any = v
		if qf.all {
			payload = rows
		}
		err = writeJSON(&buf, payload)
	case formatCSV:
		err = export.CSV(&buf, rows)
	case formatXLSX:
		err = export.XLSX(&buf, rows)
	default:
		writeResults(&buf, rows, a.termWidth())
		if !qf.all {
			fmt.Fprintf(&buf, "\nPage %d of %d · %s programs\n",
				v.CurrentPage, v.TotalPages, core.FormatAmount(float64(v.TotalMatches)))
		}
	}
	if err != nil {
		return err
	}
	return a.emit(qf.out, &buf)
}

// emit writes buf to stdout, or atomically replaces the file at path.
func (a *app) emit(path string, buf *bytes.Buffer) error {
	if path == "" {
		_, err := io.Copy(a.stdout, buf)
		return err
	}
	if err := atomic.WriteFile(path, buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(a.stderr, "wrote %s\n", path)
	return nil
}

func (a *app) citiesCmd() *cobra.Command {
	var country, format string

	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List the city options for a country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			t, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			cities := core.AvailableCities(t, country)
			if format == formatJSON {
				return writeJSON(a.stdout, cities)
			}
			for _, c := range cities {
				fmt.Fprintln(a.stdout, c)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&country, "country", core.AllValue, "country to list cities for")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")
	return cmd
}

// optionsOutput is the JSON shape of the options command.
type optionsOutput struct {
	Countries []string `json:"countries"`
	Levels    []string `json:"levels"`
	Fees      []string `json:"fees"`
	PageSizes []int    `json:"pageSizes"`
}

func (a *app) optionsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the selector options of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			t, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			opts := optionsOutput{
				Countries: t.CountryOptions(),
				Levels:    t.LevelOptions(),
				Fees:      t.FeeCategoryOptions(),
				PageSizes: core.PageSizes(),
			}
			if format == formatJSON {
				return writeJSON(a.stdout, opts)
			}

			sizes := make([]string, len(opts.PageSizes))
			for i, n := range opts.PageSizes {
				sizes[i] = strconv.Itoa(n)
			}
			writeOptionList(a.stdout, "Countries", opts.Countries)
			writeOptionList(a.stdout, "Levels", opts.Levels)
			writeOptionList(a.stdout, "Fees", opts.Fees)
			writeOptionList(a.stdout, "Page sizes", sizes)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show the details of one program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format, formatTable, formatJSON); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return core.InvalidParam("id", args[0])
			}
			t, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			sess := core.NewSession("cli", t)
			r, ok := sess.SelectRecordForDetail(id)
			if !ok {
				return fmt.Errorf("record %d: %w", id, core.ErrRecordNotFound)
			}
			lines := core.DetailFields(r)
			if format == formatJSON {
				return writeJSON(a.stdout, web.RecordResponse{Record: r, Detail: lines})
			}
			writeDetail(a.stdout, lines)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			return web.Run(cmd.Context(), a.cfg, t)
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
