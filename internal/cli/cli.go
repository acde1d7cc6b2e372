// Package cli implements the unisearch command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JonMunkholm/UniSearch/internal/config"
	"github.com/JonMunkholm/UniSearch/internal/core"
	"github.com/JonMunkholm/UniSearch/internal/logging"
	"github.com/JonMunkholm/UniSearch/internal/source"
)

// version is set at build time with -ldflags.
var version = "development version"

// app carries the state shared by all commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// termWidth reports the output width for table formatting; 0 means
	// unlimited.
	termWidth func() int

	// loadConfig and openTable are replaceable in tests. loadConfig must
	// call apply before validating.
	loadConfig func(apply func(*config.Config)) (*config.Config, error)
	openTable  func(ctx context.Context, cfg config.DataConfig) (*core.Table, error)

	// Data source overrides from persistent flags.
	sourceKind string
	path       string
	table      string
	sheet      string
	logLevel   string

	cfg *config.Config
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:     stdout,
		stderr:     stderr,
		termWidth:  stdoutWidth,
		loadConfig: config.LoadWith,
		openTable:  source.Open,
	}
}

// stdoutWidth returns the terminal width, or 0 when stdout is not a terminal.
func stdoutWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)
	root := a.rootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userError(err))
		return 1
	}
	return 0
}

// userError renders err for the terminal. Known failures get their
// user-facing message and code followed by the technical cause; anything
// else (usually a flag or argument error from cobra) is printed as is.
func userError(err error) string {
	var ue *core.UserError
	if !errors.As(err, &ue) {
		if !core.IsUserFacing(err) {
			return err.Error()
		}
		ue = core.NewUserError(err)
	}
	return fmt.Sprintf("%s (Code: %s). %s: %v", ue.User.Message, ue.User.Code, ue.User.Action, ue.Technical)
}

func (a *app) rootCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	root := &cobra.Command{
		Use:           "unisearch",
		Short:         "Search university programs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate(`{{.Version}}` + "\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.sourceKind, "source", "", "data source kind (sqlite, postgres, csv, json, yaml, xlsx, s3)")
	pf.StringVar(&a.path, "data", "", "dataset file (overrides DATA_PATH)")
	pf.StringVar(&a.table, "table", "", "table name for database sources (overrides DATA_TABLE)")
	pf.StringVar(&a.sheet, "sheet", "", "worksheet for xlsx sources (overrides DATA_SHEET)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")

	root.AddCommand(
		a.queryCmd(),
		a.citiesCmd(),
		a.optionsCmd(),
		a.showCmd(),
		a.serveCmd(),
	)
	return root
}

// setup loads .env and the configuration, applies flag overrides and
// configures logging on stderr.
func (a *app) setup() error {
	_ = godotenv.Load()

	cfg, err := a.loadConfig(a.applyFlags)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Query output goes to stdout; keep logs quiet unless asked.
	level := cfg.Logging.Level
	if a.logLevel == "" && os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	logging.SetupWriter(a.stderr, level, cfg.Logging.Format)
	return nil
}

// applyFlags overlays the persistent flags that were set on cfg.
func (a *app) applyFlags(cfg *config.Config) {
	if a.sourceKind != "" {
		cfg.Data.Source = a.sourceKind
	}
	if a.path != "" {
		cfg.Data.Path = a.path
	}
	if a.table != "" {
		cfg.Data.Table = a.table
	}
	if a.sheet != "" {
		cfg.Data.Sheet = a.sheet
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
}

// load opens the configured dataset.
func (a *app) load(ctx context.Context) (*core.Table, error) {
	t, err := a.openTable(ctx, a.cfg.Data)
	if err != nil {
		return nil, core.NewUserError(err)
	}
	return t, nil
}
