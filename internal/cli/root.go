package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/KUROROSUKE/english-learning/internal/clock"
	"github.com/KUROROSUKE/english-learning/internal/config"
	"github.com/KUROROSUKE/english-learning/internal/store"
	"github.com/KUROROSUKE/english-learning/internal/study"
)

// RootOptions holds global flags and the state resolved from them.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// Resolved in PersistentPreRunE.
	Config config.Config
	Logger *slog.Logger

	// Injectable for tests; NewRootCommand uses the wall clock and UUIDv7.
	Clock    clock.Clock
	TraceIDs study.TraceIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the studyengine CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{
		Clock:    clock.System{},
		TraceIDs: study.UUIDv7Generator{},
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	d := config.Defaults()

	cmd := &cobra.Command{
		Use:   "studyengine",
		Short: "Quiz attempt log and spaced-repetition scheduler",
		Long: `Record graded quiz attempts, schedule item reviews with SM-2,
list what is due and rank weak items, quizzes and tags.

Settings come from defaults, --config (YAML), .env, STUDY_* environment
variables and flags, in increasing precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			cfg, err := config.Load(config.Sources{File: opts.ConfigFile, Flags: cmd.Flags()})
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = cfg
			opts.Logger = cfg.NewLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigFile, "config", "", "path to YAML config file")
	pf.String("db", d.DB, "path to SQLite database")
	pf.String("driver", d.Driver, "SQLite driver (sqlite3|sqlite)")
	pf.String("log-level", d.LogLevel, "log level (debug|info|warn|error)")
	pf.String("log-format", d.LogFormat, "log format (text|json)")

	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewDueCommand(opts))
	cmd.AddCommand(NewCardCommand(opts))
	cmd.AddCommand(NewWeakCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewRemindCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// openStore opens the configured database.
func (o *RootOptions) openStore() (*store.Store, error) {
	o.Logger.Debug("opening database", "path", o.Config.DB, "driver", o.Config.Driver)
	st, err := store.OpenDriver(o.Config.Driver, o.Config.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// closeStore closes st, logging any error.
func (o *RootOptions) closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		o.Logger.Error("error closing database", "error", err)
	}
}
