/*
main.go - Application entry point

PURPOSE:
  The ptoplanner binary: a local HTTP server plus a handful of commands for
  working with the same database from a terminal.

COMMANDS:
  serve                       Run the HTTP API and the rollover watch
  settings show               Print the accrual policy
  settings set [flags]        Create or edit the accrual policy
  settings import <file>      Replace everything from a browser export
  events list                 List events with their balance check
  events add [flags]          Plan a new event
  events delete <id>          Remove an event
  events check <id>           Balance check for one event
  summary                     Dashboard
  export --out plan.xlsx      Dashboard as a workbook

EXIT CODES:
  1  other failures
  2  invalid input
  3  overlapping or duplicate event
  4  unknown event, or no settings saved yet

GLOBAL FLAGS:
  --config   Config file (default: ptoplanner.yaml search path)
  --db       SQLite database path; ":memory:" keeps nothing on disk

EXAMPLES:
  ptoplanner settings set --balance 40 --rate 6.15 --period biweekly \
      --last-accrual 2024-01-05 --max-rollover 80
  ptoplanner events add --name "Beach week" --start 2024-07-01 --end 2024-07-07
  ptoplanner serve --port 3000

SEE ALSO:
  - config/config.go: Configuration sources
  - api/server.go: Router configuration
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/pto-planner/config"
	"github.com/warp/pto-planner/generic"
	"github.com/warp/pto-planner/store/memory"
	"github.com/warp/pto-planner/store/sqlite"
	"github.com/warp/pto-planner/timeoff"
)

const appVersion = "0.3.0"

// app carries what every command needs once flags are parsed.
type app struct {
	loader  *config.Loader
	cfgPath string

	cfg     *config.Config
	store   timeoff.Store
	closeFn func() error
	planner *timeoff.Planner
}

// open resolves configuration and opens the store.
func (a *app) open() error {
	cfg, err := a.loader.Load(a.cfgPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if cfg.Database.Path == sqlite.MemoryPath {
		a.store = memory.New()
		a.closeFn = func() error { return nil }
	} else {
		s, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.store = s
		a.closeFn = s.Close
	}

	a.cfg = cfg
	a.planner = timeoff.NewPlanner(a.store, generic.SystemClock{Location: loc})
	return nil
}

func (a *app) close() error {
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

func newRootCmd() *cobra.Command {
	a := &app{loader: config.NewLoader()}

	cmd := &cobra.Command{
		Use:           "ptoplanner",
		Short:         "Plan paid time off against your accrual schedule",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       appVersion,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	cmd.SetVersionTemplate("ptoplanner v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Config file (default: ./ptoplanner.yaml or $XDG_CONFIG_HOME/ptoplanner/ptoplanner.yaml)")
	cmd.PersistentFlags().String("db", "", "SQLite database path (\":memory:\" for a throwaway session)")
	a.loader.Viper().BindPFlag("database.path", cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(
		newServeCmd(a),
		newSettingsCmd(a),
		newEventsCmd(a),
		newSummaryCmd(a),
		newExportCmd(a),
	)
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case generic.IsClientError(err):
		return 2
	case generic.IsConflict(err):
		return 3
	case generic.IsNotFound(err):
		return 4
	default:
		return 1
	}
}
