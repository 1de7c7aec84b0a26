// Package cmd provides the CLI commands for upgradecheck.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/upgradecheck/internal/config"
	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
	"github.com/Aman-CERP/upgradecheck/internal/logging"
	"github.com/Aman-CERP/upgradecheck/pkg/version"
)

// Exit codes returned by Execute.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitInhibited = 2
	// ExitAborted means no verdict was reached: a check broke, the facts
	// schema is unsupported, or the run was interrupted.
	ExitAborted = 3
)

// ErrInhibited is returned by `check` when at least one report blocks the upgrade.
var ErrInhibited = errors.New("upgrade is inhibited")

// rootOptions is the state shared by all subcommands.
type rootOptions struct {
	configPath string
	debug      bool

	cfg            *config.Config
	loggingCleanup func()
}

// NewRootCmd creates the root command for the upgradecheck CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "upgradecheck",
		Short: "Pre-flight checks for in-place OS upgrades",
		Long: `upgradecheck inspects a machine before an in-place major-version upgrade
and reports anything that would break it.

Reports flagged as inhibitors block the upgrade until they are resolved.
Facts about the machine are read from a document written by the fact
collector; see 'upgradecheck facts'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("upgradecheck version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a config file (overrides "+config.SystemConfigPath+")")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging to ~/.upgradecheck/logs/")

	cmd.PersistentPreRunE = opts.setup
	cmd.PersistentPostRunE = opts.teardown

	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newFactsCmd(opts))
	cmd.AddCommand(newReportCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads configuration and installs the default logger.
func (o *rootOptions) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg

	if !o.debug {
		slog.SetDefault(logging.StderrLogger(cmd.ErrOrStderr(), cfg.Logging.Level))
		return nil
	}

	logger, cleanup, err := logging.Setup(logging.Config{
		Level:        "debug",
		FilePath:     logging.DefaultLogPath(),
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxFiles:     cfg.Logging.MaxFiles,
		Console:      cmd.ErrOrStderr(),
		ConsoleLevel: cfg.Logging.Level,
	})
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	o.loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("Debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()),
		slog.String("version", version.Version),
		slog.String("command", cmd.CommandPath()))

	return nil
}

func (o *rootOptions) teardown(_ *cobra.Command, _ []string) error {
	if o.loggingCleanup != nil {
		slog.Info("Debug logging stopped")
		o.loggingCleanup()
		o.loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return exitCode(NewRootCmd().Execute(), os.Stderr)
}

// exitCode maps a command error to an exit code, printing it to stderr
// unless it is the inhibited verdict.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInhibited):
		return ExitInhibited
	}

	_, _ = fmt.Fprint(stderr, uerrors.FormatForCLI(err))
	if uerrors.IsFatal(err) {
		return ExitAborted
	}
	return ExitError
}
