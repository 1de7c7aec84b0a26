package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"github.com/spf13/cobra"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
	"github.com/Aman-CERP/upgradecheck/internal/logging"
	"github.com/Aman-CERP/upgradecheck/internal/ui"
)

type logsOptions struct {
	follow  bool
	lines   int
	level   string
	filter  string
	noColor bool
	logFile string
}

func newLogsCmd() *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View the debug log",
		Long: `View the log written by 'upgradecheck --debug'.

By default the last 50 lines are shown. Use -f to follow new entries.`,
		Example: `  upgradecheck logs                 # Last 50 lines
  upgradecheck logs -n 200          # Last 200 lines
  upgradecheck logs -f              # Follow in real time
  upgradecheck logs --level error   # Errors only
  upgradecheck logs --filter RHN    # Lines matching a pattern`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&opts.level, "level", "", "Filter by log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Filter by pattern (regex)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&opts.logFile, "file", "", "Path to log file")

	return cmd
}

func runLogs(cmd *cobra.Command, opts logsOptions) error {
	path, err := logging.FindLogFile(opts.logFile)
	if err != nil {
		return err
	}

	var pattern *regexp.Regexp
	if opts.filter != "" {
		pattern, err = regexp.Compile(opts.filter)
		if err != nil {
			return uerrors.ValidationError("invalid filter pattern", err).WithDetail("pattern", opts.filter)
		}
	}

	out := cmd.OutOrStdout()
	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:   opts.level,
		Pattern: pattern,
		NoColor: opts.noColor || !ui.IsTTY(out) || ui.DetectNoColor(),
	}, out)

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Log file: %s\n---\n", path)

	if opts.follow {
		return runFollow(cmd, viewer, path)
	}

	entries, err := viewer.Tail(path, opts.lines)
	if err != nil {
		return err
	}
	viewer.Print(entries)
	return nil
}

func runFollow(cmd *cobra.Command, viewer *logging.Viewer, path string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	entries := make(chan logging.LogEntry, 100)
	errCh := make(chan error, 1)

	go func() {
		errCh <- viewer.Follow(ctx, path, entries)
	}()

	for {
		select {
		case entry := <-entries:
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), viewer.FormatEntry(entry))
		case err := <-errCh:
			return err
		case <-ctx.Done():
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "\n---\nStopped.")
			return <-errCh
		}
	}
}
