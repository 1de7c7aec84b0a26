package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/upgradecheck/internal/cln"
	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
	"github.com/Aman-CERP/upgradecheck/internal/facts"
	"github.com/Aman-CERP/upgradecheck/internal/platform"
	"github.com/Aman-CERP/upgradecheck/internal/preflight"
	"github.com/Aman-CERP/upgradecheck/internal/report"
)

type checkOptions struct {
	factsPath  string
	reportPath string
	noReport   bool
	verbose    bool
	jsonOutput bool
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the pre-upgrade checks",
		Long: `Run every pre-upgrade check against the machine facts.

Checks:
  - check_first_partition_offset: BIOS boot disks need 1 MiB before the
    first partition for the GRUB2 core image
  - switch_cln_channel_download: CloudLinux systems are moved to the CLN
    channel of the target release (CloudLinux only)

Reports are written to the report file. The command exits with status 2
when the upgrade is inhibited and 1 on any other failure.`,
		Example: `  # Run all checks
  upgradecheck check

  # Use a specific facts document and show remediation hints
  upgradecheck check --facts ./facts.yaml --verbose

  # JSON output for scripting
  upgradecheck check --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.factsPath, "facts", "", "Facts document (default from config facts.path)")
	cmd.Flags().StringVar(&opts.reportPath, "report", "", "Report file (default from config reports.path)")
	cmd.Flags().BoolVar(&opts.noReport, "no-report", false, "Do not write the report file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show report summaries and remediation")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// CheckOutput is the JSON output of `check`.
type CheckOutput struct {
	Status     string                  `json:"status"`
	Checks     []preflight.CheckResult `json:"checks"`
	Inhibitors []string                `json:"inhibitors,omitempty"`
	ReportPath string                  `json:"report_path,omitempty"`
}

func runCheck(cmd *cobra.Command, root *rootOptions, opts checkOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := root.cfg
	factsPath := firstNonEmpty(opts.factsPath, cfg.Facts.Path)
	reportPath := firstNonEmpty(opts.reportPath, cfg.Reports.Path)
	if opts.noReport {
		reportPath = ""
	}

	set, err := facts.LoadFile(factsPath)
	if err != nil {
		return err
	}

	logger := slog.Default()
	checks := buildChecks(set, root, logger)

	runner := preflight.New(
		preflight.WithVerbose(opts.verbose),
		preflight.WithOutput(cmd.OutOrStdout()),
		preflight.WithLogger(logger),
	)

	results, err := runner.Run(ctx, checks...)
	if err != nil {
		if uerrors.GetCode(err) == uerrors.ErrCodeInterrupted {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Interrupted. No reports were written and the pass marker is unchanged.")
		}
		return err
	}

	if reportPath != "" {
		if err := report.SaveFile(reportPath, preflight.Reports(results)); err != nil {
			return err
		}
	}

	inhibited := runner.HasInhibitors(results)
	recordOutcome(cfg.DataDir, inhibited, logger)

	if opts.jsonOutput {
		if err := writeCheckJSON(cmd, runner, results, reportPath); err != nil {
			return err
		}
	} else {
		runner.PrintResults(results)
		if reportPath != "" {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nReports written to %s\n", reportPath)
		}
	}

	if inhibited {
		return ErrInhibited
	}
	return nil
}

func buildChecks(set facts.Provider, root *rootOptions, logger *slog.Logger) []preflight.Check {
	cfg := root.cfg
	switcher := cln.NewSwitcher(
		cln.WithSwitchBin(cfg.Channel.SwitchBin),
		cln.WithYumBin(cfg.Channel.YumBin),
	)

	return []preflight.Check{
		preflight.NewPartitionOffsetCheck(set, preflight.WithCheckLogger(logger)),
		preflight.NewChannelSwitchCheck(
			platform.CloudLinux(cfg.Platform.OSReleasePath),
			switcher,
			preflight.WithCheckLogger(logger),
		),
	}
}

// recordOutcome updates the pass marker. Marker failures never fail the run.
func recordOutcome(dataDir string, inhibited bool, logger *slog.Logger) {
	var err error
	if inhibited {
		err = preflight.ClearMarker(dataDir)
	} else {
		err = preflight.MarkPassed(dataDir, time.Now())
	}
	if err != nil {
		logger.Debug("Failed to update pass marker",
			slog.String("data_dir", dataDir),
			slog.String("error", err.Error()))
	}
}

func writeCheckJSON(cmd *cobra.Command, runner *preflight.Runner, results []preflight.CheckResult, reportPath string) error {
	out := CheckOutput{
		Status:     runner.SummaryStatus(results),
		Checks:     results,
		ReportPath: reportPath,
	}
	for _, res := range results {
		for _, r := range res.Reports {
			if r.IsInhibitor() {
				out.Inhibitors = append(out.Inhibitors, res.Name+": "+r.Title())
			}
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// formatAge renders a marker age for humans.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Hour:
		return "less than 1 hour"
	case d < 24*time.Hour:
		h := int(d.Hours())
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
}
