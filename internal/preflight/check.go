package preflight

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
	"github.com/Aman-CERP/upgradecheck/internal/report"
	"github.com/Aman-CERP/upgradecheck/internal/ui"
)

// Check is a single pre-upgrade check.
type Check interface {
	// Name returns the stable check identifier.
	Name() string
	// Run evaluates the check and hands any reports to sink. An error means the
	// check itself is broken, not that the upgrade is unsafe.
	Run(ctx context.Context, sink report.Sink) error
}

// CheckStatus represents the outcome of a check.
type CheckStatus int

const (
	// StatusPass indicates the check produced no reports.
	StatusPass CheckStatus = iota
	// StatusWarn indicates reports that do not block the upgrade.
	StatusWarn
	// StatusInhibit indicates at least one inhibiting report.
	StatusInhibit
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusInhibit:
		return "INHIBIT"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the status by name in JSON output.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult holds the result of a single check.
type CheckResult struct {
	Name    string          `json:"name"`
	Status  CheckStatus     `json:"status"`
	Reports []report.Report `json:"reports,omitempty"`
}

// IsInhibited returns true if the check blocks the upgrade.
func (r CheckResult) IsInhibited() bool {
	return r.Status == StatusInhibit
}

// Runner executes checks one after another.
type Runner struct {
	verbose bool
	output  io.Writer
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithVerbose prints report summaries and remediation hints.
func WithVerbose(verbose bool) Option {
	return func(r *Runner) {
		r.verbose = verbose
	}
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.output = w
	}
}

// WithLogger sets the logger used for run progress.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a new Runner with the given options.
func New(opts ...Option) *Runner {
	r := &Runner{
		output: os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes checks in order. Each check reports into its own collector.
// A check returning an error aborts the run: results gathered so far are
// returned together with an ERR_502_CHECK_FAILED error, or ERR_503_INTERRUPTED
// when ctx ended.
func (r *Runner) Run(ctx context.Context, checks ...Check) ([]CheckResult, error) {
	results := make([]CheckResult, 0, len(checks))

	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			return results, uerrors.Wrap(uerrors.ErrCodeInterrupted, err).WithDetail("check", c.Name())
		}

		r.logger.Debug("Running check", slog.String("check", c.Name()))

		collector := report.NewCollector()
		if err := c.Run(ctx, collector); err != nil {
			if ctx.Err() != nil {
				r.logger.Warn("Check interrupted", slog.String("check", c.Name()), slog.String("error", err.Error()))
				return results, uerrors.New(uerrors.ErrCodeInterrupted, fmt.Sprintf("check %s interrupted", c.Name()), err).
					WithDetail("check", c.Name())
			}
			r.logger.Error("Check failed", slog.String("check", c.Name()), slog.String("error", err.Error()))
			return results, uerrors.New(uerrors.ErrCodeCheckFailed, fmt.Sprintf("check %s failed", c.Name()), err).
				WithDetail("check", c.Name())
		}

		result := CheckResult{
			Name:    c.Name(),
			Status:  statusOf(collector),
			Reports: collector.Reports(),
		}
		r.logger.Debug("Check finished",
			slog.String("check", result.Name),
			slog.String("status", result.Status.String()),
			slog.Int("reports", len(result.Reports)))
		results = append(results, result)
	}

	return results, nil
}

func statusOf(c *report.Collector) CheckStatus {
	switch {
	case c.HasInhibitor():
		return StatusInhibit
	case c.Len() > 0:
		return StatusWarn
	default:
		return StatusPass
	}
}

// HasInhibitors returns true if any check blocks the upgrade.
func (r *Runner) HasInhibitors(results []CheckResult) bool {
	for _, res := range results {
		if res.IsInhibited() {
			return true
		}
	}
	return false
}

// SummaryStatus returns a summary status string for the results.
func (r *Runner) SummaryStatus(results []CheckResult) string {
	hasWarnings := false

	for _, res := range results {
		if res.IsInhibited() {
			return "inhibited"
		}
		if res.Status == StatusWarn {
			hasWarnings = true
		}
	}

	if hasWarnings {
		return "ready_with_warnings"
	}
	return "ready"
}

// Reports flattens the reports of all results in run order.
func Reports(results []CheckResult) []report.Report {
	var out []report.Report
	for _, res := range results {
		out = append(out, res.Reports...)
	}
	return out
}

// PrintResults prints check results to the configured output.
func (r *Runner) PrintResults(results []CheckResult) {
	styles := ui.StylesFor(r.output)

	_, _ = fmt.Fprintln(r.output, styles.Header.Render("Upgrade Pre-flight Check"))
	_, _ = fmt.Fprintln(r.output, styles.Header.Render("========================"))
	_, _ = fmt.Fprintln(r.output)

	for _, res := range results {
		_, _ = fmt.Fprintf(r.output, "[%s] %s\n", r.statusIcon(styles, res.Status), res.Name)
		for _, rep := range res.Reports {
			sev := string(rep.Severity())
			line := fmt.Sprintf("      (%s) %s", styles.Severity(sev).Render(strings.ToUpper(sev)), rep.Title())
			if rep.IsInhibitor() {
				line += " " + styles.Inhibit.Render("[INHIBITOR]")
			}
			_, _ = fmt.Fprintln(r.output, line)
			if r.verbose {
				printIndented(r.output, styles.Label.Render("Summary:"), rep.Summary())
				if rep.Remediation() != "" {
					printIndented(r.output, styles.Label.Render("Remediation:"), rep.Remediation())
				}
			}
		}
	}

	_, _ = fmt.Fprintln(r.output)
	status := r.SummaryStatus(results)
	_, _ = fmt.Fprintf(r.output, "Status: %s\n", strings.ToUpper(status))

	var inhibitors []string
	for _, res := range results {
		for _, rep := range res.Reports {
			if rep.IsInhibitor() {
				inhibitors = append(inhibitors, res.Name+": "+rep.Title())
			}
		}
	}

	if len(inhibitors) > 0 {
		_, _ = fmt.Fprintln(r.output)
		_, _ = fmt.Fprintf(r.output, "%d inhibitor(s):\n", len(inhibitors))
		for _, i := range inhibitors {
			_, _ = fmt.Fprintf(r.output, "  - %s\n", i)
		}
	}
}

func printIndented(w io.Writer, label, text string) {
	_, _ = fmt.Fprintf(w, "        %s\n", label)
	for _, line := range strings.Split(text, "\n") {
		_, _ = fmt.Fprintf(w, "          %s\n", line)
	}
}

func (r *Runner) statusIcon(styles ui.Styles, status CheckStatus) string {
	switch status {
	case StatusPass:
		return styles.Pass.Render("PASS")
	case StatusWarn:
		return styles.Warning.Render("WARN")
	case StatusInhibit:
		return styles.Inhibit.Render("FAIL")
	default:
		return "????"
	}
}
