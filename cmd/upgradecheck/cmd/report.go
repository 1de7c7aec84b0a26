package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/upgradecheck/internal/preflight"
	"github.com/Aman-CERP/upgradecheck/internal/report"
	"github.com/Aman-CERP/upgradecheck/internal/ui"
)

func newReportCmd(root *rootOptions) *cobra.Command {
	var (
		reportPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show reports from the last check",
		Long: `Show the reports written by the last 'upgradecheck check' run, with
summaries and remediation hints.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := firstNonEmpty(reportPath, root.cfg.Reports.Path)
			doc, err := report.LoadFile(path)
			if err != nil {
				return err
			}

			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(doc)
			}

			printDocument(cmd, doc)

			if !preflight.NeedsCheck(root.cfg.DataDir) {
				if age := preflight.MarkerAge(root.cfg.DataDir, time.Now()); age > 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nLast passing check: %s ago\n", formatAge(age))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "Report file (default from config reports.path)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func printDocument(cmd *cobra.Command, doc *report.Document) {
	w := cmd.OutOrStdout()
	styles := ui.StylesFor(w)

	_, _ = fmt.Fprintln(w, styles.Header.Render(fmt.Sprintf("Reports generated %s", doc.GeneratedAt.Format(time.RFC3339))))

	if len(doc.Entries) == 0 {
		_, _ = fmt.Fprintln(w, "No reports. The upgrade is not inhibited.")
		return
	}

	inhibitors := 0
	for _, r := range doc.Entries {
		sev := string(r.Severity())
		title := r.Title()
		if r.IsInhibitor() {
			inhibitors++
			title += " " + styles.Inhibit.Render("[INHIBITOR]")
		}

		_, _ = fmt.Fprintf(w, "\n(%s) %s\n", styles.Severity(sev).Render(strings.ToUpper(sev)), title)
		if r.Source() != "" {
			_, _ = fmt.Fprintf(w, "  %s %s\n", styles.Label.Render("Check:"), r.Source())
		}
		if tags := r.Tags(); len(tags) > 0 {
			names := make([]string, len(tags))
			for i, t := range tags {
				names[i] = string(t)
			}
			_, _ = fmt.Fprintf(w, "  %s %s\n", styles.Label.Render("Tags:"), strings.Join(names, ", "))
		}
		_, _ = fmt.Fprintf(w, "  %s\n", styles.Label.Render("Summary:"))
		for _, line := range strings.Split(r.Summary(), "\n") {
			_, _ = fmt.Fprintf(w, "    %s\n", line)
		}
		if r.Remediation() != "" {
			_, _ = fmt.Fprintf(w, "  %s\n", styles.Label.Render("Remediation:"))
			for _, line := range strings.Split(r.Remediation(), "\n") {
				_, _ = fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}

	_, _ = fmt.Fprintf(w, "\n%d report(s), %d inhibitor(s)\n", len(doc.Entries), inhibitors)
}
