package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/upgradecheck/internal/facts"
	"github.com/Aman-CERP/upgradecheck/internal/preflight"
	"github.com/Aman-CERP/upgradecheck/internal/ui"
)

func newFactsCmd(root *rootOptions) *cobra.Command {
	var (
		factsPath  string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Show the machine facts the checks consume",
		Long: `Load and validate the facts document and show what the checks will see.

The document is written by the fact collector. It is YAML (or JSON) with
schema_version, architecture, firmware and grub_devices.`,
		Example: `  # Show facts from the configured path
  upgradecheck facts

  # Validate a specific document
  upgradecheck facts --facts ./facts.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := firstNonEmpty(factsPath, root.cfg.Facts.Path)
			set, err := facts.LoadFile(path)
			if err != nil {
				return err
			}

			if jsonOutput {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(set)
			}

			printFacts(cmd.OutOrStdout(), path, set)
			return nil
		},
	}

	cmd.Flags().StringVar(&factsPath, "facts", "", "Facts document (default from config facts.path)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func printFacts(w io.Writer, path string, set *facts.Set) {
	styles := ui.StylesFor(w)

	firmware := make([]string, 0, len(set.Firmware))
	for _, f := range set.Firmware {
		firmware = append(firmware, string(f.Firmware))
	}
	if len(firmware) == 0 {
		firmware = append(firmware, "unknown")
	}

	_, _ = fmt.Fprintln(w, styles.Header.Render("Machine facts"))
	_, _ = fmt.Fprintf(w, "%s %s (schema %s)\n", styles.Label.Render("Source:      "), path, set.SchemaVersion)
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.Label.Render("Architecture:"), set.Arch)
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.Label.Render("Firmware:    "), strings.Join(firmware, ", "))
	_, _ = fmt.Fprintln(w, styles.Label.Render("GRUB devices:"))

	if len(set.GRUBDevices) == 0 {
		_, _ = fmt.Fprintln(w, styles.Dim.Render("  none"))
		return
	}

	problematic := preflight.ProblematicGRUBDevices(set.GRUBDevices)
	for _, d := range set.GRUBDevices {
		if len(d.Partitions) == 0 {
			_, _ = fmt.Fprintf(w, "  %s  %s\n", d.Device, styles.Dim.Render("no partitions"))
			continue
		}

		first := d.Partitions[0].StartOffset
		for _, p := range d.Partitions[1:] {
			first = min(first, p.StartOffset)
		}
		line := fmt.Sprintf("  %s  first partition at %d bytes", d.Device, first)
		if slices.Contains(problematic, d.Device) {
			line += " " + styles.Inhibit.Render(fmt.Sprintf("(below %d KiB)", preflight.SafeOffsetBytes/1024))
		}
		_, _ = fmt.Fprintln(w, line)
	}
}
