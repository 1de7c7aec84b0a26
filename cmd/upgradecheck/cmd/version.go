package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/upgradecheck/internal/facts"
	"github.com/Aman-CERP/upgradecheck/pkg/version"
)

// versionOutput adds the supported facts schema to the build info.
type versionOutput struct {
	version.BuildInfo
	FactsSchema string `json:"facts_schema"`
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	var jsonOutput bool
	var shortOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version information including git commit, build date, Go version and the supported facts schema.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if shortOutput {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Short())
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(versionOutput{BuildInfo: version.GetInfo(), FactsSchema: facts.SupportedSchema})
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\nfacts schema: %s\n", version.String(), facts.SupportedSchema)
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	cmd.Flags().BoolVar(&shortOutput, "short", false, "Output only the version number")

	return cmd
}
