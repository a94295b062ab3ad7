package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackbrew/pkg/buildinfo"
)

// versionCommand creates the version command. Output goes to stderr like all
// non-library output.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				fmt.Fprintln(c.Stderr, buildinfo.String())
				return nil
			}
			fmt.Fprintln(c.Stderr, buildinfo.Short())
			return nil
		},
	}
}
