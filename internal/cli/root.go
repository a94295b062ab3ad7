package cli

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackbrew/pkg/buildinfo"
	"github.com/matzehuels/stackbrew/pkg/errors"
)

// Exit codes of the stackbrew binary.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitNoVersions  = 2
	ExitNoReleases  = 3
	ExitInterrupted = 130 // shell convention for SIGINT
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Generate stackbrew library content for Redis Docker images",
		Long: `Stackbrew generates the Docker official-images library file for one major
version of a repository: it reads release tags, keeps the newest release of
every supported series, detects the base distribution of each variant and
prints one library entry per release and distribution.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.updateCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNoVersions:
		return ExitNoVersions
	case errors.ErrCodeNoReleases:
		return ExitNoReleases
	default:
		return ExitFailure
	}
}

// ReportError prints a command error to w. Errors whose code does not abort
// a run, such as an empty output, are printed as warnings.
func ReportError(w io.Writer, err error) {
	if stderrors.Is(err, context.Canceled) {
		printWarning(w, "Operation cancelled by user")
		return
	}
	if code := errors.GetCode(err); code != "" && !errors.Fatal(code) {
		printWarning(w, "%s", errors.UserMessage(err))
		return
	}
	printError(w, "Error: %s", errors.UserMessage(err))
}
