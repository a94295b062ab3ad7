package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackbrew/pkg/config"
	"github.com/matzehuels/stackbrew/pkg/errors"
	"github.com/matzehuels/stackbrew/pkg/pipeline"
	"github.com/matzehuels/stackbrew/pkg/stackbrew"
)

// updateOpts holds the command-line flags for the update command.
type updateOpts struct {
	repoOpts
	input  string // existing library file
	output string // destination; stdout when empty
}

// updateCommand creates the update-stackbrew-file command.
func (c *CLI) updateCommand() *cobra.Command {
	var opts updateOpts

	cmd := &cobra.Command{
		Use:   "update-stackbrew-file <major>",
		Short: "Replace the entries of a major version in a library file",
		Long: `Update a stackbrew library file by replacing the entries of one major version.

This command:
  1. Reads the existing library file
  2. Generates new library content for the major version
  3. Replaces all entries of that major version at their original position
  4. Keeps the header and the entries of other major versions
  5. Writes the result to stdout, or to --output`,
		Example: `  stackbrew update-stackbrew-file 8 --input library/redis
  stackbrew update-stackbrew-file 8 -i library/redis -o library/redis`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			major, err := parseMajor(args[0])
			if err != nil {
				return err
			}
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return c.runUpdate(cmd.Context(), cfg, pipeline.Options{
				Major:               major,
				DropStaleMilestones: cfg.DropStaleMilestones,
				SkipFetch:           opts.skipFetch,
				Format:              stackbrew.FormatText,
			}, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "library file to update (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func (c *CLI) runUpdate(ctx context.Context, cfg config.Config, opts pipeline.Options, uo *updateOpts) error {
	raw, err := os.ReadFile(uo.input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeNotFound, "input file does not exist: %s", uo.input)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", uo.input)
	}

	if c.verbose {
		printInfo(c.Stderr, "Stackbrew Library File Updater")
		printKeyValue(c.Stderr, "Input", uo.input)
		if uo.output != "" {
			printKeyValue(c.Stderr, "Output", uo.output)
		} else {
			printKeyValue(c.Stderr, "Output", "stdout")
		}
		printKeyValue(c.Stderr, "Major", strconv.Itoa(opts.Major))
		printKeyValue(c.Stderr, "Remote", cfg.Remote)
	}

	result, err := c.generate(ctx, cfg, opts, uo.noCache)
	if err != nil {
		return err
	}
	// Replacing with nothing would delete the major's entries.
	if result.Warning != nil {
		return result.Warning
	}

	updated := stackbrew.UpdateLibrary(string(raw), opts.Major, result.Output)

	if uo.output == "" {
		fmt.Fprint(c.Stdout, updated)
		if c.verbose {
			printSuccess(c.Stderr, "Generated updated stackbrew content for %d.x", opts.Major)
		}
		return nil
	}

	if err := os.WriteFile(uo.output, []byte(updated), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", uo.output)
	}
	printSuccess(c.Stderr, "Updated %s", uo.output)
	return nil
}
