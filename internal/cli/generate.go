package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackbrew/pkg/config"
	"github.com/matzehuels/stackbrew/pkg/errors"
	"github.com/matzehuels/stackbrew/pkg/pipeline"
	"github.com/matzehuels/stackbrew/pkg/stackbrew"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	repoOpts
	format string // text, yaml or json
	dryRun bool   // print to stderr instead of stdout
}

// generateCommand creates the generate-stackbrew-content command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:     "generate-stackbrew-content <major>",
		Aliases: []string{"generate"},
		Short:   "Generate stackbrew library content for a major version",
		Long: `Generate stackbrew library content for one major version.

This command:
  1. Lists the release tags of the major version on the remote
  2. Drops end-of-life series and keeps the newest patch of every series
  3. Detects the base distribution of every variant from its Dockerfile
  4. Generates the Docker tags of every release and distribution
  5. Prints the library entries to stdout`,
		Example: `  stackbrew generate-stackbrew-content 8
  stackbrew generate 8 --remote https://github.com/redis/docker-library-redis.git
  stackbrew generate 7 --format json --skip-fetch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			major, err := parseMajor(args[0])
			if err != nil {
				return err
			}
			format, err := stackbrew.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cfg, pipeline.Options{
				Major:               major,
				DropStaleMilestones: cfg.DropStaleMilestones,
				SkipFetch:           opts.skipFetch,
				Format:              format,
			}, &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(stackbrew.FormatText), "output format: "+stackbrew.FormatNames())
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the generated content to stderr instead of stdout")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, cfg config.Config, opts pipeline.Options, g *generateOpts) error {
	if c.verbose {
		printInfo(c.Stderr, "Stackbrew Library Generator")
		printKeyValue(c.Stderr, "Major", strconv.Itoa(opts.Major))
		printKeyValue(c.Stderr, "Remote", cfg.Remote)
		printKeyValue(c.Stderr, "Repository", cfg.Repository)
	}

	result, err := c.generate(ctx, cfg, opts, g.noCache)
	if err != nil {
		return err
	}
	if result.Warning != nil {
		printWarning(c.Stderr, "%s", errors.UserMessage(result.Warning))
		return nil
	}

	if g.dryRun {
		fmt.Fprintln(c.Stderr, "DRY RUN: Would generate stackbrew library")
		fmt.Fprintln(c.Stderr, "Generated content:")
		fmt.Fprintln(c.Stderr, result.Output)
		return nil
	}

	fmt.Fprintln(c.Stdout, result.Output)
	if c.verbose {
		printSuccess(c.Stderr, "Generated stackbrew library with %d entries", len(result.Entries))
		printStats(c.Stderr, result.Stats)
	}
	return nil
}
