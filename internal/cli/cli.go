package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackbrew/pkg/cache"
	"github.com/matzehuels/stackbrew/pkg/config"
	"github.com/matzehuels/stackbrew/pkg/detect"
	"github.com/matzehuels/stackbrew/pkg/errors"
	"github.com/matzehuels/stackbrew/pkg/git"
	"github.com/matzehuels/stackbrew/pkg/pipeline"
	"github.com/matzehuels/stackbrew/pkg/stackbrew"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the binary name used in help and completion output.
const appName = "stackbrew"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// Repository is what the commands need from the release repository.
type Repository interface {
	pipeline.TagSource
	pipeline.RefFetcher
	detect.FileSource
}

// OpenFunc opens the repository at path, reading tags from remote.
type OpenFunc func(path, remote string) (Repository, error)

// CLI holds shared state for all commands.
//
// Stdout carries only library content; logs, status lines and dry-run output
// go to Stderr.
type CLI struct {
	Logger *log.Logger
	Stdout io.Writer
	Stderr io.Writer
	Open   OpenFunc

	verbose bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Stdout: os.Stdout,
		Stderr: w,
		Open:   openGit,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

func openGit(path, remote string) (Repository, error) {
	client, err := git.Open(path, remote)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// =============================================================================
// Shared Flags
// =============================================================================

// repoOpts holds the flags shared by the generating commands. Flags that
// were set explicitly override the configuration file.
type repoOpts struct {
	configPath  string
	remote      string
	repo        string
	concurrency int
	dropStale   bool
	skipFetch   bool
	noCache     bool
}

func (o *repoOpts) register(cmd *cobra.Command) {
	def := config.Default()
	cmd.Flags().StringVar(&o.configPath, "config", "", "configuration file (default $"+config.EnvVar+")")
	cmd.Flags().StringVar(&o.remote, "remote", def.Remote, "git remote name or URL to read release tags from")
	cmd.Flags().StringVar(&o.repo, "repo", def.Repository, "path to the local repository clone")
	cmd.Flags().IntVar(&o.concurrency, "concurrency", def.Concurrency, "number of Dockerfiles read in parallel")
	cmd.Flags().BoolVar(&o.dropStale, "drop-stale-milestones", false, "drop milestones older than the GA release of their series")
	cmd.Flags().BoolVar(&o.skipFetch, "skip-fetch", false, "assume release tags are already fetched")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "read every Dockerfile from the repository")
}

// load reads the configuration and applies explicitly set flags.
func (o *repoOpts) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(config.Resolve(o.configPath))
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("remote") {
		cfg.Remote = o.remote
	}
	if flags.Changed("repo") {
		cfg.Repository = o.repo
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = o.concurrency
	}
	if flags.Changed("drop-stale-milestones") {
		cfg.DropStaleMilestones = o.dropStale
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// parseMajor parses the major version argument.
func parseMajor(arg string) (int, error) {
	major, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "major version must be a number, got %q", arg)
	}
	if err := errors.ValidateMajorVersion(major); err != nil {
		return 0, err
	}
	return major, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner opens the configured repository and builds a pipeline runner.
func (c *CLI) newRunner(cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	repo, err := c.Open(cfg.Repository, cfg.Remote)
	if err != nil {
		return nil, err
	}
	detector := &detect.Detector{
		Source:      &detect.CachedSource{Source: repo, Cache: c.newCache(noCache), Logger: c.Logger},
		Distros:     cfg.Distributions,
		Concurrency: cfg.Concurrency,
	}
	serializer := stackbrew.ManifestSerializer{Architectures: cfg.Architectures()}
	return pipeline.NewRunner(repo, repo, detector, serializer, c.Logger), nil
}

// generate runs the pipeline for one major version behind a spinner.
func (c *CLI) generate(ctx context.Context, cfg config.Config, opts pipeline.Options, noCache bool) (*pipeline.Result, error) {
	runner, err := c.newRunner(cfg, noCache)
	if err != nil {
		return nil, err
	}

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, c.Stderr, fmt.Sprintf("Generating stackbrew library for %d.x", opts.Major))
	c.Logger.SetOutput(spin.Writer())
	spin.Start()
	result, err := runner.Execute(ctx, opts)
	spin.Stop()
	c.Logger.SetOutput(c.Stderr)
	if err != nil {
		if spin.Cancelled() && !stderrors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", context.Canceled, err)
		}
		return nil, err
	}
	prog.done(fmt.Sprintf("Generated %d entries from %d versions", len(result.Entries), len(result.Versions)))
	return result, nil
}

// newCache returns the Dockerfile cache, or a null cache when disabled or
// when the cache directory is unusable.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/stackbrew/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
