package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackbrew/pkg/errors"
	"github.com/matzehuels/stackbrew/pkg/observability"
	"github.com/matzehuels/stackbrew/pkg/selection"
	"github.com/matzehuels/stackbrew/pkg/stackbrew"
)

// Runner executes the pipeline against its collaborators.
//
// The Runner keeps no state between runs; the same Runner can execute
// several runs with different options.
type Runner struct {
	Tags       TagSource
	Fetcher    RefFetcher
	Detector   ReleaseDetector
	Serializer stackbrew.ManifestSerializer
	Logger     *log.Logger
}

// NewRunner creates a runner. A nil fetcher disables fetching and a nil
// logger discards log output.
func NewRunner(tags TagSource, fetcher RefFetcher, detector ReleaseDetector, s stackbrew.ManifestSerializer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Tags:       tags,
		Fetcher:    fetcher,
		Detector:   detector,
		Serializer: s,
		Logger:     logger,
	}
}

// Execute runs list → select → fetch → detect → generate.
//
// It fails with ErrCodeNoVersions when no tag survives selection and with
// ErrCodeNoReleases when detection yields nothing. A run that produces no
// entries is not an error; Result.Warning is set instead.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.ensureLogger()

	result := &Result{}
	versions, err := r.versions(ctx, opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Versions = versions

	// Stage 3: Fetch
	if !opts.SkipFetch && r.Fetcher != nil {
		fetchStart := time.Now()
		if err := r.Fetcher.FetchRefs(ctx, fetchRefs(versions)); err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		result.Stats.FetchTime = time.Since(fetchStart)
		r.Logger.Info("fetched tags", "refs", len(versions), "duration", result.Stats.FetchTime)
	}

	// Stage 4: Detect
	detectStart := time.Now()
	releases, failures, err := r.Detector.Releases(ctx, versions)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	result.Stats.DetectTime = time.Since(detectStart)
	result.Stats.Failures = len(failures)
	for _, f := range failures {
		r.Logger.Warn("skipping distribution", "version", f.Version, "type", f.Type, "error", errors.UserMessage(f.Err))
		observability.Generation().OnReleaseSkipped(ctx, f.Version.String(), string(f.Type), f.Err)
	}
	if len(releases) == 0 {
		return nil, errors.New(errors.ErrCodeNoReleases, "no releases detected for major version %d", opts.Major)
	}
	result.Releases = releases
	result.Stats.Releases = len(releases)
	r.Logger.Info("detected releases", "count", len(releases), "failed", len(failures), "duration", result.Stats.DetectTime)

	// Stage 5: Generate
	genStart := time.Now()
	gen := stackbrew.Generate(releases)
	for _, rel := range gen.Empty {
		r.Logger.Warn("no tags generated", "release", rel)
		observability.Generation().OnReleaseSkipped(ctx, rel.Version.String(), string(rel.Distribution.Type), nil)
	}
	for _, e := range gen.Entries {
		r.Logger.Debug("generated entry", "release", e.Release, "tags", len(e.Tags))
		observability.Generation().OnEntryGenerated(ctx, e.Version.String(), string(e.Distribution.Type), len(e.Tags))
	}
	result.Entries = gen.Entries
	result.Stats.Entries = len(gen.Entries)

	if len(gen.Entries) == 0 {
		result.Warning = errors.New(errors.ErrCodeEmptyOutput, "no stackbrew entries generated for major version %d", opts.Major)
		observability.Generation().OnEmptyOutput(ctx, opts.Major)
		r.Logger.Warn("empty output", "major", opts.Major)
		result.Stats.GenerateTime = time.Since(genStart)
		return result, nil
	}

	out, err := stackbrew.Render(gen.Entries, opts.Format, r.Serializer)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Output = out
	result.Stats.GenerateTime = time.Since(genStart)
	r.Logger.Info("generated library", "entries", len(gen.Entries), "format", opts.Format)

	return result, nil
}

// Versions runs the list and select stages only.
func (r *Runner) Versions(ctx context.Context, opts Options) ([]selection.Candidate, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.ensureLogger()
	var stats Stats
	return r.versions(ctx, opts, &stats)
}

func (r *Runner) versions(ctx context.Context, opts Options, stats *Stats) ([]selection.Candidate, error) {
	// Stage 1: List
	listStart := time.Now()
	tags, err := r.Tags.ListTags(ctx, opts.Major)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	stats.ListTime = time.Since(listStart)
	stats.Tags = len(tags)
	r.Logger.Info("listed tags", "major", opts.Major, "count", len(tags), "duration", stats.ListTime)

	if len(tags) == 0 {
		return nil, errors.New(errors.ErrCodeNoVersions, "no tags found for major version %d", opts.Major)
	}

	// Stage 2: Select
	cands, skipped := selection.FromTags(tags, opts.Major)
	stats.Skipped = len(skipped)
	for _, s := range skipped {
		r.Logger.Warn("skipping invalid tag", "ref", s.Tag.Ref, "error", errors.UserMessage(s.Err))
		observability.Selection().OnTagSkipped(ctx, s.Tag.Ref, s.Err)
	}
	if len(cands) == 0 {
		return nil, errors.New(errors.ErrCodeNoVersions, "no versions found for major version %d", opts.Major)
	}

	cands, retired := selection.FilterEOL(cands)
	stats.Retired = retired
	for _, ml := range retired {
		r.Logger.Info("skipping end-of-life series", "series", ml+".*")
		observability.Selection().OnSeriesDropped(ctx, ml)
	}

	selected, superseded := selection.SelectActual(cands, selection.Options{DropStaleMilestones: opts.DropStaleMilestones})
	stats.Superseded = len(superseded)
	for _, c := range superseded {
		r.Logger.Debug("superseded", "version", c.Version, "commit", shortCommit(c.Commit))
	}
	for _, c := range selected {
		r.Logger.Info("selected", "version", c.Version, "milestone", c.Version.IsMilestone(), "commit", shortCommit(c.Commit))
		observability.Selection().OnVersionSelected(ctx, c.Version.String(), c.Version.IsMilestone())
	}
	stats.Selected = len(selected)

	if len(selected) == 0 {
		return nil, errors.New(errors.ErrCodeNoVersions, "no supported versions left for major version %d", opts.Major)
	}
	return selected, nil
}

func (r *Runner) ensureLogger() {
	if r.Logger == nil {
		r.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// fetchRefs returns the distinct refs of versions in order.
func fetchRefs(versions []selection.Candidate) []string {
	seen := make(map[string]bool, len(versions))
	refs := make([]string, 0, len(versions))
	for _, v := range versions {
		if v.Ref == "" || seen[v.Ref] {
			continue
		}
		seen[v.Ref] = true
		refs = append(refs, v.Ref)
	}
	return refs
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}
