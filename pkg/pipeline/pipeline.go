// Package pipeline runs the complete library generation for one major version.
//
// The pipeline wires the collaborators that talk to the repository to the
// pure selection and generation packages:
//
//  1. List: read release tags of the major version from the tag source
//  2. Select: parse tags, drop end-of-life series, keep the newest release
//     per (minor, GA/milestone) pair
//  3. Fetch: make the selected tag refs available locally
//  4. Detect: expand versions into one release per distribution
//  5. Generate: compute tags and render the library
//
// # Usage
//
//	runner := pipeline.NewRunner(client, client, detector, serializer, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Major: 8})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Output)
//
// Selection alone, without touching Dockerfiles:
//
//	versions, err := runner.Versions(ctx, pipeline.Options{Major: 8})
package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/stackbrew/pkg/detect"
	"github.com/matzehuels/stackbrew/pkg/errors"
	"github.com/matzehuels/stackbrew/pkg/selection"
	"github.com/matzehuels/stackbrew/pkg/stackbrew"
)

// =============================================================================
// Collaborators
// =============================================================================

// TagSource lists the release tags of one major version.
type TagSource interface {
	ListTags(ctx context.Context, major int) ([]selection.Tag, error)
}

// RefFetcher makes refs available for reading files.
type RefFetcher interface {
	FetchRefs(ctx context.Context, refs []string) error
}

// ReleaseDetector expands selected versions into per-distribution releases,
// keeping the input order.
type ReleaseDetector interface {
	Releases(ctx context.Context, cands []selection.Candidate) ([]stackbrew.Release, []detect.Failure, error)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Major is the major version line to generate (e.g. 8).
	Major int `json:"major"`

	// DropStaleMilestones also drops milestones older than the selected GA
	// release of their mainline.
	DropStaleMilestones bool `json:"drop_stale_milestones,omitempty"`

	// SkipFetch assumes the selected tags are already present locally.
	SkipFetch bool `json:"skip_fetch,omitempty"`

	// Format of Result.Output. Empty means text.
	Format stackbrew.Format `json:"format,omitempty"`
}

// Validate checks the options and applies defaults.
func (o *Options) Validate() error {
	if err := errors.ValidateMajorVersion(o.Major); err != nil {
		return err
	}
	f, err := stackbrew.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = f
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Versions are the selected versions, newest-first.
	Versions []selection.Candidate

	// Releases are the detected (version, distribution) pairs.
	Releases []stackbrew.Release

	// Entries are the generated library entries.
	Entries []stackbrew.Entry

	// Output is the rendered library. It is empty when no entry was generated.
	Output string

	// Warning is set (with ErrCodeEmptyOutput) when the run succeeded
	// without producing entries.
	Warning error

	// Stats contains counts and timings.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Tags       int
	Skipped    int
	Retired    []string
	Superseded int
	Selected   int
	Releases   int
	Failures   int
	Entries    int

	ListTime     time.Duration
	FetchTime    time.Duration
	DetectTime   time.Duration
	GenerateTime time.Duration
}
