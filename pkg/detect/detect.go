// Package detect expands selected versions into releases, one per
// distribution, by reading each distribution's Dockerfile at the release
// commit.
//
// Dockerfiles are read concurrently, but the returned releases always follow
// the order of the input candidates, and within one candidate the order of
// the configured distributions. The latest-series tracker relies on that
// order.
package detect

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackbrew/pkg/config"
	"github.com/matzehuels/stackbrew/pkg/distro"
	"github.com/matzehuels/stackbrew/pkg/errors"
	"github.com/matzehuels/stackbrew/pkg/selection"
	"github.com/matzehuels/stackbrew/pkg/stackbrew"
	"github.com/matzehuels/stackbrew/pkg/version"
)

const defaultConcurrency = 4

// FileSource reads a file at a commit.
type FileSource interface {
	ShowFile(ctx context.Context, commit, path string) (string, error)
}

// Failure describes a (version, distribution) pair that could not be detected.
type Failure struct {
	Version version.Version
	Commit  string
	Type    distro.Type
	Path    string
	Err     error
}

// Error implements the error interface.
func (f Failure) Error() string {
	return fmt.Sprintf("%s %s (%s): %v", f.Version, f.Type, f.Path, f.Err)
}

// Unwrap returns the underlying error.
func (f Failure) Unwrap() error { return f.Err }

// Detector reads Dockerfiles through Source.
type Detector struct {
	Source      FileSource
	Distros     []config.Distribution
	Concurrency int
}

type slot struct {
	release *stackbrew.Release
	failure *Failure
}

// Releases returns one release per candidate and configured distribution
// whose Dockerfile could be read and parsed. Pairs that fail are reported in
// failures and skipped. The error is non-nil only when ctx is cancelled or
// when the distributions detected for one version contain more than one
// default.
func (d *Detector) Releases(ctx context.Context, cands []selection.Candidate) ([]stackbrew.Release, []Failure, error) {
	if len(cands) == 0 || len(d.Distros) == 0 {
		return nil, nil, nil
	}

	n := len(d.Distros)
	slots := make([]slot, len(cands)*n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.limit())

	for i, c := range cands {
		for j, dc := range d.Distros {
			idx := i*n + j
			g.Go(func() error {
				slots[idx] = d.detect(gctx, c, dc)
				return nil
			})
		}
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var (
		releases []stackbrew.Release
		failures []Failure
	)
	for i := range cands {
		group := slots[i*n : (i+1)*n]
		var found []distro.Distribution
		for _, s := range group {
			if s.failure != nil {
				failures = append(failures, *s.failure)
				continue
			}
			releases = append(releases, *s.release)
			found = append(found, s.release.Distribution)
		}
		if _, err := distro.NewSet(found...); err != nil {
			return nil, failures, errors.Wrap(errors.ErrCodeInvalidDistribution, err, "version %s", cands[i].Version)
		}
	}
	return releases, failures, nil
}

func (d *Detector) detect(ctx context.Context, c selection.Candidate, dc config.Distribution) slot {
	fail := func(err error) slot {
		return slot{failure: &Failure{Version: c.Version, Commit: c.Commit, Type: dc.Type, Path: dc.Path(), Err: err}}
	}

	content, err := d.Source.ShowFile(ctx, c.Commit, dc.Path())
	if err != nil {
		return fail(err)
	}
	dist, err := distro.FromDockerfile(content)
	if err != nil {
		return fail(err)
	}
	if dist.Type != dc.Type {
		return fail(errors.New(errors.ErrCodeInvalidDistribution,
			"%s is based on %s, expected %s", dc.Path(), dist.Type, dc.Type))
	}
	if len(dc.TagNames) > 0 {
		dist.TagNames = append([]string(nil), dc.TagNames...)
	}

	return slot{release: &stackbrew.Release{
		Commit:       c.Commit,
		Version:      c.Version,
		Distribution: dist,
		FetchRef:     c.Ref,
		Directory:    dc.Directory,
	}}
}

func (d *Detector) limit() int {
	if d.Concurrency > 0 {
		return d.Concurrency
	}
	return defaultConcurrency
}
