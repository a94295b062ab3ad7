package selection

import (
	"github.com/matzehuels/stackbrew/pkg/version"
)

// Tag is one raw release tag as listed by the tag source.
type Tag struct {
	Commit string `json:"commit" yaml:"commit"`
	Ref    string `json:"ref" yaml:"ref"`
}

// Candidate is a parsed release tag.
type Candidate struct {
	Version version.Version
	Commit  string
	Ref     string
}

// Skipped records a tag that could not be parsed for the requested major.
type Skipped struct {
	Tag Tag
	Err error
}

// Options configures SelectActual.
type Options struct {
	// DropStaleMilestones also discards a milestone that orders below the
	// GA release already selected for its mainline.
	DropStaleMilestones bool
}

// FromTags parses tags for one major version. Tags that fail to parse are
// returned in skipped and otherwise ignored. Candidates are returned
// newest-first.
func FromTags(tags []Tag, major int) (cands []Candidate, skipped []Skipped) {
	for _, t := range tags {
		v, err := version.ParseTag(t.Ref, major)
		if err != nil {
			skipped = append(skipped, Skipped{Tag: t, Err: err})
			continue
		}
		cands = append(cands, Candidate{Version: v, Commit: t.Commit, Ref: t.Ref})
	}
	sortNewestFirst(cands)
	return cands, skipped
}

// FilterEOL removes every mainline that has at least one end-of-life member.
// The whole series is dropped, not just the marker tag. Survivors are
// returned newest-first; dropped lists the retired mainlines in the order
// they were first seen.
func FilterEOL(in []Candidate) (kept []Candidate, dropped []string) {
	retired := make(map[string]bool)
	for _, c := range in {
		if c.Version.IsEOL() {
			retired[c.Version.Mainline()] = true
		}
	}

	seen := make(map[string]bool)
	for _, c := range in {
		ml := c.Version.Mainline()
		if retired[ml] {
			if !seen[ml] {
				seen[ml] = true
				dropped = append(dropped, ml)
			}
			continue
		}
		kept = append(kept, c)
	}
	sortNewestFirst(kept)
	return kept, dropped
}

type seriesKey struct {
	mainline  string
	milestone bool
}

// SelectActual keeps the newest candidate per (mainline, milestone) pair.
// in must be sorted newest-first; the first occurrence of each key wins and
// the output keeps the input order. Discarded candidates are returned in
// superseded.
//
// A mainline with only milestone tags yields a single milestone candidate.
func SelectActual(in []Candidate, opts Options) (selected, superseded []Candidate) {
	seen := make(map[seriesKey]bool)
	ga := make(map[string]version.Version)

	for _, c := range in {
		key := seriesKey{mainline: c.Version.Mainline(), milestone: c.Version.IsMilestone()}
		if seen[key] {
			superseded = append(superseded, c)
			continue
		}
		if opts.DropStaleMilestones && key.milestone {
			if g, ok := ga[key.mainline]; ok && version.Less(c.Version, g) {
				superseded = append(superseded, c)
				continue
			}
		}
		seen[key] = true
		if !key.milestone {
			ga[key.mainline] = c.Version
		}
		selected = append(selected, c)
	}
	return selected, superseded
}

func sortNewestFirst(cs []Candidate) {
	version.SortDescending(cs, func(c Candidate) version.Version { return c.Version })
}
