// Package selection narrows the raw release tags of one major version down to
// the releases worth publishing.
//
// The stages run in a fixed order and each expects its input newest-first:
//
//	cands, skipped := selection.FromTags(tags, 8)      // parse, sort
//	cands, retired := selection.FilterEOL(cands)       // drop retired series
//	cands, _ = selection.SelectActual(cands, selection.Options{})
//
// After SelectActual every mainline contributes at most one GA release and at
// most one milestone, each the newest of its kind.
//
// All functions are pure: they never touch the network or the repository and
// report what they discarded instead of logging it.
package selection
