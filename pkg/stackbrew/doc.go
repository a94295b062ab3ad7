// Package stackbrew turns selected releases into official-images library
// entries.
//
// # Overview
//
// The input is a newest-first list of [Release] values, one per (version,
// distribution) pair, with releases of the same version adjacent. [Generate]
// walks it once:
//
//  1. A [LatestTracker] decides whether the release belongs to the newest GA
//     minor series.
//  2. [Tags] expands the release into its Docker tags.
//  3. Releases with tags become [Entry] values.
//
// [Assemble] serializes entries with a [Serializer] and joins the blocks with
// one blank line. [ManifestSerializer] produces the standard library format.
//
// # Updating an existing library file
//
// [UpdateLibrary] splices freshly generated blocks for one major version into
// an existing library file, leaving its header and the other majors alone:
//
//	out := stackbrew.UpdateLibrary(existing, 8, generated)
//
// Everything in this package is pure and deterministic: the same releases
// always produce byte-identical output.
package stackbrew
