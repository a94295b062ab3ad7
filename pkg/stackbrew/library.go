package stackbrew

import "strings"

// Result is the outcome of Generate.
type Result struct {
	// Entries holds one entry per release that produced tags, in input order.
	Entries []Entry
	// Empty holds releases that produced no tags.
	Empty []Release
}

// Generate runs the latest tracker and the tag expansion over releases.
// releases must be newest-first with releases of the same version adjacent.
func Generate(releases []Release) Result {
	var (
		res     Result
		tracker LatestTracker
	)
	for _, r := range releases {
		tags := Tags(r, tracker.Next(r.Version))
		if len(tags) == 0 {
			res.Empty = append(res.Empty, r)
			continue
		}
		res.Entries = append(res.Entries, Entry{Tags: tags, Release: r})
	}
	return res
}

// Serializer renders one entry as a library block without trailing newline.
type Serializer interface {
	Serialize(Entry) string
}

// SerializerFunc adapts a function to the Serializer interface.
type SerializerFunc func(Entry) string

// Serialize calls f(e).
func (f SerializerFunc) Serialize(e Entry) string { return f(e) }

// Assemble serializes entries and joins the blocks with exactly one blank
// line. There is no separator before the first or after the last block, and
// no entries yield "".
func Assemble(entries []Entry, s Serializer) string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, strings.Trim(s.Serialize(e), "\n"))
	}
	return strings.Join(blocks, "\n\n")
}
