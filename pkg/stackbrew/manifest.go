package stackbrew

import (
	"strings"

	"github.com/matzehuels/stackbrew/pkg/distro"
)

// Manifest field names, in the order they are written.
const (
	fieldTags          = "Tags"
	fieldArchitectures = "Architectures"
	fieldGitCommit     = "GitCommit"
	fieldGitFetch      = "GitFetch"
	fieldDirectory     = "Directory"
)

// ManifestSerializer renders entries in the official-images library format:
//
//	Tags: 8.2.1, 8.2, 8
//	Architectures: amd64, arm64v8
//	GitCommit: 1a2b3c4d...
//	GitFetch: refs/tags/v8.2.1
//	Directory: debian
//
// GitFetch is omitted when the release has no fetch ref.
type ManifestSerializer struct {
	// Architectures per distribution family. Families missing from the map
	// use distro.DefaultArchitectures.
	Architectures map[distro.Type][]string
}

// Serialize implements Serializer.
func (s ManifestSerializer) Serialize(e Entry) string {
	var b strings.Builder
	field(&b, fieldTags, strings.Join(e.Tags, ", "))
	field(&b, fieldArchitectures, strings.Join(s.architectures(e.Distribution.Type), ", "))
	field(&b, fieldGitCommit, e.Commit)
	if e.FetchRef != "" {
		field(&b, fieldGitFetch, e.FetchRef)
	}
	b.WriteString(fieldDirectory + ": " + e.Dir())
	return b.String()
}

func (s ManifestSerializer) architectures(t distro.Type) []string {
	if a, ok := s.Architectures[t]; ok && len(a) > 0 {
		return a
	}
	return distro.DefaultArchitectures(t)
}

func field(b *strings.Builder, name, value string) {
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}
