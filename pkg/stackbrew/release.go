package stackbrew

import (
	"fmt"

	"github.com/matzehuels/stackbrew/pkg/distro"
	"github.com/matzehuels/stackbrew/pkg/version"
)

// Release is one version built on one distribution. Releases of the same
// version share commit and fetch ref and differ only in distribution.
type Release struct {
	Commit       string
	Version      version.Version
	Distribution distro.Distribution
	FetchRef     string
	// Directory is the build context inside the repository. Empty means the
	// distribution type name ("debian", "alpine").
	Directory string
}

// Dir returns the build directory of the release.
func (r Release) Dir() string {
	if r.Directory != "" {
		return r.Directory
	}
	return string(r.Distribution.Type)
}

// String renders a short form such as "1a2b3c4d 8.2.1 debian bookworm".
func (r Release) String() string {
	return fmt.Sprintf("%s %s %s", shortCommit(r.Commit), r.Version, r.Distribution)
}

// Entry is one block of the library file: a release and the tags it carries.
type Entry struct {
	Tags []string
	Release
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}
