// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/stackbrew/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/stackbrew/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/stackbrew/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

// Name is the program name reported by the version command.
const Name = "stackbrew-library-generator"

var (
	// Version is the release version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Short returns "<name> <version>".
func Short() string {
	return Name + " " + Version
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", Short(), Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return String() + "\n"
}
