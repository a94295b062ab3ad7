package version

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/stackbrew/pkg/errors"
)

// tagRefPrefix is stripped from fully qualified tag references.
const tagRefPrefix = "refs/tags/"

// eolSuffix marks every release of a mainline as retired.
const eolSuffix = "-eol"

// releaseTag matches "v8.2", "8.2.1", "v8.2.1-rc1", "v7.4.0-eol", "v8.2.2-m01-int1".
var releaseTag = regexp.MustCompile(`^v?([1-9][0-9]*)\.([0-9]+)(?:\.([0-9]+))?(-[0-9A-Za-z][0-9A-Za-z.-]*)?$`)

// Version is a parsed release tag. The zero value is not a valid version;
// construct one with Parse or ParseTag.
type Version struct {
	major    int
	minor    int
	patch    int
	hasPatch bool
	suffix   string
}

// ParseError reports a tag that does not follow the release-tag grammar or
// belongs to a different major version line.
type ParseError struct {
	Input  string
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid release tag %q: %s", e.Input, e.Reason)
}

// Parse parses a version string such as "v8.2.1", "8.2" or "8.2.1-m01".
// A leading "v" is optional. Numeric fields are normalized, so "v8.02.1"
// and "8.2.1" yield the same Version.
//
// The returned error wraps a *ParseError and carries ErrCodeInvalidVersion.
func Parse(s string) (Version, error) {
	m := releaseTag.FindStringSubmatch(s)
	if m == nil {
		return Version{}, invalid(s, "expected [v]MAJOR.MINOR[.PATCH][-SUFFIX]")
	}

	v := Version{suffix: m[4]}
	var err error
	if v.major, err = strconv.Atoi(m[1]); err != nil {
		return Version{}, invalid(s, "major out of range")
	}
	if v.minor, err = strconv.Atoi(m[2]); err != nil {
		return Version{}, invalid(s, "minor out of range")
	}
	if m[3] != "" {
		if v.patch, err = strconv.Atoi(m[3]); err != nil {
			return Version{}, invalid(s, "patch out of range")
		}
		v.hasPatch = true
	}
	return v, nil
}

// ParseTag parses a tag reference as listed by the tag source (for example
// "refs/tags/v8.2.1") and checks that it belongs to the given major version.
// Tags of another major line are rejected, never coerced.
func ParseTag(ref string, major int) (Version, error) {
	name := strings.TrimPrefix(ref, tagRefPrefix)
	if !strings.HasPrefix(name, "v") {
		return Version{}, invalid(ref, "release tags start with \"v\"")
	}
	v, err := Parse(name)
	if err != nil {
		return Version{}, invalid(ref, "expected vMAJOR.MINOR[.PATCH][-SUFFIX]")
	}
	if v.major != major {
		return Version{}, invalid(ref, fmt.Sprintf("belongs to major version %d, not %d", v.major, major))
	}
	return v, nil
}

// MustParse is like Parse but panics on error. It is intended for tests and
// package-level fixtures.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func invalid(input, reason string) error {
	return errors.Wrap(errors.ErrCodeInvalidVersion, &ParseError{Input: input, Reason: reason}, "parse %q", input)
}

// Major returns the major version number.
func (v Version) Major() int { return v.major }

// Minor returns the minor version number.
func (v Version) Minor() int { return v.minor }

// Patch returns the patch number, 0 when the tag omitted it.
func (v Version) Patch() int { return v.patch }

// HasPatch reports whether the tag spelled out a patch number.
func (v Version) HasPatch() bool { return v.hasPatch }

// Suffix returns the raw qualifier including its leading dash ("-rc1"), or "".
func (v Version) Suffix() string { return v.suffix }

// Milestone returns the pre-release qualifier without its leading dash.
func (v Version) Milestone() string { return strings.TrimPrefix(v.suffix, "-") }

// IsMilestone reports whether v carries any qualifier. Only unqualified
// versions are GA.
func (v Version) IsMilestone() bool { return v.suffix != "" }

// IsEOL reports whether v marks its mainline as end-of-life.
func (v Version) IsEOL() bool {
	return strings.HasSuffix(strings.ToLower(v.suffix), eolSuffix)
}

// Mainline returns the "major.minor" series identifier.
func (v Version) Mainline() string {
	return strconv.Itoa(v.major) + "." + strconv.Itoa(v.minor)
}

// String renders the normalized version without the "v" prefix.
func (v Version) String() string {
	s := v.Mainline()
	if v.hasPatch {
		s += "." + strconv.Itoa(v.patch)
	}
	return s + v.suffix
}

// Compare returns -1, 0 or +1 depending on whether a orders below, equal to
// or above b.
//
// Order: (major, minor, patch) numerically, then a GA release above any
// milestone of the same triple, then milestones by qualifier, then an
// explicit patch above an implied one ("8.2.0" > "8.2").
func Compare(a, b Version) int {
	if c := cmpInt(a.major, b.major); c != 0 {
		return c
	}
	if c := cmpInt(a.minor, b.minor); c != 0 {
		return c
	}
	if c := cmpInt(a.patch, b.patch); c != 0 {
		return c
	}
	switch {
	case !a.IsMilestone() && b.IsMilestone():
		return 1
	case a.IsMilestone() && !b.IsMilestone():
		return -1
	}
	if c := strings.Compare(a.suffix, b.suffix); c != 0 {
		return c
	}
	switch {
	case a.hasPatch && !b.hasPatch:
		return 1
	case !a.hasPatch && b.hasPatch:
		return -1
	}
	return 0
}

// Less reports whether a orders strictly below b.
func Less(a, b Version) bool { return Compare(a, b) < 0 }

// SortDescending sorts items newest-first by the version key returns.
// The sort is stable, so items sharing a version keep their relative order.
func SortDescending[T any](items []T, key func(T) Version) {
	sort.SliceStable(items, func(i, j int) bool {
		return Compare(key(items[i]), key(items[j])) > 0
	})
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
