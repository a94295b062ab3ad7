// Package distro describes the Linux distributions an image is built on and
// the tag suffixes each one contributes.
//
// A [Distribution] is normally detected from the first FROM instruction of a
// Dockerfile with [FromDockerfile]. The set of distributions published for one
// version is validated with [NewSet], which enforces that at most one of them
// is the default (the one whose tags are also emitted without a suffix).
package distro

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/matzehuels/stackbrew/pkg/errors"
)

// Type is the distribution family. It is a closed set.
type Type string

const (
	Debian Type = "debian"
	Alpine Type = "alpine"
)

// Types lists every supported distribution family in canonical order.
var Types = []Type{Debian, Alpine}

// ParseType converts a case-insensitive family name to a Type.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Debian:
		return Debian, nil
	case Alpine:
		return Alpine, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidDistribution, "unknown distribution type %q (want debian or alpine)", s)
	}
}

// Distribution is a packaging target of a release.
//
// TagNames are the suffixes the distribution contributes to tags, in order.
// A distribution without tag names only gets unsuffixed tags, and only when
// it is the default.
type Distribution struct {
	Type     Type     `json:"type" yaml:"type"`
	Name     string   `json:"name" yaml:"name"`
	TagNames []string `json:"tag_names,omitempty" yaml:"tag_names,omitempty"`
	Default  bool     `json:"default,omitempty" yaml:"default,omitempty"`
}

// New returns a distribution of the given family with its standard tag
// names. Debian is the default family; its tags are also published
// unsuffixed. Alpine additionally publishes the bare family name as an alias.
func New(t Type, name string) Distribution {
	return Distribution{Type: t, Name: name, TagNames: DefaultTagNames(t, name), Default: t == Debian}
}

// DefaultTagNames returns the tag names New assigns to a distribution.
func DefaultTagNames(t Type, name string) []string {
	if t == Alpine {
		return []string{string(Alpine), name}
	}
	return []string{name}
}

// IsDefault reports whether the distribution's version tags are also emitted
// without a suffix.
func (d Distribution) IsDefault() bool { return d.Default }

// String renders "type name", e.g. "alpine alpine3.22".
func (d Distribution) String() string {
	return fmt.Sprintf("%s %s", d.Type, d.Name)
}

// Set is a validated group of distributions published for one version.
type Set struct {
	items []Distribution
}

// NewSet validates ds and returns them as a Set. It fails with
// ErrCodeInvalidDistribution when more than one distribution is marked as
// default, when a family is unknown, when a name is empty or when a tag name
// is empty or repeated.
func NewSet(ds ...Distribution) (Set, error) {
	var def string
	for _, d := range ds {
		if _, err := ParseType(string(d.Type)); err != nil {
			return Set{}, err
		}
		if d.Name == "" {
			return Set{}, errors.New(errors.ErrCodeInvalidDistribution, "distribution of type %s has no name", d.Type)
		}
		if err := validateTagNames(d); err != nil {
			return Set{}, err
		}
		if !d.Default {
			continue
		}
		if def != "" {
			return Set{}, errors.New(errors.ErrCodeInvalidDistribution,
				"at most one default distribution allowed, got %q and %q", def, d.Name)
		}
		def = d.Name
	}
	items := make([]Distribution, len(ds))
	copy(items, ds)
	return Set{items: items}, nil
}

func validateTagNames(d Distribution) error {
	seen := make(map[string]bool, len(d.TagNames))
	for _, n := range d.TagNames {
		if strings.TrimSpace(n) == "" || strings.ContainsAny(n, " \t:") {
			return errors.New(errors.ErrCodeInvalidDistribution, "distribution %s has invalid tag name %q", d.Name, n)
		}
		if seen[n] {
			return errors.New(errors.ErrCodeInvalidDistribution, "distribution %s repeats tag name %q", d.Name, n)
		}
		seen[n] = true
	}
	return nil
}

// Items returns a copy of the distributions in their original order.
func (s Set) Items() []Distribution {
	out := make([]Distribution, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of distributions in the set.
func (s Set) Len() int { return len(s.items) }

// Default returns the default distribution, if the set has one.
func (s Set) Default() (Distribution, bool) {
	for _, d := range s.items {
		if d.Default {
			return d, true
		}
	}
	return Distribution{}, false
}

// FromDockerfile detects the distribution from the first FROM instruction of
// a Dockerfile.
func FromDockerfile(content string) (Distribution, error) {
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if len(line) >= 5 && strings.EqualFold(line[:5], "FROM ") {
			return FromLine(line)
		}
	}
	if err := sc.Err(); err != nil {
		return Distribution{}, errors.Wrap(errors.ErrCodeInvalidDistribution, err, "read Dockerfile")
	}
	return Distribution{}, errors.New(errors.ErrCodeInvalidDistribution, "no FROM line found in Dockerfile")
}

// FromLine parses a single FROM instruction.
//
//	FROM alpine:3.22            -> alpine "alpine3.22"
//	FROM debian:bookworm-slim   -> debian "bookworm" (default)
//
// Build flags such as --platform are skipped. Any other base image is
// rejected.
func FromLine(line string) (Distribution, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "FROM") {
		return Distribution{}, errors.New(errors.ErrCodeInvalidDistribution, "invalid FROM line: %q", line)
	}

	image := ""
	for _, f := range fields[1:] {
		if !strings.HasPrefix(f, "--") {
			image = f
			break
		}
	}
	if image == "" {
		return Distribution{}, errors.New(errors.ErrCodeInvalidDistribution, "FROM line has no image: %q", line)
	}

	switch {
	case strings.Contains(image, "alpine:"):
		_, tag, _ := strings.Cut(image, "alpine:")
		if tag == "" {
			break
		}
		return New(Alpine, "alpine"+tag), nil
	case strings.Contains(image, "debian:"):
		_, tag, _ := strings.Cut(image, "debian:")
		tag = strings.ReplaceAll(tag, "-slim", "")
		if tag == "" {
			break
		}
		return New(Debian, tag), nil
	}
	return Distribution{}, errors.New(errors.ErrCodeInvalidDistribution, "unsupported base image: %q", image)
}
