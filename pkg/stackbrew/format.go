package stackbrew

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackbrew/pkg/distro"
	"github.com/matzehuels/stackbrew/pkg/errors"
)

// Format selects how generated entries are written.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatText, FormatYAML, FormatJSON}

// FormatNames returns the names of Formats joined by ", ".
func FormatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// ParseFormat validates a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if f == "" {
		return FormatText, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (want one of: %s)", s, FormatNames())
}

// entryDoc is the machine-readable view of an Entry.
type entryDoc struct {
	Tags          []string            `json:"tags" yaml:"tags"`
	Version       string              `json:"version" yaml:"version"`
	Commit        string              `json:"commit" yaml:"commit"`
	FetchRef      string              `json:"fetch_ref,omitempty" yaml:"fetch_ref,omitempty"`
	Directory     string              `json:"directory" yaml:"directory"`
	Distribution  distro.Distribution `json:"distribution" yaml:"distribution"`
	Architectures []string            `json:"architectures" yaml:"architectures"`
}

// Render writes entries in the requested format. Text output is the library
// manifest produced by Assemble; yaml and json output describe the same
// entries as a list of documents.
func Render(entries []Entry, f Format, s ManifestSerializer) (string, error) {
	if f == FormatText || f == "" {
		return Assemble(entries, s), nil
	}

	docs := make([]entryDoc, len(entries))
	for i, e := range entries {
		docs[i] = entryDoc{
			Tags:          e.Tags,
			Version:       e.Version.String(),
			Commit:        e.Commit,
			FetchRef:      e.FetchRef,
			Directory:     e.Dir(),
			Distribution:  e.Distribution,
			Architectures: s.architectures(e.Distribution.Type),
		}
	}

	switch f {
	case FormatYAML:
		out, err := yaml.Marshal(docs)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
		return strings.TrimSuffix(string(out), "\n"), nil
	case FormatJSON:
		out, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "encode json")
		}
		return string(out), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unsupported format %q", f)
}
