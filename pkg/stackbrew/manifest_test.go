package stackbrew

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackbrew/pkg/distro"
	"github.com/matzehuels/stackbrew/pkg/errors"
)

func TestManifestSerializer(t *testing.T) {
	entries := Generate(pair("0123456789abcdef", "8.2.1")).Entries
	out := Assemble(entries, ManifestSerializer{})

	want := `Tags: 8.2.1, 8.2, 8, 8.2.1-bookworm, 8.2-bookworm, 8-bookworm, latest, bookworm
Architectures: amd64, arm32v5, arm32v7, arm64v8, i386, mips64le, ppc64le, s390x
GitCommit: 0123456789abcdef
GitFetch: refs/tags/v8.2.1
Directory: debian

Tags: 8.2.1-alpine, 8.2-alpine, 8-alpine, 8.2.1-alpine3.22, 8.2-alpine3.22, 8-alpine3.22, alpine, alpine3.22
Architectures: amd64, arm32v6, arm32v7, arm64v8, i386, ppc64le, riscv64, s390x
GitCommit: 0123456789abcdef
GitFetch: refs/tags/v8.2.1
Directory: alpine`

	if out != want {
		t.Errorf("Assemble() =\n%s\nwant\n%s", out, want)
	}
}

func TestManifestSerializerOverrides(t *testing.T) {
	e := Generate(pair("abc", "8.2.1")).Entries[0]
	e.FetchRef = ""
	e.Directory = "debian-bookworm"

	s := ManifestSerializer{Architectures: map[distro.Type][]string{distro.Debian: {"amd64", "arm64v8"}}}
	out := s.Serialize(e)

	if !strings.Contains(out, "Architectures: amd64, arm64v8\n") {
		t.Errorf("Serialize() missing architecture override:\n%s", out)
	}
	if strings.Contains(out, "GitFetch") {
		t.Errorf("Serialize() should omit GitFetch without a ref:\n%s", out)
	}
	if !strings.HasSuffix(out, "Directory: debian-bookworm") {
		t.Errorf("Serialize() should end with the directory:\n%s", out)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"YAML", FormatYAML, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ParseFormat(%q) code = %v, want %v", tt.in, errors.GetCode(err), errors.ErrCodeInvalidInput)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatAcceptsAllFormats(t *testing.T) {
	for _, f := range Formats {
		if got, err := ParseFormat(string(f)); err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if got, want := FormatNames(), "text, yaml, json"; got != want {
		t.Errorf("FormatNames() = %q, want %q", got, want)
	}
}

func TestRenderText(t *testing.T) {
	entries := Generate(pair("abc", "8.2.1")).Entries
	s := ManifestSerializer{}
	out, err := Render(entries, FormatText, s)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if out != Assemble(entries, s) {
		t.Error("Render(text) should match Assemble")
	}
}

func TestRenderJSON(t *testing.T) {
	entries := Generate(pair("abc", "8.2.1")).Entries
	out, err := Render(entries, FormatJSON, ManifestSerializer{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var docs []entryDoc
	if err := json.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("output is not valid json: %v\n%s", err, out)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	if docs[1].Directory != "alpine" || docs[1].Distribution.Name != "alpine3.22" {
		t.Errorf("docs[1] = %+v, want alpine3.22 in alpine", docs[1])
	}
	if got := docs[1].Distribution.TagNames; len(got) != 2 || got[0] != "alpine" {
		t.Errorf("docs[1] tag names = %v, want [alpine alpine3.22]", got)
	}
	if docs[0].Version != "8.2.1" || docs[0].FetchRef != "refs/tags/v8.2.1" || len(docs[0].Architectures) != 8 {
		t.Errorf("docs[0] = %+v", docs[0])
	}
}

func TestRenderYAML(t *testing.T) {
	entries := Generate(pair("abc", "8.2.1")).Entries
	out, err := Render(entries, FormatYAML, ManifestSerializer{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var docs []entryDoc
	if err := yaml.Unmarshal([]byte(out), &docs); err != nil {
		t.Fatalf("output is not valid yaml: %v\n%s", err, out)
	}
	if len(docs) != 2 || docs[0].Tags[0] != "8.2.1" || !docs[0].Distribution.Default {
		t.Errorf("docs = %+v", docs)
	}
}

func TestRenderInvalidFormat(t *testing.T) {
	if _, err := Render(nil, Format("toml"), ManifestSerializer{}); err == nil {
		t.Error("Render() with unknown format should fail")
	}
}
