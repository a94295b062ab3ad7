package stackbrew

import (
	"reflect"
	"strings"
	"testing"
)

const libraryHeader = `# This file was generated via https://github.com/redis/docker-library-redis/blob/abc123/generate-stackbrew-library.sh

Maintainers: David Maier <david.maier@redis.com> (@dmaier-redislabs),
             Yossi Gottlieb <yossi@redis.com> (@yossigo)
GitRepo: https://github.com/redis/docker-library-redis.git`

const library = libraryHeader + `

Tags: 8.2.1, 8.2, 8, 8.2.1-bookworm, 8.2-bookworm, 8-bookworm, latest, bookworm
Architectures: amd64, arm32v5, arm32v7, arm64v8, i386, mips64le, ppc64le, s390x
GitCommit: old123commit
GitFetch: refs/tags/v8.2.1
Directory: debian

Tags: 8.2.1-alpine, 8.2-alpine, 8-alpine, 8.2.1-alpine3.22, 8.2-alpine3.22, 8-alpine3.22, alpine, alpine3.22
Architectures: amd64, arm32v6, arm32v7, arm64v8, i386, ppc64le, riscv64, s390x
GitCommit: old123commit
GitFetch: refs/tags/v8.2.1
Directory: alpine

Tags: 7.4.0, 7.4, 7, 7.4.0-bookworm, 7.4-bookworm, 7-bookworm
Architectures: amd64, arm32v5, arm32v7, arm64v8, i386, mips64le, ppc64le, s390x
GitCommit: old456commit
GitFetch: refs/tags/v7.4.0
Directory: debian
`

const generated8 = `Tags: 8.2.2, 8.2, 8, 8.2.2-bookworm, 8.2-bookworm, 8-bookworm, latest, bookworm
Architectures: amd64, arm32v5, arm32v7, arm64v8, i386, mips64le, ppc64le, s390x
GitCommit: new123commit
GitFetch: refs/tags/v8.2.2
Directory: debian

Tags: 8.2.2-alpine, 8.2-alpine, 8-alpine, 8.2.2-alpine3.22, 8.2-alpine3.22, 8-alpine3.22, alpine, alpine3.22
Architectures: amd64, arm32v6, arm32v7, arm64v8, i386, ppc64le, riscv64, s390x
GitCommit: new123commit
GitFetch: refs/tags/v8.2.2
Directory: alpine`

func TestParseLibrary(t *testing.T) {
	lib := ParseLibrary(library)

	if got := strings.Join(lib.Header, "\n"); got != libraryHeader {
		t.Errorf("Header =\n%s\nwant\n%s", got, libraryHeader)
	}
	if len(lib.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(lib.Entries))
	}
	if lib.Entries[1][0] != "Tags: 8.2.1-alpine, 8.2-alpine, 8-alpine, 8.2.1-alpine3.22, 8.2-alpine3.22, 8-alpine3.22, alpine, alpine3.22" {
		t.Errorf("Entries[1][0] = %q", lib.Entries[1][0])
	}
	if len(lib.Entries[2]) != 5 {
		t.Errorf("len(Entries[2]) = %d, want 5", len(lib.Entries[2]))
	}
}

func TestParseLibraryWithoutHeader(t *testing.T) {
	lib := ParseLibrary("Tags: 8.2.1, 8.2, 8\nGitCommit: abc123\n\n\nTags: 8.2.1-alpine\nGitCommit: abc123")
	if len(lib.Header) != 0 {
		t.Errorf("Header = %v, want none", lib.Header)
	}
	want := [][]string{
		{"Tags: 8.2.1, 8.2, 8", "GitCommit: abc123"},
		{"Tags: 8.2.1-alpine", "GitCommit: abc123"},
	}
	if !reflect.DeepEqual(lib.Entries, want) {
		t.Errorf("Entries = %v, want %v", lib.Entries, want)
	}
}

func TestEntryMajor(t *testing.T) {
	tests := []struct {
		entry []string
		want  int
		ok    bool
	}{
		{[]string{"Tags: 8.2.1, 8.2, 8, latest", "GitCommit: abc123"}, 8, true},
		{[]string{"Tags: 7.4.0, 7.4, 7", "Directory: debian"}, 7, true},
		{[]string{"Tags: 8.2.1-alpine, 8.2-alpine"}, 8, true},
		{[]string{"Tags: latest, 10.0.1"}, 10, true},
		{[]string{"GitCommit: abc123"}, 0, false},
		{[]string{"Tags: latest, bookworm"}, 0, false},
	}

	for _, tt := range tests {
		got, ok := EntryMajor(tt.entry)
		if got != tt.want || ok != tt.ok {
			t.Errorf("EntryMajor(%v) = %d, %v, want %d, %v", tt.entry, got, ok, tt.want, tt.ok)
		}
	}
}

func TestUpdateLibraryReplacesMajor(t *testing.T) {
	out := UpdateLibrary(library, 8, generated8)

	for _, want := range []string{
		"Maintainers: David Maier",
		"GitRepo: https://github.com/redis/docker-library-redis.git",
		"new123commit",
		"8.2.2",
		"7.4.0",
		"old456commit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("UpdateLibrary() output missing %q", want)
		}
	}
	for _, unwanted := range []string{"old123commit", "8.2.1"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("UpdateLibrary() output still contains %q", unwanted)
		}
	}

	want := libraryHeader + "\n\n" + generated8 + "\n\n" +
		strings.Join(ParseLibrary(library).Entries[2], "\n") + "\n"
	if out != want {
		t.Errorf("UpdateLibrary() =\n%s\nwant\n%s", out, want)
	}
}

func TestUpdateLibraryInsertsBeforeOlderMajor(t *testing.T) {
	text := libraryHeader + "\n\nTags: 7.4.0, 7.4, 7\nGitCommit: old456commit\n"
	gen := "Tags: 8.0.0, 8.0, 8\nGitCommit: new"

	out := UpdateLibrary(text, 8, gen)

	lib := ParseLibrary(out)
	if len(lib.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(lib.Entries))
	}
	if m, _ := EntryMajor(lib.Entries[0]); m != 8 {
		t.Errorf("first entry major = %d, want 8", m)
	}
	if m, _ := EntryMajor(lib.Entries[1]); m != 7 {
		t.Errorf("second entry major = %d, want 7", m)
	}
}

func TestUpdateLibraryAppends(t *testing.T) {
	text := "Tags: 8.0.0, 8.0, 8\nGitCommit: keep\n"
	out := UpdateLibrary(text, 7, "Tags: 7.4.0\nGitCommit: new")

	want := "Tags: 8.0.0, 8.0, 8\nGitCommit: keep\n\nTags: 7.4.0\nGitCommit: new\n"
	if out != want {
		t.Errorf("UpdateLibrary() = %q, want %q", out, want)
	}
}

func TestUpdateLibraryEmptyGenerated(t *testing.T) {
	out := UpdateLibrary(library, 8, "")
	if strings.Contains(out, "old123commit") {
		t.Error("entries of the major should be removed")
	}
	if !strings.HasSuffix(out, "Directory: debian\n") || strings.HasSuffix(out, "\n\n") {
		t.Errorf("output should end with exactly one newline: %q", out[len(out)-20:])
	}
}

func TestUpdateLibraryIdempotent(t *testing.T) {
	once := UpdateLibrary(library, 8, generated8)
	twice := UpdateLibrary(once, 8, generated8)
	if once != twice {
		t.Errorf("second update changed output:\n%s\n---\n%s", twice, once)
	}
}
