package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stackbrew/pkg/cache"
	"github.com/matzehuels/stackbrew/pkg/config"
	"github.com/matzehuels/stackbrew/pkg/errors"
	"github.com/matzehuels/stackbrew/pkg/selection"
)

// fakeRepo serves tags and Dockerfiles from memory.
type fakeRepo struct {
	tags    []selection.Tag
	files   map[string]string
	fetched []string
	listErr error
}

func (f *fakeRepo) ListTags(context.Context, int) ([]selection.Tag, error) {
	return f.tags, f.listErr
}

func (f *fakeRepo) FetchRefs(_ context.Context, refs []string) error {
	f.fetched = append(f.fetched, refs...)
	return nil
}

func (f *fakeRepo) ShowFile(_ context.Context, commit, path string) (string, error) {
	content, ok := f.files[commit+":"+path]
	if !ok {
		return "", errors.New(errors.ErrCodeNotFound, "%s:%s", commit, path)
	}
	return content, nil
}

func redisRepo() *fakeRepo {
	return &fakeRepo{
		tags: []selection.Tag{
			{Commit: "c1", Ref: "refs/tags/v8.0.5"},
			{Commit: "c2", Ref: "refs/tags/v8.2.1"},
			{Commit: "c0", Ref: "refs/tags/v8.2.0"},
		},
		files: map[string]string{
			"c1:debian/Dockerfile": "FROM debian:bookworm-slim\n",
			"c1:alpine/Dockerfile": "FROM alpine:3.21\n",
			"c2:debian/Dockerfile": "FROM debian:bookworm-slim\n",
			"c2:alpine/Dockerfile": "FROM alpine:3.22\n",
		},
	}
}

type harness struct {
	cli    *CLI
	repo   *fakeRepo
	stdout bytes.Buffer
	stderr bytes.Buffer
	path   string
	remote string
}

func newHarness(t *testing.T, repo *fakeRepo) *harness {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	h := &harness{repo: repo}
	h.cli = New(&h.stderr, LogInfo)
	h.cli.Stdout = &h.stdout
	h.cli.Open = func(path, remote string) (Repository, error) {
		h.path, h.remote = path, remote
		return h.repo, nil
	}
	return h
}

func (h *harness) run(args ...string) error {
	return h.runContext(context.Background(), args...)
}

func (h *harness) runContext(ctx context.Context, args ...string) error {
	root := h.cli.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func TestGenerate(t *testing.T) {
	h := newHarness(t, redisRepo())

	if err := h.run("generate-stackbrew-content", "8"); err != nil {
		t.Fatalf("generate error: %v\n%s", err, h.stderr.String())
	}

	out := h.stdout.String()
	blocks := strings.Split(strings.TrimSuffix(out, "\n"), "\n\n")
	if len(blocks) != 4 {
		t.Fatalf("got %d entries, want 4:\n%s", len(blocks), out)
	}

	want := `Tags: 8.2.1, 8.2, 8, 8.2.1-bookworm, 8.2-bookworm, 8-bookworm, latest, bookworm
Architectures: amd64, arm32v5, arm32v7, arm64v8, i386, mips64le, ppc64le, s390x
GitCommit: c2
GitFetch: refs/tags/v8.2.1
Directory: debian`
	if blocks[0] != want {
		t.Errorf("first entry =\n%s\nwant\n%s", blocks[0], want)
	}
	if !strings.HasPrefix(blocks[3], "Tags: 8.0.5-alpine, 8.0-alpine, 8.0.5-alpine3.21, 8.0-alpine3.21\n") {
		t.Errorf("last entry =\n%s", blocks[3])
	}

	if h.path != "." || h.remote != "origin" {
		t.Errorf("opened %q with remote %q, want . and origin", h.path, h.remote)
	}
	if want := []string{"refs/tags/v8.2.1", "refs/tags/v8.0.5"}; strings.Join(h.repo.fetched, ",") != strings.Join(want, ",") {
		t.Errorf("fetched = %v, want %v", h.repo.fetched, want)
	}
	if strings.Contains(h.stderr.String(), "Tags:") {
		t.Error("library content leaked to stderr")
	}
}

func TestGenerateAliasAndFlags(t *testing.T) {
	h := newHarness(t, redisRepo())

	url := "https://github.com/redis/docker-library-redis.git"
	if err := h.run("generate", "8", "--remote", url, "--repo", "/src/redis", "--skip-fetch", "--no-cache", "--format", "json"); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if h.remote != url || h.path != "/src/redis" {
		t.Errorf("opened %q with remote %q", h.path, h.remote)
	}
	if len(h.repo.fetched) != 0 {
		t.Errorf("fetched %v with --skip-fetch", h.repo.fetched)
	}
	if out := h.stdout.String(); !strings.HasPrefix(out, "[") || !strings.Contains(out, `"commit": "c2"`) {
		t.Errorf("json output = %s", out)
	}
}

func TestGenerateDryRun(t *testing.T) {
	h := newHarness(t, redisRepo())

	if err := h.run("generate", "8", "--dry-run", "--verbose"); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty in dry run", h.stdout.String())
	}
	errOut := h.stderr.String()
	for _, want := range []string{"DRY RUN: Would generate stackbrew library", "Generated content:", "GitCommit: c2"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q", want)
		}
	}
}

func TestGenerateDryRunSameContent(t *testing.T) {
	plain := newHarness(t, redisRepo())
	if err := plain.run("generate", "8"); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	dry := newHarness(t, redisRepo())
	if err := dry.run("generate", "8", "--dry-run", "-v"); err != nil {
		t.Fatalf("generate --dry-run error: %v", err)
	}
	if !strings.Contains(dry.stderr.String(), plain.stdout.String()) {
		t.Error("dry-run content differs from regular output")
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		repo     *fakeRepo
		args     []string
		wantExit int
	}{
		{"zero major", redisRepo(), []string{"generate", "0"}, ExitFailure},
		{"non-numeric major", redisRepo(), []string{"generate", "eight"}, ExitFailure},
		{"bad format", redisRepo(), []string{"generate", "8", "--format", "xml"}, ExitFailure},
		{"bad remote", redisRepo(), []string{"generate", "8", "--remote", "bad remote"}, ExitFailure},
		{"no tags", &fakeRepo{}, []string{"generate", "8"}, ExitNoVersions},
		{"no dockerfiles", &fakeRepo{tags: redisRepo().tags}, []string{"generate", "8"}, ExitNoReleases},
		{"missing argument", redisRepo(), []string{"generate"}, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.repo)
			err := h.run(tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ExitCode(err); got != tt.wantExit {
				t.Errorf("ExitCode(%v) = %d, want %d", err, got, tt.wantExit)
			}
			if h.stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", h.stdout.String())
			}
		})
	}
}

func TestGenerateConfigFile(t *testing.T) {
	h := newHarness(t, redisRepo())

	path := filepath.Join(t.TempDir(), "stackbrew.toml")
	cfg := `remote = "upstream"

[[distributions]]
type = "debian"
architectures = ["amd64", "arm64v8"]
`
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := h.run("generate", "8", "--config", path, "--skip-fetch"); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if h.remote != "upstream" {
		t.Errorf("remote = %q, want upstream", h.remote)
	}
	out := h.stdout.String()
	if strings.Contains(out, "alpine") {
		t.Errorf("alpine entries generated without alpine configured:\n%s", out)
	}
	if !strings.Contains(out, "Architectures: amd64, arm64v8\n") {
		t.Errorf("configured architectures missing:\n%s", out)
	}

	// Flags override the file.
	h2 := newHarness(t, redisRepo())
	if err := h2.run("generate", "8", "--config", path, "--remote", "origin", "--skip-fetch"); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if h2.remote != "origin" {
		t.Errorf("remote = %q, want origin", h2.remote)
	}
}

func TestGenerateConfigFromEnv(t *testing.T) {
	h := newHarness(t, redisRepo())

	path := filepath.Join(t.TempDir(), "stackbrew.toml")
	if err := os.WriteFile(path, []byte(`repository = "/srv/redis"`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvVar, path)

	if err := h.run("generate", "8", "--skip-fetch"); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if h.path != "/srv/redis" {
		t.Errorf("repository = %q, want /srv/redis", h.path)
	}
}

const oldLibrary = `# generated by hand

Maintainers: Redis Docker Team
GitRepo: https://github.com/redis/docker-library-redis.git

Tags: 8.2.0, 8.2, 8, 8.2.0-bookworm, 8.2-bookworm, 8-bookworm, latest, bookworm
Architectures: amd64
GitCommit: old
GitFetch: refs/tags/v8.2.0
Directory: debian

Tags: 7.4.0, 7.4, 7, 7.4.0-bookworm, 7.4-bookworm, 7-bookworm
Architectures: amd64
GitCommit: seven
GitFetch: refs/tags/v7.4.0
Directory: debian
`

func TestUpdateToFile(t *testing.T) {
	h := newHarness(t, redisRepo())

	dir := t.TempDir()
	in := filepath.Join(dir, "redis")
	out := filepath.Join(dir, "redis.new")
	if err := os.WriteFile(in, []byte(oldLibrary), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := h.run("update-stackbrew-file", "8", "-i", in, "-o", out); err != nil {
		t.Fatalf("update error: %v\n%s", err, h.stderr.String())
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty when writing a file", h.stdout.String())
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	got := string(raw)

	if !strings.HasPrefix(got, "# generated by hand\n\nMaintainers: Redis Docker Team\nGitRepo: https://github.com/redis/docker-library-redis.git\n\nTags: 8.2.1, ") {
		t.Errorf("header or first entry changed:\n%s", got)
	}
	if strings.Contains(got, "GitCommit: old") {
		t.Error("old 8.x entry still present")
	}
	if !strings.HasSuffix(got, "GitCommit: seven\nGitFetch: refs/tags/v7.4.0\nDirectory: debian\n") {
		t.Errorf("7.x entry not kept at the end:\n%s", got)
	}
	if n := strings.Count(got, "Tags: "); n != 5 {
		t.Errorf("got %d entries, want 5", n)
	}
	if !strings.Contains(h.stderr.String(), "Updated "+out) {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestUpdateToStdout(t *testing.T) {
	h := newHarness(t, redisRepo())

	in := filepath.Join(t.TempDir(), "redis")
	if err := os.WriteFile(in, []byte(oldLibrary), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h.run("update-stackbrew-file", "8", "--input", in, "--skip-fetch"); err != nil {
		t.Fatalf("update error: %v", err)
	}
	got := h.stdout.String()
	if !strings.Contains(got, "GitCommit: c2\n") || !strings.HasSuffix(got, "Directory: debian\n") {
		t.Errorf("stdout =\n%s", got)
	}

	raw, _ := os.ReadFile(in)
	if string(raw) != oldLibrary {
		t.Error("input file modified without --output")
	}
}

func TestUpdateErrors(t *testing.T) {
	h := newHarness(t, redisRepo())

	err := h.run("update-stackbrew-file", "8", "--input", filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing input code = %v, want %v", errors.GetCode(err), errors.ErrCodeNotFound)
	}

	h = newHarness(t, redisRepo())
	if err := h.run("update-stackbrew-file", "8"); err == nil {
		t.Error("update without --input should fail")
	}

	in := filepath.Join(t.TempDir(), "redis")
	if err := os.WriteFile(in, []byte(oldLibrary), 0o644); err != nil {
		t.Fatal(err)
	}
	h = newHarness(t, &fakeRepo{})
	err = h.run("update-stackbrew-file", "8", "-i", in)
	if ExitCode(err) != ExitNoVersions {
		t.Errorf("ExitCode(%v) = %d, want %d", err, ExitCode(err), ExitNoVersions)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/var/cache/ci")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/var/cache/ci", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}

	t.Setenv("XDG_CACHE_HOME", "")
	dir, err = cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".cache", appName)) {
		t.Errorf("cacheDir() = %q, want ~/.cache/%s", dir, appName)
	}
}

func TestNewCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(&bytes.Buffer{}, LogInfo)

	if _, ok := c.newCache(true).(*cache.NullCache); !ok {
		t.Error("newCache(noCache) should return a null cache")
	}
	fc, ok := c.newCache(false).(*cache.FileCache)
	if !ok {
		t.Fatal("newCache() should return a file cache")
	}
	if filepath.Base(fc.Dir()) != appName {
		t.Errorf("cache dir = %q", fc.Dir())
	}
}

// A collaborator that reports its own error after an interrupt still yields
// the interrupted exit code.
func TestGenerateInterrupted(t *testing.T) {
	repo := redisRepo()
	repo.listErr = errors.New(errors.ErrCodeGitOperation, "ls-remote origin: connection reset")
	h := newHarness(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := h.runContext(ctx, "generate", "8")
	if got := ExitCode(err); got != ExitInterrupted {
		t.Errorf("ExitCode() = %d, want %d (err: %v)", got, ExitInterrupted, err)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", h.stdout.String())
	}
}

func TestGenerateRestoresLoggerOutput(t *testing.T) {
	h := newHarness(t, redisRepo())
	if err := h.run("generate", "8"); err != nil {
		t.Fatalf("generate error: %v", err)
	}

	h.stderr.Reset()
	h.cli.Logger.Info("after run")
	if !strings.Contains(h.stderr.String(), "after run") {
		t.Errorf("stderr = %q, want logger writing to Stderr", h.stderr.String())
	}
}
