// Package git reads release tags and Dockerfiles from a git repository.
//
// A [Client] wraps a local clone and one remote. The remote is either the name
// of a configured remote ("origin") or a URL, in which case an anonymous
// remote is used. Remote operations are retried with exponential backoff;
// authentication and not-found failures are not retried.
package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/matzehuels/stackbrew/pkg/errors"
	"github.com/matzehuels/stackbrew/pkg/observability"
	"github.com/matzehuels/stackbrew/pkg/selection"
)

const (
	anonymousRemote   = "anonymous"
	defaultMaxTries   = 3
	defaultOpDeadline = 2 * time.Minute
)

// Client reads tags and files through go-git.
type Client struct {
	repo     *git.Repository
	remote   *git.Remote
	name     string
	maxTries uint
	newBO    func() backoff.BackOff

	// go-git object access is not safe for concurrent use.
	mu sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithMaxTries sets how often a remote operation is attempted. Values below
// one are treated as one.
func WithMaxTries(n uint) Option {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.maxTries = n
	}
}

// WithBackOff sets the backoff policy factory used between attempts.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) { c.newBO = f }
}

// Open opens the repository at path, searching parent directories for the
// .git directory, and binds it to remote.
func Open(path, remote string, opts ...Option) (*Client, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "no git repository at %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeGitOperation, err, "open repository %s", path)
	}
	return New(repo, remote, opts...)
}

// New binds an already opened repository to remote.
func New(repo *git.Repository, remote string, opts ...Option) (*Client, error) {
	if err := errors.ValidateRemote(remote); err != nil {
		return nil, err
	}

	c := &Client{
		repo:     repo,
		name:     remote,
		maxTries: defaultMaxTries,
		newBO:    func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range opts {
		opt(c)
	}

	if errors.IsRemoteURL(remote) {
		c.remote = git.NewRemote(repo.Storer, &config.RemoteConfig{
			Name: anonymousRemote,
			URLs: []string{remote},
		})
		return c, nil
	}

	rem, err := repo.Remote(remote)
	if err != nil {
		if stderrors.Is(err, git.ErrRemoteNotFound) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "remote %q", remote)
		}
		return nil, errors.Wrap(errors.ErrCodeGitOperation, err, "remote %q", remote)
	}
	c.remote = rem
	return c, nil
}

// Remote returns the remote name or URL the client was bound to.
func (c *Client) Remote() string { return c.name }

// ListTags lists the remote's release tags of one major version, like
// `git ls-remote --refs --tags <remote> 'refs/tags/v<major>.*'`.
// Tags are returned sorted by ref name.
func (c *Client) ListTags(ctx context.Context, major int) ([]selection.Tag, error) {
	refs, err := retry(ctx, c, "ls-remote", func(ctx context.Context) ([]*plumbing.Reference, error) {
		return c.remote.ListContext(ctx, &git.ListOptions{PeelingOption: git.IgnorePeeled})
	})
	if err != nil {
		return nil, c.wrap(err, "list tags of %s", c.name)
	}
	return FilterTags(refs, major), nil
}

// FilterTags keeps the hash references under refs/tags/v<major>. and converts
// them to tags sorted by ref name.
func FilterTags(refs []*plumbing.Reference, major int) []selection.Tag {
	prefix := fmt.Sprintf("v%d.", major)

	var tags []selection.Tag
	for _, ref := range refs {
		if ref.Type() != plumbing.HashReference || !ref.Name().IsTag() {
			continue
		}
		if strings.HasSuffix(ref.Name().String(), "^{}") || !strings.HasPrefix(ref.Name().Short(), prefix) {
			continue
		}
		tags = append(tags, selection.Tag{Commit: ref.Hash().String(), Ref: ref.Name().String()})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Ref < tags[j].Ref })
	return tags
}

// FetchRefs fetches the given refs from the remote into the same local refs.
// Refs that are already present and current are not an error.
func (c *Client) FetchRefs(ctx context.Context, refs []string) error {
	if len(refs) == 0 {
		return nil
	}
	specs := make([]config.RefSpec, 0, len(refs))
	for _, r := range refs {
		spec := config.RefSpec("+" + r + ":" + r)
		if err := spec.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "ref %q", r)
		}
		specs = append(specs, spec)
	}

	_, err := retry(ctx, c, "fetch", func(ctx context.Context) (struct{}, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		err := c.remote.FetchContext(ctx, &git.FetchOptions{
			RemoteName: c.remote.Config().Name,
			RefSpecs:   specs,
			Tags:       git.NoTags,
		})
		if stderrors.Is(err, git.NoErrAlreadyUpToDate) {
			err = nil
		}
		return struct{}{}, err
	})
	if err != nil {
		return c.wrap(err, "fetch %d refs from %s", len(refs), c.name)
	}
	return nil
}

// ShowFile returns the content of path at commit, like `git show <commit>:<path>`.
// commit may name a commit or an annotated tag object.
func (c *Client) ShowFile(ctx context.Context, commit, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cm, err := c.commit(commit)
	if err != nil {
		return "", err
	}
	f, err := cm.File(path)
	if err != nil {
		if stderrors.Is(err, object.ErrFileNotFound) {
			return "", errors.Wrap(errors.ErrCodeNotFound, err, "%s:%s", short(commit), path)
		}
		return "", errors.Wrap(errors.ErrCodeGitOperation, err, "%s:%s", short(commit), path)
	}
	content, err := f.Contents()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeGitOperation, err, "read %s:%s", short(commit), path)
	}
	return content, nil
}

func (c *Client) commit(rev string) (*object.Commit, error) {
	if !plumbing.IsHash(rev) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "not a commit hash: %q", rev)
	}
	h := plumbing.NewHash(rev)

	cm, err := c.repo.CommitObject(h)
	if err == nil {
		return cm, nil
	}
	if !stderrors.Is(err, plumbing.ErrObjectNotFound) {
		return nil, errors.Wrap(errors.ErrCodeGitOperation, err, "commit %s", short(rev))
	}

	tag, terr := c.repo.TagObject(h)
	if terr != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "commit %s", short(rev))
	}
	cm, err = tag.Commit()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "tag %s does not point to a commit", short(rev))
	}
	return cm, nil
}

func (c *Client) wrap(err error, format string, args ...any) error {
	if permanentNotFound(err) {
		return errors.Wrap(errors.ErrCodeNotFound, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeGitOperation, err, format, args...)
}

// retry runs op until it succeeds, fails permanently or runs out of tries.
func retry[T any](ctx context.Context, c *Client, name string, op func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	attempt := 0

	opCtx, cancel := context.WithTimeout(ctx, defaultOpDeadline)
	defer cancel()

	res, err := backoff.Retry(opCtx, func() (T, error) {
		attempt++
		v, err := op(opCtx)
		if err != nil && permanent(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	},
		backoff.WithBackOff(c.newBO()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, _ time.Duration) {
			observability.Git().OnRetry(ctx, name, attempt, err)
		}),
	)
	observability.Git().OnOperation(ctx, name, time.Since(start), err)
	return res, err
}

// permanent reports whether err cannot be fixed by retrying.
func permanent(err error) bool {
	return permanentNotFound(err) ||
		stderrors.Is(err, transport.ErrAuthenticationRequired) ||
		stderrors.Is(err, transport.ErrAuthorizationFailed) ||
		stderrors.Is(err, transport.ErrInvalidAuthMethod) ||
		stderrors.Is(err, context.Canceled)
}

func permanentNotFound(err error) bool {
	return stderrors.Is(err, transport.ErrRepositoryNotFound) ||
		stderrors.Is(err, transport.ErrEmptyRemoteRepository) ||
		stderrors.Is(err, git.ErrRemoteNotFound)
}

func short(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}
