package detect

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/matzehuels/stackbrew/pkg/cache"
)

// CachedSource serves ShowFile from a cache before asking Source. Only reads
// at full commit hashes are cached; their content cannot change. Cache
// failures are logged and fall through to Source.
type CachedSource struct {
	Source FileSource
	Cache  cache.Cache
	Logger *log.Logger
}

// ShowFile implements FileSource.
func (s *CachedSource) ShowFile(ctx context.Context, commit, path string) (string, error) {
	if s.Cache == nil || !plumbing.IsHash(commit) {
		return s.Source.ShowFile(ctx, commit, path)
	}

	key := cache.FileKey(commit, path)
	data, hit, err := s.Cache.Get(ctx, key)
	switch {
	case err != nil:
		s.logf("cache read failed", "key", key, "error", err)
	case hit:
		return string(data), nil
	}

	content, err := s.Source.ShowFile(ctx, commit, path)
	if err != nil {
		return "", err
	}
	if err := s.Cache.Set(ctx, key, []byte(content), 0); err != nil {
		s.logf("cache write failed", "key", key, "error", err)
	}
	return content, nil
}

func (s *CachedSource) logf(msg string, kv ...any) {
	if s.Logger != nil {
		s.Logger.Warn(msg, kv...)
	}
}
