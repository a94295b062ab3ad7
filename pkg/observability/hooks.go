// Package observability provides hooks for metrics, tracing, and logging.
//
// Library packages emit events through the registered hooks instead of
// depending on a metrics or tracing backend. Hooks are registered once at
// startup; every category defaults to a no-op implementation.
//
// # Categories
//
//   - [SelectionHooks]: tags skipped as unparseable, series retired as EOL,
//     versions selected for publishing
//   - [GenerationHooks]: releases without tags, generated entries, empty output
//   - [GitHooks]: remote operations and their retries
//
// # Usage
//
//	func main() {
//	    observability.SetSelectionHooks(&mySelectionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Selection().OnSeriesDropped(ctx, "7.4")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Selection Hooks
// =============================================================================

// SelectionHooks receives events from version selection.
type SelectionHooks interface {
	// OnTagSkipped records a tag that does not parse for the requested major.
	OnTagSkipped(ctx context.Context, ref string, err error)

	// OnSeriesDropped records a mainline removed because it is end-of-life.
	OnSeriesDropped(ctx context.Context, mainline string)

	// OnVersionSelected records a version chosen for publishing.
	OnVersionSelected(ctx context.Context, version string, milestone bool)
}

// =============================================================================
// Generation Hooks
// =============================================================================

// GenerationHooks receives events from library generation.
type GenerationHooks interface {
	// OnReleaseSkipped records a release that could not be used, either
	// because detection failed or because it produced no tags.
	OnReleaseSkipped(ctx context.Context, version, distribution string, reason error)

	// OnEntryGenerated records one library entry.
	OnEntryGenerated(ctx context.Context, version, distribution string, tags int)

	// OnEmptyOutput records a run that produced no entries.
	OnEmptyOutput(ctx context.Context, major int)
}

// =============================================================================
// Git Hooks
// =============================================================================

// GitHooks receives events from repository operations.
type GitHooks interface {
	// OnOperation records a completed operation such as "ls-remote" or "fetch".
	OnOperation(ctx context.Context, op string, duration time.Duration, err error)

	// OnRetry records a failed attempt that will be retried.
	OnRetry(ctx context.Context, op string, attempt int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSelectionHooks is a no-op implementation of SelectionHooks.
type NoopSelectionHooks struct{}

func (NoopSelectionHooks) OnTagSkipped(context.Context, string, error)     {}
func (NoopSelectionHooks) OnSeriesDropped(context.Context, string)         {}
func (NoopSelectionHooks) OnVersionSelected(context.Context, string, bool) {}

// NoopGenerationHooks is a no-op implementation of GenerationHooks.
type NoopGenerationHooks struct{}

func (NoopGenerationHooks) OnReleaseSkipped(context.Context, string, string, error) {}
func (NoopGenerationHooks) OnEntryGenerated(context.Context, string, string, int)   {}
func (NoopGenerationHooks) OnEmptyOutput(context.Context, int)                      {}

// NoopGitHooks is a no-op implementation of GitHooks.
type NoopGitHooks struct{}

func (NoopGitHooks) OnOperation(context.Context, string, time.Duration, error) {}
func (NoopGitHooks) OnRetry(context.Context, string, int, error)               {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	selectionHooks  SelectionHooks  = NoopSelectionHooks{}
	generationHooks GenerationHooks = NoopGenerationHooks{}
	gitHooks        GitHooks        = NoopGitHooks{}
	hooksMu         sync.RWMutex
)

// SetSelectionHooks registers custom selection hooks. Nil is ignored.
func SetSelectionHooks(h SelectionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		selectionHooks = h
	}
}

// SetGenerationHooks registers custom generation hooks. Nil is ignored.
func SetGenerationHooks(h GenerationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		generationHooks = h
	}
}

// SetGitHooks registers custom git hooks. Nil is ignored.
func SetGitHooks(h GitHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gitHooks = h
	}
}

// Selection returns the registered selection hooks.
func Selection() SelectionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return selectionHooks
}

// Generation returns the registered generation hooks.
func Generation() GenerationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return generationHooks
}

// Git returns the registered git hooks.
func Git() GitHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gitHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	selectionHooks = NoopSelectionHooks{}
	generationHooks = NoopGenerationHooks{}
	gitHooks = NoopGitHooks{}
}
