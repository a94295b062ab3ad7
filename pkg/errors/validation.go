package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxMajorVersion bounds the major version accepted on the command line.
// Release lines are numbered in the single or low double digits; anything
// larger is almost certainly a typo such as "82" for "8.2".
const maxMajorVersion = 999

// ValidateMajorVersion validates the major version a run is parameterized by.
// Major versions start at 1, matching the tag grammar which forbids a
// leading zero.
func ValidateMajorVersion(major int) error {
	if major < 1 {
		return New(ErrCodeInvalidInput, "major version must be >= 1, got %d", major)
	}
	if major > maxMajorVersion {
		return New(ErrCodeInvalidInput, "major version too large: %d", major)
	}
	return nil
}

// remoteNameRegex matches git remote names (e.g. "origin", "upstream-2").
var remoteNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

// ValidateRemote validates a git remote given either by name or by URL.
//
// Validation rules:
//   - Remote cannot be empty
//   - No whitespace or control characters
//   - URLs must use https, http, ssh, git or file schemes, or scp-like syntax
//   - Names must be simple identifiers
func ValidateRemote(remote string) error {
	if remote == "" {
		return New(ErrCodeInvalidInput, "remote cannot be empty")
	}

	for _, r := range remote {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "remote contains invalid characters: %q", remote)
		}
	}

	if IsRemoteURL(remote) {
		for _, scheme := range []string{"https://", "http://", "ssh://", "git://", "file://"} {
			if strings.HasPrefix(remote, scheme) {
				return nil
			}
		}
		if strings.Contains(remote, "@") && strings.Contains(remote, ":") {
			return nil // scp-like: git@github.com:org/repo.git
		}
		return New(ErrCodeInvalidInput, "unsupported remote URL: %q", remote)
	}

	if !remoteNameRegex.MatchString(remote) {
		return New(ErrCodeInvalidInput, "invalid remote name: %q", remote)
	}
	return nil
}

// IsRemoteURL reports whether remote looks like a URL rather than a remote name.
func IsRemoteURL(remote string) bool {
	return strings.Contains(remote, "://") || strings.Contains(remote, "@")
}

// ValidatePath validates a file path within a repository for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
