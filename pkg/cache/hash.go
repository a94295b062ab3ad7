package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// FileKey returns the cache key for the file at path in commit.
func FileKey(commit, path string) string {
	return "file:" + strings.ToLower(commit) + ":" + path
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
