package ports

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// ResultCache stores optimized documents.
type ResultCache interface {
	// Get returns the cached data for key.
	// Returns domain.ErrCacheMiss if there is no entry.
	Get(ctx context.Context, key string) (string, error)

	// Set stores data under key, replacing any previous entry.
	Set(ctx context.Context, key, data string) error

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// CacheKey derives a stable key from the input document and the settings
// that produced the output.
func CacheKey(input string, settings ...string) string {
	h := sha256.New()
	h.Write([]byte(input))
	for _, s := range settings {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}
