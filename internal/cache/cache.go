package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from cleaned text and the options that change
// the analysis outcome for it (parser, statistical mode, folding, weights).
// Length bounds are left out since validation runs before any lookup.
func Key(text string, options ...string) string {
	h := sha256.New()
	h.Write([]byte(text))
	for _, opt := range options {
		h.Write([]byte{0})
		h.Write([]byte(opt))
	}
	return "aiprobe:v1:" + hex.EncodeToString(h.Sum(nil))
}
