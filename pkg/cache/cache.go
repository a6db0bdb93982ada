// Package cache stores small derived values, such as source digests, so
// repeated runs over an unchanged input skip recomputing them.
//
// Entries are opaque bytes addressed by string keys built with a [Keyer].
// [FileCache] persists entries under a directory for CLI use; [NullCache]
// disables caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// DigestKey identifies the digest of a file's content. Any change to the
	// file's size or modification time yields a different key.
	DigestKey(algorithm, path string, size int64, modTime time.Time) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DigestKey implements [Keyer].
func (DefaultKeyer) DigestKey(algorithm, path string, size int64, modTime time.Time) string {
	return hashKey("digest:"+algorithm, path, size, modTime.UTC().UnixNano())
}

// hashKey joins prefix with the SHA-256 of the JSON-encoded parts.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NullCache never stores anything. Every Get is a miss.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var (
	_ Cache = NullCache{}
	_ Cache = (*FileCache)(nil)
)
