// Package provenance describes where a graph document came from: a content
// digest of the source file and the time the document was created.
//
// The digest is informational. It is embedded in the document so consumers
// can tell which source snapshot produced it; nothing verifies it.
package provenance

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/itisgraph/pkg/cache"
	"github.com/matzehuels/itisgraph/pkg/errors"
	"github.com/matzehuels/itisgraph/pkg/graph"
	"github.com/matzehuels/itisgraph/pkg/observability"
)

// ChunkSize is the read size used when digesting a file.
const ChunkSize = 4096

// algorithm names the digest in cache keys.
const algorithm = "md5"

// Stamp is the provenance embedded in a graph document.
type Stamp struct {
	Created    time.Time
	SourceType string
	MD5        string
}

// CreatedString formats Created as ISO-8601 with nanoseconds in local time.
func (s Stamp) CreatedString() string {
	return s.Created.Local().Format(time.RFC3339Nano)
}

// Digest returns the hex MD5 of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSourceRead, err, "open %s", path)
	}
	defer f.Close()
	sum, err := digest(f)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSourceRead, err, "read %s", path)
	}
	return sum, nil
}

func digest(r io.Reader) (string, error) {
	h := md5.New()
	buf := make([]byte, ChunkSize)
	// Hide any WriterTo so CopyBuffer reads through buf.
	if _, err := io.CopyBuffer(h, struct{ io.Reader }{r}, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Stamper produces stamps for source files.
type Stamper struct {
	now    func() time.Time
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// Option configures a Stamper.
type Option func(*Stamper)

// WithClock sets the clock used for Created.
func WithClock(now func() time.Time) Option {
	return func(s *Stamper) { s.now = now }
}

// WithCache caches digests keyed by path, size and modification time.
func WithCache(c cache.Cache) Option {
	return func(s *Stamper) { s.cache = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Stamper) { s.logger = l }
}

// NewStamper returns a Stamper using the wall clock and no cache.
func NewStamper(opts ...Option) *Stamper {
	s := &Stamper{
		now:    time.Now,
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stamp digests the source at path and records the creation time.
func (s *Stamper) Stamp(ctx context.Context, path string) (Stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stamp{}, errors.Wrap(errors.ErrCodeSourceRead, err, "stat %s", path)
	}
	created := s.now()

	key := s.keyer.DigestKey(algorithm, absPath(path), info.Size(), info.ModTime())
	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("digest cache read failed", "error", err)
	} else if ok {
		observability.Cache().OnCacheHit(ctx, "digest")
		s.logger.Debug("digest cache hit", "path", path)
		return Stamp{Created: created, SourceType: graph.SourceTypeSQLite, MD5: string(data)}, nil
	}

	observability.Cache().OnCacheMiss(ctx, "digest")
	if err := ctx.Err(); err != nil {
		return Stamp{}, err
	}
	sum, err := Digest(path)
	if err != nil {
		return Stamp{}, err
	}
	if err := s.cache.Set(ctx, key, []byte(sum), 0); err != nil {
		s.logger.Warn("digest cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "digest", len(sum))
	}
	return Stamp{Created: created, SourceType: graph.SourceTypeSQLite, MD5: sum}, nil
}

// absPath returns an absolute form of path for cache keys, or path itself
// when it cannot be resolved.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
