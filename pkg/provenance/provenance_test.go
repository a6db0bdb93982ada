package provenance

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/itisgraph/pkg/cache"
	"github.com/matzehuels/itisgraph/pkg/errors"
	"github.com/matzehuels/itisgraph/pkg/graph"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "itis.sqlite")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDigest(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", "d41d8cd98f00b204e9800998ecf8427e"},
		{"abc", "abc", "900150983cd24fb0d6963f7d28e17f72"},
		// Spans several chunks.
		{"multi chunk", strings.Repeat("a", 3*ChunkSize+17), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Digest(writeFile(t, tt.content))
			if err != nil {
				t.Fatalf("Digest() error: %v", err)
			}
			if len(got) != 32 {
				t.Errorf("Digest() = %q, want 32 hex chars", got)
			}
			if tt.want != "" && got != tt.want {
				t.Errorf("Digest() = %q, want %q", got, tt.want)
			}
		})
	}
}

// sizedReader records the largest read and fails if drained through WriteTo.
type sizedReader struct {
	t   *testing.T
	r   io.Reader
	max int
}

func (s *sizedReader) Read(p []byte) (int, error) {
	s.max = max(s.max, len(p))
	return s.r.Read(p)
}

func (s *sizedReader) WriteTo(w io.Writer) (int64, error) {
	s.t.Error("digest drained the source through WriteTo")
	return io.Copy(w, s.r)
}

func TestDigestReadsInChunks(t *testing.T) {
	content := strings.Repeat("itis", ChunkSize)
	src := &sizedReader{t: t, r: strings.NewReader(content)}

	got, err := digest(src)
	if err != nil {
		t.Fatalf("digest() error: %v", err)
	}
	sum := md5.Sum([]byte(content))
	if want := hex.EncodeToString(sum[:]); got != want {
		t.Errorf("digest() = %q, want %q", got, want)
	}
	if src.max != ChunkSize {
		t.Errorf("largest read = %d, want %d", src.max, ChunkSize)
	}
}

func TestDigestMissingFile(t *testing.T) {
	_, err := Digest(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, errors.ErrCodeSourceRead) {
		t.Errorf("Digest() error = %v, want %s", err, errors.ErrCodeSourceRead)
	}
}

func TestStamp(t *testing.T) {
	at := time.Date(2021, 4, 27, 10, 11, 12, 123456789, time.UTC)
	s := NewStamper(WithClock(func() time.Time { return at }))

	st, err := s.Stamp(context.Background(), writeFile(t, "abc"))
	if err != nil {
		t.Fatalf("Stamp() error: %v", err)
	}
	if !st.Created.Equal(at) {
		t.Errorf("Created = %v, want %v", st.Created, at)
	}
	if st.SourceType != graph.SourceTypeSQLite {
		t.Errorf("SourceType = %q, want %q", st.SourceType, graph.SourceTypeSQLite)
	}
	if st.MD5 != "900150983cd24fb0d6963f7d28e17f72" {
		t.Errorf("MD5 = %q", st.MD5)
	}

	parsed, err := time.Parse(time.RFC3339Nano, st.CreatedString())
	if err != nil {
		t.Fatalf("CreatedString() = %q: %v", st.CreatedString(), err)
	}
	if !parsed.Equal(at) {
		t.Errorf("CreatedString() round trip = %v, want %v", parsed, at)
	}
}

func TestStampUsesCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "abc")
	s := NewStamper(WithCache(c))

	first, err := s.Stamp(ctx, path)
	if err != nil {
		t.Fatalf("Stamp() error: %v", err)
	}

	// Poison the cached digest: a second stamp of the unchanged file must
	// return the cached value instead of rehashing.
	info, _ := os.Stat(path)
	key := cache.NewDefaultKeyer().DigestKey(algorithm, absPath(path), info.Size(), info.ModTime())
	if err := c.Set(ctx, key, []byte("cached"), 0); err != nil {
		t.Fatal(err)
	}
	second, err := s.Stamp(ctx, path)
	if err != nil {
		t.Fatalf("Stamp() error: %v", err)
	}
	if second.MD5 != "cached" {
		t.Errorf("second MD5 = %q, want cached value (first was %q)", second.MD5, first.MD5)
	}

	// A content change alters size, so the key misses.
	if err := os.WriteFile(path, []byte("abcd"), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := s.Stamp(ctx, path)
	if err != nil {
		t.Fatalf("Stamp() error: %v", err)
	}
	if third.MD5 != "e2fc714c4727ee9395f324cd2e7f331f" {
		t.Errorf("MD5 after change = %q", third.MD5)
	}
}

func TestStampCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStamper().Stamp(ctx, writeFile(t, "abc")); err != context.Canceled {
		t.Errorf("Stamp() error = %v, want context.Canceled", err)
	}
}
