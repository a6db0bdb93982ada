// Package itis reads the SQLite distribution of the Integrated Taxonomic
// Information System.
//
// A [Source] is a read-only view of one kingdom. Every entity domain is
// exposed as a lazy, forward-only [Cursor] over a single ordered query, so a
// caller never holds more than the current row:
//
//	src, err := itis.Open(ctx, "ITIS.sqlite", itis.Options{KingdomID: 3})
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
//	units, err := src.Units(ctx)
//	if err != nil {
//	    return err
//	}
//	defer units.Close()
//	for units.Next() {
//	    u := units.Record()
//	    // ...
//	}
//	if err := units.Err(); err != nil {
//	    return err
//	}
//
// Optional columns decode into [database/sql.Null] values so callers can
// omit absent attributes instead of writing empty placeholders. Every query
// and scan failure is reported as SOURCE_READ_FAILURE.
package itis

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/matzehuels/itisgraph/pkg/errors"
)

// DefaultKingdomID is the Plantae kingdom.
const DefaultKingdomID = 3

// Options configures a Source.
type Options struct {
	// KingdomID scopes every query to one kingdom. Zero selects
	// [DefaultKingdomID].
	KingdomID int64
}

// Source is a read-only, kingdom-scoped view of an ITIS database.
type Source struct {
	db        *sql.DB
	path      string
	kingdomID int64
}

// Open opens the database at path read-only and verifies that it can be
// queried.
func Open(ctx context.Context, path string, opts Options) (*Source, error) {
	if opts.KingdomID == 0 {
		opts.KingdomID = DefaultKingdomID
	}
	if opts.KingdomID < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "kingdom id must be positive, got %d", opts.KingdomID)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceRead, err, "open %s", path)
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceRead, err, "open %s", path)
	}
	db.SetMaxOpenConns(4)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeSourceRead, err, "open %s", path)
	}

	return &Source{db: db, path: path, kingdomID: opts.KingdomID}, nil
}

// dsn builds a read-only connection string. query_only rejects writes even
// when the file itself is writable.
func dsn(path string) string {
	return fmt.Sprintf("file:%s?mode=ro&_query_only=1", path)
}

// Close closes the database.
func (s *Source) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Source) Path() string {
	return s.path
}

// KingdomID returns the kingdom every query is scoped to.
func (s *Source) KingdomID() int64 {
	return s.kingdomID
}

// Count returns the number of records a domain's cursor yields.
func (s *Source) Count(ctx context.Context, d Domain) (int64, error) {
	q, ok := countQueries[d]
	if !ok {
		return 0, errors.New(errors.ErrCodeInternal, "no count query for domain %q", d)
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, q, s.kingdomID).Scan(&n); err != nil {
		return 0, errors.Wrap(errors.ErrCodeSourceRead, err, "count %s", d)
	}
	return n, nil
}

// query runs an ordered, kingdom-scoped query and wraps the rows in a cursor.
func query[T any](ctx context.Context, s *Source, d Domain, q string, scan func(*sql.Rows) (T, error)) (*Cursor[T], error) {
	rows, err := s.db.QueryContext(ctx, q, s.kingdomID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceRead, err, "query %s", d)
	}
	return &Cursor[T]{domain: d, rows: rows, scan: scan}, nil
}
