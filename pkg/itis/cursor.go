package itis

import (
	"database/sql"

	"github.com/matzehuels/itisgraph/pkg/errors"
)

// Cursor is a lazy, forward-only sequence of records read from one query.
// It cannot be restarted. Close releases the underlying rows and is safe to
// call more than once; Next closes the cursor itself when the rows are
// exhausted or a read fails.
type Cursor[T any] struct {
	domain Domain
	rows   *sql.Rows
	scan   func(*sql.Rows) (T, error)
	rec    T
	n      int64
	err    error
	closed bool
}

// Next advances to the next record. It returns false at the end of the
// sequence or on error; check [Cursor.Err] afterwards.
func (c *Cursor[T]) Next() bool {
	if c.closed || c.err != nil {
		return false
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			c.err = errors.Wrap(errors.ErrCodeSourceRead, err, "read %s", c.domain)
		}
		c.Close()
		return false
	}
	rec, err := c.scan(c.rows)
	if err != nil {
		c.err = errors.Wrap(errors.ErrCodeSourceRead, err, "scan %s row %d", c.domain, c.n+1)
		c.Close()
		return false
	}
	c.rec = rec
	c.n++
	return true
}

// Record returns the current record.
func (c *Cursor[T]) Record() T {
	return c.rec
}

// Err returns the first error encountered while reading.
func (c *Cursor[T]) Err() error {
	return c.err
}

// Read returns the number of records read so far.
func (c *Cursor[T]) Read() int64 {
	return c.n
}

// Domain returns the entity domain the cursor reads.
func (c *Cursor[T]) Domain() Domain {
	return c.domain
}

// Close releases the cursor's rows.
func (c *Cursor[T]) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.rows.Close(); err != nil && c.err == nil {
		c.err = errors.Wrap(errors.ErrCodeSourceRead, err, "close %s", c.domain)
		return c.err
	}
	return nil
}
