package io

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicFile is a file that replaces its destination only on Commit.
type AtomicFile struct {
	tmp  *os.File
	path string
	done bool
}

// CreateAtomic starts writing a new version of the file at path. The parent
// directory must exist.
func CreateAtomic(path string) (*AtomicFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &AtomicFile{tmp: tmp, path: path}, nil
}

// Write implements io.Writer.
func (f *AtomicFile) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Path returns the destination path.
func (f *AtomicFile) Path() string {
	return f.path
}

// Commit syncs the content and renames it over the destination.
func (f *AtomicFile) Commit() error {
	if f.done {
		return fmt.Errorf("commit %s: already finished", f.path)
	}
	f.done = true
	if err := f.tmp.Sync(); err != nil {
		f.discard()
		return fmt.Errorf("sync %s: %w", f.path, err)
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("close %s: %w", f.path, err)
	}
	if err := os.Chmod(f.tmp.Name(), 0o644); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("chmod %s: %w", f.path, err)
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("rename %s: %w", f.path, err)
	}
	return nil
}

// Abort discards the content. It is a no-op after Commit or a previous Abort.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.discard()
}

func (f *AtomicFile) discard() {
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}

// WriteFileAtomic writes the output of fn to path, replacing path only when
// fn succeeds.
func WriteFileAtomic(path string, fn func(io.Writer) error) error {
	f, err := CreateAtomic(path)
	if err != nil {
		return err
	}
	defer f.Abort()
	if err := fn(f); err != nil {
		return err
	}
	return f.Commit()
}
