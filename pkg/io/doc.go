// Package io reads graph documents from disk and writes derived files.
//
// # Atomic Output
//
// Every file this package writes goes through an [AtomicFile]: content is
// written to a temporary file next to the destination and renamed over it
// only when [AtomicFile.Commit] is called. A failed or interrupted run removes
// the temporary file and leaves any previous destination untouched, so a
// reader never sees a truncated document.
//
//	f, err := io.CreateAtomic("itis.json")
//	if err != nil {
//	    return err
//	}
//	defer f.Abort() // no-op after Commit
//	if err := build(f); err != nil {
//	    return err
//	}
//	return f.Commit()
//
// # Import
//
// Use [ImportGraph] to read a graph document from a file path, or
// [ReadGraph] to read from any io.Reader. Both validate the document.
//
// # Export
//
// [ExportDOT] writes the DOT projection of a document atomically.
package io
