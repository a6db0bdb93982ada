package io

import (
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/itisgraph/pkg/errors"
)

const doc = `{"graph": {"id": "g", "nodes": {"a": {"label": "A"}, "b": {"label": "B"}},
	"edges": [{"source": "a", "target": "b", "relation": "parent_of"}]}}`

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "first")
		return err
	}); err != nil {
		t.Fatalf("WriteFileAtomic() error: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "first" {
		t.Errorf("content = %q, want first", data)
	}

	// A failing writer keeps the previous content and leaves no temp file.
	boom := stderrors.New("boom")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	if !stderrors.Is(err, boom) {
		t.Fatalf("WriteFileAtomic() error = %v, want boom", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "first" {
		t.Errorf("content after failure = %q, want first", data)
	}
	if names := listDir(t, dir); len(names) != 1 || names[0] != "out.json" {
		t.Errorf("dir = %v, want only out.json", names)
	}
}

func TestAtomicFileAbortLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.json")
	f, err := CreateAtomic(path)
	if err != nil {
		t.Fatalf("CreateAtomic() error: %v", err)
	}
	f.Write([]byte("data"))
	f.Abort()
	f.Abort()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("destination exists after Abort: %v", err)
	}
	if names := listDir(t, dir); len(names) != 0 {
		t.Errorf("dir = %v, want empty", names)
	}
	if err := f.Commit(); err == nil {
		t.Error("Commit() after Abort succeeded")
	}
}

func TestAtomicFileCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.json")
	f, err := CreateAtomic(path)
	if err != nil {
		t.Fatalf("CreateAtomic() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("destination exists before Commit")
	}
	f.Write([]byte("data"))
	if err := f.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	f.Abort() // no-op
	if data, _ := os.ReadFile(path); string(data) != "data" {
		t.Errorf("content = %q, want data", data)
	}
}

func TestCreateAtomicMissingDir(t *testing.T) {
	if _, err := CreateAtomic(filepath.Join(t.TempDir(), "missing", "out.json")); err == nil {
		t.Error("CreateAtomic() in missing dir succeeded")
	}
}

func TestImportGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := ImportGraph(path)
	if err != nil {
		t.Fatalf("ImportGraph() error: %v", err)
	}
	if g.ID != "g" || len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Errorf("ImportGraph() = %+v", g)
	}
}

func TestImportGraphErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"graph": [`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want errors.Code
	}{
		{"missing", filepath.Join(dir, "none.json"), errors.ErrCodeInvalidInput},
		{"malformed", bad, errors.ErrCodeMalformedDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportGraph(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("ImportGraph() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestExportDOT(t *testing.T) {
	g, err := ReadGraph(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "g.dot")
	if err := ExportDOT(g, path); err != nil {
		t.Fatalf("ExportDOT() error: %v", err)
	}
	data, _ := os.ReadFile(path)
	want := "digraph \"g\" {\n\"a\" [label=\"A\"];\n\"b\" [label=\"B\"];\n\"a\" -> \"b\" [label=\"parent_of\"];\n}\n"
	if string(data) != want {
		t.Errorf("ExportDOT() wrote %q, want %q", data, want)
	}
}
