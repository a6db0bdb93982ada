package dot

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/matzehuels/itisgraph/pkg/graph"
)

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

// Quote returns s as a quoted DOT string.
func Quote(s string) string {
	return `"` + escaper.Replace(s) + `"`
}

// Write writes doc as DOT text to w.
func Write(w io.Writer, doc *graph.Document) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("digraph " + Quote(doc.ID) + " {\n")
	for _, n := range doc.Nodes {
		bw.WriteString(Quote(n.ID) + " [label=" + Quote(n.Label) + "];\n")
	}
	for _, e := range doc.Edges {
		bw.WriteString(Quote(e.Source) + " -> " + Quote(e.Target) + " [label=" + Quote(string(e.Relation)) + "];\n")
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// ToDOT returns doc as DOT text.
func ToDOT(doc *graph.Document) string {
	var buf bytes.Buffer
	_ = Write(&buf, doc)
	return buf.String()
}
