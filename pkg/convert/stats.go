package convert

import (
	"time"

	"github.com/matzehuels/itisgraph/pkg/graph"
)

// Stats summarizes a build.
type Stats struct {
	Nodes map[graph.NodeType]int64
	Edges map[graph.Relation]int64

	// SkippedAuthors counts positive author ids that name no author of the
	// kingdom and so produced no edge.
	SkippedAuthors int64

	Duration time.Duration
}

func newStats() Stats {
	return Stats{
		Nodes: make(map[graph.NodeType]int64),
		Edges: make(map[graph.Relation]int64),
	}
}

// NodeCount returns the number of nodes written.
func (s Stats) NodeCount() int64 {
	var n int64
	for _, c := range s.Nodes {
		n += c
	}
	return n
}

// EdgeCount returns the number of edges written.
func (s Stats) EdgeCount() int64 {
	var n int64
	for _, c := range s.Edges {
		n += c
	}
	return n
}
