package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/itisgraph/pkg/graph"
)

func ExampleReadDocument() {
	doc, err := graph.ReadDocument(strings.NewReader(`{"graph": {
		"id": "itis-042721",
		"directed": true,
		"nodes": {
			"kingdom-3": {"label": "Plantae", "metadata": {"type": "kingdom"}},
			"rank-3.10": {"label": "Kingdom", "metadata": {"type": "taxon_unit_type"}}
		},
		"edges": [{"source": "kingdom-3", "target": "rank-3.10", "relation": "uses"}]
	}}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, n := range doc.Nodes {
		fmt.Println(n.ID, n.Type())
	}
	for _, e := range doc.Edges {
		fmt.Println(e.Source, e.Relation, e.Target)
	}
	// Output:
	// kingdom-3 kingdom
	// rank-3.10 taxon_unit_type
	// kingdom-3 uses rank-3.10
}
