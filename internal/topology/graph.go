package topology

import (
	graph "github.com/Emeline-1/basic_graph"
)

// graphAdj is the directed adjacency store behind Topology.Neighbors: a plain
// map keyed on location name. This part has no analog in basic_graph — the
// teacher only ever drives that library's undirected Add_edge/
// Next_connected_component pair (overlays_processing.go:37-50), never a
// directed per-node neighbor query, so there is nothing of the teacher's
// to reuse here.
type graphAdj struct {
	adj map[string]map[string]struct{}
}

func newGraph() *graphAdj {
	return &graphAdj{adj: make(map[string]map[string]struct{})}
}

func (g *graphAdj) addNode(n string) {
	if _, ok := g.adj[n]; !ok {
		g.adj[n] = make(map[string]struct{})
	}
}

func (g *graphAdj) addEdge(u, v string) {
	g.addNode(u)
	g.addNode(v)
	g.adj[u][v] = struct{}{}
}

// connectedComponents is the undirected partition basic_graph.Next_connected_component
// already computes in the teacher (overlays_processing.go's "transitive
// closure of overlays thanks to graphs connected components"). The
// teacher built a fresh graph.New() from derived edges rather than reusing
// whatever directed graph it had on hand; this does the same: every edge
// of g, undirected, is re-fed into a new basic_graph.Graph, then its
// component iterator is drained into our own [][]string shape.
func (g *graphAdj) connectedComponents() [][]string {
	bg := graph.New()
	isolated := make(map[string]bool, len(g.adj))
	for u := range g.adj {
		isolated[u] = true
	}
	for u, outs := range g.adj {
		for v := range outs {
			bg.Add_edge(u, v)
			isolated[u] = false
			isolated[v] = false
		}
	}

	var components [][]string
	bg.Set_iterator()
	for bg.Next_connected_component() {
		components = append(components, bg.Connected_component())
	}

	// basic_graph's component iterator only ever visits nodes that have at
	// least one edge; a node with none (e.g. the sole member of a
	// single-location inside network) never reaches Add_edge and so needs
	// to be reported as its own singleton component here.
	for n, alone := range isolated {
		if alone {
			components = append(components, []string{n})
		}
	}
	return components
}
