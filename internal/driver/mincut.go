package driver

import "github.com/anaximander-labs/ipc/internal/topology"

// AggregateFailuresSurvived computes the smallest number of concurrent
// link failures that disconnects every boundary location in boundary
// from every originator in originators — exactly the quantity §4.H asks
// the driver to minimize across prefixes for an aggregate. By Menger's
// theorem this equals the max-flow between a virtual super-source wired
// to every originator and a virtual super-sink wired to every boundary
// location, over the topology treated as a unit-capacity network; this
// package computes that via repeated BFS augmenting paths
// (Edmonds-Karp), the standard treatment for unit-capacity min-cut.
func AggregateFailuresSurvived(t *topology.Topology, originators, boundary []string) int {
	const source = "\x00source"
	const sink = "\x00sink"

	cap := make(map[[2]string]int)
	var addEdge func(u, v string, c int)
	addEdge = func(u, v string, c int) {
		cap[[2]string{u, v}] += c
	}

	for _, loc := range t.Locations() {
		for _, nb := range t.Neighbors(loc.Name) {
			addEdge(loc.Name, nb, 1)
		}
	}
	for _, o := range originators {
		addEdge(source, o, 1<<30)
	}
	for _, b := range boundary {
		addEdge(b, sink, 1<<30)
	}

	adj := make(map[string]map[string]bool)
	for pair := range cap {
		u, v := pair[0], pair[1]
		if adj[u] == nil {
			adj[u] = make(map[string]bool)
		}
		if adj[v] == nil {
			adj[v] = make(map[string]bool)
		}
		adj[u][v] = true
		adj[v][u] = true // residual graph needs both directions available
	}

	maxFlow := 0
	for {
		parent := map[string]string{source: source}
		queue := []string{source}
		for len(queue) > 0 && !found(parent, sink) {
			u := queue[0]
			queue = queue[1:]
			for v := range adj[u] {
				if _, seen := parent[v]; seen {
					continue
				}
				if residual(cap, u, v) <= 0 {
					continue
				}
				parent[v] = u
				queue = append(queue, v)
			}
		}
		if _, ok := parent[sink]; !ok {
			break
		}

		bottleneck := 1 << 30
		for v := sink; v != source; {
			u := parent[v]
			if r := residual(cap, u, v); r < bottleneck {
				bottleneck = r
			}
			v = u
		}
		for v := sink; v != source; {
			u := parent[v]
			cap[[2]string{u, v}] -= bottleneck
			cap[[2]string{v, u}] += bottleneck
			v = u
		}
		maxFlow += bottleneck
	}
	return maxFlow
}

func residual(cap map[[2]string]int, u, v string) int {
	return cap[[2]string{u, v}]
}

func found(parent map[string]string, sink string) bool {
	_, ok := parent[sink]
	return ok
}
