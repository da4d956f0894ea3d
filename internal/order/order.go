// Package order implements the consistency / ordering solver (§4.E): a
// sound-but-incomplete conservative local check that either returns one
// strict per-router preference ordering over that router's PG nodes, or
// rejects with a counter-example pair.
//
// "Conservative, may over-reject, explicitly not exhaustive" is the same
// trade-off the teacher documents for its own heuristics — see
// anaximander_strategy.go's weighting functions and the BGP decision
// process heuristics in BGP_heuristics.go, neither of which claim to
// find a globally optimal answer, only a defensible local one.
package order

import (
	"math"
	"sort"

	"github.com/anaximander-labs/ipc/internal/compileerr"
	"github.com/anaximander-labs/ipc/internal/product"
	"github.com/anaximander-labs/ipc/internal/topology"
)

const worstRank = math.MaxInt32

// Ordering is one router's strict total order over its own PG nodes,
// best first (§3).
type Ordering struct {
	Router string
	Nodes  []product.NodeID
}

// Index returns the position of a node in the ordering, or -1.
func (o *Ordering) Index(id product.NodeID) int {
	for i, n := range o.Nodes {
		if n == id {
			return i
		}
	}
	return -1
}

func rankOf(g *product.Graph, id product.NodeID) int {
	n := g.Node(id)
	if n.AcceptRank == product.NoRank {
		return worstRank
	}
	return n.AcceptRank
}

func stateVectorKey(n *product.Node) string {
	key := ""
	for _, s := range n.States {
		key += string(rune(s)) + ","
	}
	return key
}

// CheckWellFormed implements §4.E's pre-ordering well-formedness check:
// every location that can originate traffic must have at least one
// surviving PG node, or compilation fails with NoPathForRouters naming
// every offending location at once (so the operator sees the whole set
// in one run, matching §5's "sibling tasks continue, surface all
// errors").
func CheckWellFormed(g *product.Graph, t *topology.Topology) error {
	present := make(map[string]bool)
	for _, n := range g.Nodes {
		present[n.Loc] = true
	}

	var offending []string
	for _, loc := range t.Locations() {
		if loc.CanOriginate && !present[loc.Name] {
			offending = append(offending, loc.Name)
		}
	}
	if len(offending) > 0 {
		sort.Strings(offending)
		return compileerr.WithCounterExample(compileerr.NoPathForRouters, offending,
			"%d location(s) can originate but have no path to End in the product graph", len(offending))
	}
	return nil
}

// Solve computes one Ordering per router (inside location) and
// cross-checks every pair for consistency, per §4.E's algorithm.
func Solve(g *product.Graph, t *topology.Topology) (map[string]*Ordering, error) {
	orderings := make(map[string]*Ordering)

	byLoc := make(map[string][]product.NodeID)
	for _, n := range g.Nodes {
		byLoc[n.Loc] = append(byLoc[n.Loc], n.ID)
	}

	for _, loc := range t.Locations() {
		if loc.Kind != topology.Inside {
			continue
		}
		nodes := byLoc[loc.Name]
		sort.Slice(nodes, func(i, j int) bool {
			ri, rj := rankOf(g, nodes[i]), rankOf(g, nodes[j])
			if ri != rj {
				return ri < rj
			}
			return stateVectorKey(g.Node(nodes[i])) < stateVectorKey(g.Node(nodes[j]))
		})
		orderings[loc.Name] = &Ordering{Router: loc.Name, Nodes: nodes}
	}

	for _, o := range orderings {
		for i, a := range o.Nodes {
			for _, b := range o.Nodes[i+1:] {
				if bad, counter := conflicts(g, orderings, a, b); bad {
					return nil, compileerr.WithCounterExample(compileerr.InconsistentPrefs, counter,
						"router %s cannot consistently prefer node %d over node %d", o.Router, a, b)
				}
			}
		}
	}

	return orderings, nil
}

// conflicts checks whether a being preferred over b at their shared
// router is contradicted downstream: for every pair of out-neighbors
// (w reachable from a, w' reachable from b) that land on the same next
// router, that router's own rank-sorted order must not rank w' strictly
// ahead of w — doing so would mean the downstream router prefers the
// continuation of b's path over a's, which combined with the upstream
// router's a ≻ b produces exactly the dispute-wheel shape BadGadget-style
// topologies exhibit (§8).
func conflicts(g *product.Graph, orderings map[string]*Ordering, a, b product.NodeID) (bool, [2]string) {
	for _, w := range g.Out(a) {
		if w == product.End {
			continue
		}
		wn := g.Node(w)
		for _, w2 := range g.Out(b) {
			if w2 == product.End || w2 == w {
				continue
			}
			w2n := g.Node(w2)
			if wn.Loc != w2n.Loc {
				continue
			}
			next, ok := orderings[wn.Loc]
			if !ok {
				continue
			}
			iw, iw2 := next.Index(w), next.Index(w2)
			if iw == -1 || iw2 == -1 {
				continue
			}
			if iw2 < iw {
				return true, [2]string{nodeLabel(g, a), nodeLabel(g, b)}
			}
		}
	}
	return false, [2]string{}
}

func nodeLabel(g *product.Graph, id product.NodeID) string {
	n := g.Node(id)
	return n.Loc + "#" + stateVectorKey(n)
}
