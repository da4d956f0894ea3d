// Package minimize applies the two fixed-point reductions of §4.D to a
// raw product graph: dropping nodes that can never reach End, then
// iteratively dropping nodes that never realize a strictly-better
// preference than some sibling sharing their location.
//
// The repeat-until-stable shape mirrors the teacher's
// BGP_heuristics.go pivot-node detection (walk, mark, repeat) and
// anaximander_strategy.go's explicitly-approximate weighting functions:
// both are conservative heuristics the teacher documents as imperfect
// rather than exhaustive, the same trade-off §9 calls out for this
// minimizer's dominance check.
package minimize

import (
	"math"

	"github.com/anaximander-labs/ipc/internal/product"
)

const infRank = math.MaxInt32

// Result bundles the minimized graph with the diagnostics §4.D/§7
// attach to it.
type Result struct {
	Graph *product.Graph
	// UnusedPreferences lists, per §7's UnusedPreferences kind, the
	// 1-based preference indices that never label any reachable PG node.
	UnusedPreferences []int
}

// Minimize runs both fixed-point reductions and reports unused
// preferences. numPreferences is the number of per-preference DFAs fed
// into product.Build, i.e. the highest possible AcceptRank. onSnapshot, if
// given, is invoked after each reduction stage (§1's debug-dump hook,
// checkpoints "unreachable-pruned" and "dominance-pruned") so an external
// renderer can observe the graph mid-pipeline without this package
// depending on it.
func Minimize(g *product.Graph, numPreferences int, onSnapshot ...product.SnapshotFunc) Result {
	g = pruneUnreachableToEnd(g)
	product.SnapshotAll(onSnapshot, "unreachable-pruned", g)
	g = pruneDominated(g)
	product.SnapshotAll(onSnapshot, "dominance-pruned", g)
	return Result{
		Graph:             g,
		UnusedPreferences: unusedPreferences(g, numPreferences),
	}
}

// pruneUnreachableToEnd implements the "missing-suffix-paths prune": a
// node survives only if it has a path to End in the PG (equivalently, the
// node is reached by walking in-edges backward from End).
func pruneUnreachableToEnd(g *product.Graph) *product.Graph {
	reachable := make(map[product.NodeID]bool)
	queue := []product.NodeID{product.End}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, u := range g.In(n) {
			if reachable[u] {
				continue
			}
			reachable[u] = true
			queue = append(queue, u)
		}
	}
	return g.Filter(func(id product.NodeID) bool { return reachable[id] })
}

// bestRank computes, for every live node, the minimum accept rank
// reachable by any path from that node to End. The PG can contain cycles
// (self-loops at routers with Star transitions, §9), so this is an
// iterative relaxation to a fixed point rather than a single DFS/DP pass.
func bestRank(g *product.Graph) map[product.NodeID]int {
	best := make(map[product.NodeID]int, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.AcceptRank != product.NoRank {
			best[n.ID] = n.AcceptRank
		} else {
			best[n.ID] = infRank
		}
	}

	for changed := true; changed; {
		changed = false
		for _, n := range g.Nodes {
			cur := best[n.ID]
			for _, v := range g.Out(n.ID) {
				if v == product.End {
					continue
				}
				if best[v] < cur {
					cur = best[v]
				}
			}
			if cur < best[n.ID] {
				best[n.ID] = cur
				changed = true
			}
		}
	}
	return best
}

// pruneDominated removes nodes that are never "best" at their location:
// v is redundant if some sibling u shares v's location and
// bestRank(u) < bestRank(v), i.e. a dominating sibling always realizes a
// strictly better preference; siblings with equal bestRank are all kept.
// Runs to a fixed point since removing a
// node can change which sibling dominates at a shared location (its
// bestRank may have flowed through the removed node).
func pruneDominated(g *product.Graph) *product.Graph {
	for {
		best := bestRank(g)

		minAtLoc := make(map[string]int)
		for _, n := range g.Nodes {
			if m, ok := minAtLoc[n.Loc]; !ok || best[n.ID] < m {
				minAtLoc[n.Loc] = best[n.ID]
			}
		}

		keep := func(id product.NodeID) bool {
			n := g.Node(id)
			return best[id] == minAtLoc[n.Loc]
		}

		filtered := g.Filter(keep)
		if len(filtered.Nodes) == len(g.Nodes) {
			return filtered
		}
		g = filtered
	}
}

func unusedPreferences(g *product.Graph, numPreferences int) []int {
	realized := make(map[int]bool, numPreferences)
	for _, n := range g.Nodes {
		if n.AcceptRank != product.NoRank {
			realized[n.AcceptRank] = true
		}
	}
	var unused []int
	for i := 1; i <= numPreferences; i++ {
		if !realized[i] {
			unused = append(unused, i)
		}
	}
	return unused
}
