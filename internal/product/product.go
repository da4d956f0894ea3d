// Package product builds the product graph (PG): the cross-product of a
// topology with a tuple of per-preference DFAs, fused into the single
// structure the rest of the pipeline reasons about (§3, §4.C).
//
// The BFS-driven, arena-of-integer-indices construction here is the
// spec's own recommendation (§9: "implement it as an arena-of-nodes with
// integer indices; edge lists are adjacency vectors. Avoid owning
// pointers between nodes") grounded on the teacher's
// BGP_heuristics.go Nodes type, which walks a tree recording
// first-visit vs. repeat-visit of a node via generate_if_absent /
// generate_if_present callbacks — the same absent/present split this
// package's getOrCreate makes when discovering a (loc, state vector)
// pair for the first time.
package product

import (
	"github.com/anaximander-labs/ipc/internal/dfa"
	"github.com/anaximander-labs/ipc/internal/topology"
)

// NodeID indexes into Graph.Nodes. Start and End are reserved IDs for the
// two synthetic poles, always present.
type NodeID int

const (
	Start NodeID = -1
	End   NodeID = -2
)

// synthetic location names for the two poles, used only in String/debug
// output — the poles never participate in topology adjacency lookups.
const (
	StartLoc = "Start"
	EndLoc   = "End"
)

// NoRank is the ⊥ sentinel: a node that does not realize any preference.
const NoRank = 0

// SnapshotFunc is the debug-dump hook supplementing §1's external
// PNG/graph-debug collaborator: a caller can observe the graph at a named
// checkpoint without the core depending on any rendering library. Build
// invokes it once, after construction, with stage "product".
type SnapshotFunc func(stage string, g *Graph)

// SnapshotAll invokes every non-nil hook in onSnapshot with stage and g.
// Exported so internal/minimize can fire the same checkpoints mid-pipeline.
func SnapshotAll(onSnapshot []SnapshotFunc, stage string, g *Graph) {
	for _, f := range onSnapshot {
		if f != nil {
			f(stage, g)
		}
	}
}

// Node is one (loc, state_vector, accept_rank) triple (§3).
type Node struct {
	ID         NodeID
	Loc        string
	States     []int // one DFA state per preference regex, dfa.DeadState allowed
	AcceptRank int   // 1-based index of the best accepting DFA, or NoRank
}

// Graph is the product graph: the reachable subset of (T × D) plus the
// two synthetic poles, with edges as defined in §3.
type Graph struct {
	Nodes []*Node
	out   map[NodeID][]NodeID
	in    map[NodeID][]NodeID
}

func newGraph() *Graph {
	return &Graph{
		out: make(map[NodeID][]NodeID),
		in:  make(map[NodeID][]NodeID),
	}
}

func (g *Graph) addEdge(u, v NodeID) {
	for _, existing := range g.out[u] {
		if existing == v {
			return
		}
	}
	g.out[u] = append(g.out[u], v)
	g.in[v] = append(g.in[v], u)
}

// Out returns the out-neighbors of a node (or pole).
func (g *Graph) Out(n NodeID) []NodeID { return g.out[n] }

// In returns the in-neighbors ("predecessors in the BGP-receive
// direction") of a node or pole.
func (g *Graph) In(n NodeID) []NodeID { return g.in[n] }

// Node looks up a live (non-pole) node by ID.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 {
		return nil
	}
	return g.Nodes[int(id)]
}

// Filter rebuilds g keeping only nodes for which keep returns true,
// renumbering NodeIDs densely and preserving every edge between two kept
// nodes (and every edge touching Start/End where the live endpoint is
// kept). Used by internal/minimize's two fixed-point reductions, which
// both need to drop nodes without disturbing the arena-of-indices
// invariant (§9).
func (g *Graph) Filter(keep func(NodeID) bool) *Graph {
	out := newGraph()
	remap := make(map[NodeID]NodeID, len(g.Nodes))
	for _, n := range g.Nodes {
		if !keep(n.ID) {
			continue
		}
		newID := NodeID(len(out.Nodes))
		out.Nodes = append(out.Nodes, &Node{
			ID:         newID,
			Loc:        n.Loc,
			States:     n.States,
			AcceptRank: n.AcceptRank,
		})
		remap[n.ID] = newID
	}

	edgeFrom := func(u NodeID) NodeID {
		if u == Start || u == End {
			return u
		}
		if nu, ok := remap[u]; ok {
			return nu
		}
		return NodeID(-3) // sentinel: filtered out, caller skips
	}

	for _, n := range g.Nodes {
		nu, ok := remap[n.ID]
		if !ok {
			continue
		}
		for _, v := range g.out[n.ID] {
			nv := edgeFrom(v)
			if nv == NodeID(-3) {
				continue
			}
			out.addEdge(nu, nv)
		}
	}
	for _, v := range g.out[Start] {
		if nv, ok := remap[v]; ok {
			out.addEdge(Start, nv)
		}
	}
	for _, u := range g.in[End] {
		if nu, ok := remap[u]; ok {
			out.addEdge(nu, End)
		}
	}
	return out
}

func stepAll(dfas []*dfa.DFA, states []int, sym string) []int {
	next := make([]int, len(dfas))
	for i, d := range dfas {
		next[i] = d.Step(states[i], sym)
	}
	return next
}

func allDead(states []int) bool {
	for _, s := range states {
		if s != dfa.DeadState {
			return false
		}
	}
	return true
}

func acceptRank(dfas []*dfa.DFA, states []int) int {
	for i, d := range dfas {
		if d.Accepts(states[i]) {
			return i + 1 // 1-based, so NoRank (0) is free to mean ⊥
		}
	}
	return NoRank
}

func stateKey(loc string, states []int) string {
	key := loc + "|"
	for _, s := range states {
		key += itoa(s) + ","
	}
	return key
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf []byte
	for i > 0 {
		buf = append([]byte{byte('0' + i%10)}, buf...)
		i /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

// Build performs the forward BFS described in §4.C: seed one node per
// originator location by stepping every DFA's start state on that
// location's symbol, then breadth-first expand over topology adjacency,
// fusing in each DFA's transition in lockstep. A DFA reaching its dead
// sink merely stops contributing to that node's acceptance (allDead only
// short-circuits expansion once *every* DFA tuple entry is dead, since a
// node with all-dead entries can never again realize any preference).
func Build(t *topology.Topology, dfas []*dfa.DFA, onSnapshot ...SnapshotFunc) *Graph {
	g := newGraph()
	seen := make(map[string]NodeID)

	var queue []NodeID

	getOrCreate := func(loc string, states []int) (NodeID, bool) {
		key := stateKey(loc, states)
		if id, ok := seen[key]; ok {
			return id, false
		}
		id := NodeID(len(g.Nodes))
		g.Nodes = append(g.Nodes, &Node{
			ID:         id,
			Loc:        loc,
			States:     states,
			AcceptRank: acceptRank(dfas, states),
		})
		seen[key] = id
		return id, true
	}

	initial := make([]int, len(dfas))
	for i, d := range dfas {
		initial[i] = d.Start
	}

	for _, loc := range t.Locations() {
		if !loc.CanOriginate {
			continue
		}
		sv := stepAll(dfas, initial, loc.Name)
		if allDead(sv) {
			continue
		}
		id, isNew := getOrCreate(loc.Name, sv)
		g.addEdge(Start, id)
		if isNew {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := g.Nodes[id]

		if n.AcceptRank != NoRank {
			g.addEdge(id, End)
		}

		for _, nb := range t.Neighbors(n.Loc) {
			sv := stepAll(dfas, n.States, nb)
			if allDead(sv) {
				continue
			}
			nid, isNew := getOrCreate(nb, sv)
			g.addEdge(id, nid)
			if isNew {
				queue = append(queue, nid)
			}
		}
	}

	SnapshotAll(onSnapshot, "product", g)
	return g
}
