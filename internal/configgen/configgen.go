// Package configgen is the configuration generator (§4.G): it turns a
// minimized, ordered product graph into one DeviceConfig per router,
// with peer/community compression and the szRaw/szSmart size counters
// §4.G specifies for reporting compression effectiveness.
package configgen

import (
	"fmt"
	"sort"

	"github.com/anaximander-labs/ipc/internal/filter"
	"github.com/anaximander-labs/ipc/internal/inbound"
	"github.com/anaximander-labs/ipc/internal/order"
	"github.com/anaximander-labs/ipc/internal/product"
	"github.com/anaximander-labs/ipc/internal/regexp"
	"github.com/anaximander-labs/ipc/internal/topology"
)

// SizeCounters records szRaw (Σ |in| × |out|, the naive per-pair rule
// count) and szSmart (Σ |exports| + |filters|, the compressed count) a
// compile unit produced, so callers can report compression effectiveness.
type SizeCounters struct {
	Raw   int
	Smart int
}

func stateID(n *product.Node) string {
	id := "st"
	for _, s := range n.States {
		id += fmt.Sprintf("-%d", s)
	}
	return id
}

// Generate builds one DeviceConfig per router from the minimized,
// ordered PG.
func Generate(g *product.Graph, t *topology.Topology, orderings map[string]*order.Ordering, knobs inbound.Knobs) (map[string]filter.DeviceConfig, SizeCounters, error) {
	configs := make(map[string]filter.DeviceConfig)
	var counters SizeCounters

	edgeMultiplicity := locPairMultiplicity(g)
	peerClassifications := make(map[string]inbound.Classification)
	for _, loc := range t.OutsideLocations() {
		peerClassifications[loc] = inbound.Classify(g, t, loc)
	}

	for routerName, ord := range orderings {
		var filters []filter.Filter
		originates := false

		for i, nid := range ord.Nodes {
			n := g.Node(nid)
			localPref := 101 - (i + 1)

			ins := nonStartIn(g, nid)
			outs := nonEndOut(g, nid)
			counters.Raw += len(ins) * len(outs)

			if len(ins) == 0 {
				originates = true
			}

			match, err := buildMatch(g, t, n, ins, edgeMultiplicity)
			if err != nil {
				return nil, counters, err
			}

			exports, err := buildExports(g, t, n, outs, knobs, peerClassifications, i)
			if err != nil {
				return nil, counters, err
			}
			exports = stripRedundantTags(exports, match)

			filters = append(filters, filter.Allow(match, localPref, exports))
			counters.Smart += len(exports) + 1
		}

		filters = collapseToWildcard(filters, t)
		filters = append(filters, filter.DenyFilter())
		counters.Smart++

		configs[routerName] = filter.DeviceConfig{Originates: originates, Filters: filters}
	}

	return configs, counters, nil
}

func nonStartIn(g *product.Graph, id product.NodeID) []product.NodeID {
	var out []product.NodeID
	for _, u := range g.In(id) {
		if u != product.Start {
			out = append(out, u)
		}
	}
	return out
}

func nonEndOut(g *product.Graph, id product.NodeID) []product.NodeID {
	var out []product.NodeID
	for _, v := range g.Out(id) {
		if v != product.End {
			out = append(out, v)
		}
	}
	return out
}

// locPairMultiplicity counts, for every (u.Loc, v.Loc) pair, how many
// distinct PG edges realize it — the edge-multiplicity §4.G step 6 uses
// to decide whether Match.State(c, loc) can be simplified to
// Match.Peer(loc).
func locPairMultiplicity(g *product.Graph) map[[2]string]int {
	counts := make(map[[2]string]int)
	for _, n := range g.Nodes {
		for _, v := range g.Out(n.ID) {
			if v == product.End {
				continue
			}
			vn := g.Node(v)
			counts[[2]string{n.Loc, vn.Loc}]++
		}
	}
	return counts
}

// buildMatch derives the incoming match for PG node n from its
// in-neighbors: a direct, unambiguous peer edge collapses to Match.Peer
// or Match.State; anything else is reconstructed as a path regex via a
// bounded backward walk of the PG (a tractable stand-in for full
// state-elimination, valid because the PG's arena-of-indices form is
// exactly the automaton state-elimination operates over).
func buildMatch(g *product.Graph, t *topology.Topology, n *product.Node, ins []product.NodeID, mult map[[2]string]int) (filter.Match, error) {
	if len(ins) == 0 {
		return filter.NoMatch(), nil
	}

	allSameLoc := true
	loc0 := g.Node(ins[0]).Loc
	for _, u := range ins[1:] {
		if g.Node(u).Loc != loc0 {
			allSameLoc = false
			break
		}
	}

	if len(ins) == 1 {
		u := g.Node(ins[0])
		if isDirectTopologyPeer(t, u.Loc, n.Loc) {
			if mult[[2]string{u.Loc, n.Loc}] == 1 {
				return filter.Peer(u.Loc), nil
			}
			return filter.State(stateID(u), n.Loc), nil
		}
		return filter.PathRegex(reconstructPathRegex(g, ins[0])), nil
	}

	if allSameLoc && isDirectTopologyPeer(t, loc0, n.Loc) {
		return filter.State(stateID(n), loc0), nil
	}

	var alts []*regexp.Regex
	for _, u := range ins {
		alts = append(alts, reconstructPathRegex(g, u))
	}
	return filter.PathRegex(regexp.Union(alts...)), nil
}

func isDirectTopologyPeer(t *topology.Topology, u, v string) bool {
	for _, nb := range t.Neighbors(u) {
		if nb == v {
			return true
		}
	}
	return false
}

// reconstructPathRegex walks backward from a PG node toward Start,
// following in-edges, and returns the union of every bounded-length
// path found, reversed into announcement order. The walk is capped to
// avoid unbounded blowup on cyclic PGs (self-loops at Star transitions,
// §9); a cycle simply stops contributing new alternatives once every
// live node at the current frontier has already been visited on that
// branch.
func reconstructPathRegex(g *product.Graph, from product.NodeID) *regexp.Regex {
	const maxDepth = 8
	var alts []*regexp.Regex

	var walk func(id product.NodeID, acc []string, visited map[product.NodeID]bool)
	walk = func(id product.NodeID, acc []string, visited map[product.NodeID]bool) {
		n := g.Node(id)
		acc = append([]string{n.Loc}, acc...)
		ins := nonStartIn(g, id)
		if len(ins) == 0 || len(acc) >= maxDepth {
			alts = append(alts, regexp.Path(acc))
			return
		}
		for _, u := range ins {
			if visited[u] {
				continue
			}
			nv := make(map[product.NodeID]bool, len(visited)+1)
			for k := range visited {
				nv[k] = true
			}
			nv[id] = true
			walk(u, acc, nv)
		}
	}
	walk(from, nil, map[product.NodeID]bool{})
	return regexp.Union(alts...)
}

// buildExports partitions n's out-neighbors into inside vs. outside
// targets (§4.G step 4): inside targets collapse to one wildcard export
// tagging this node's identity; outside targets get one export per peer,
// inheriting §4.F's MED/prepend/no-export actions.
func buildExports(g *product.Graph, t *topology.Topology, n *product.Node, outs []product.NodeID, knobs inbound.Knobs, classifications map[string]inbound.Classification, tier int) ([]filter.Export, error) {
	insideTargets := false
	outsidePeers := make(map[string]bool)

	for _, v := range outs {
		vn := g.Node(v)
		loc, ok := t.Location(vn.Loc)
		if !ok {
			continue
		}
		if loc.Kind == topology.Inside {
			insideTargets = true
		} else {
			outsidePeers[vn.Loc] = true
		}
	}

	var exports []filter.Export
	if insideTargets {
		exports = append(exports, filter.Export{
			PeerLocator: "*",
			Actions:     []filter.Action{filter.ActionSetCommunity(stateID(n))},
		})
	}

	peers := make([]string, 0, len(outsidePeers))
	for p := range outsidePeers {
		peers = append(peers, p)
	}
	sort.Strings(peers)

	for _, p := range peers {
		var actions []filter.Action
		if c, ok := classifications[p]; ok {
			resolved, err := inbound.Resolve(c, knobs)
			if err != nil {
				return nil, err
			}
			actions = append(actions, resolved...)
		}
		tierActions, err := inbound.TierActions(p, tier, knobs)
		if err != nil {
			return nil, err
		}
		actions = append(actions, tierActions...)
		exports = append(exports, filter.Export{PeerLocator: p, Actions: actions})
	}

	if len(peers) == len(outsidePeers) && len(outsidePeers) > 0 && allPeersRepresented(t, outsidePeers) && !anyTierAction(exports) {
		exports = []filter.Export{{PeerLocator: "*"}}
	}

	return exports, nil
}

func allPeersRepresented(t *topology.Topology, present map[string]bool) bool {
	for _, loc := range t.OutsideLocations() {
		if !present[loc] {
			return false
		}
	}
	return true
}

func anyTierAction(exports []filter.Export) bool {
	for _, e := range exports {
		if len(e.Actions) > 0 {
			return true
		}
	}
	return false
}

// stripRedundantTags drops a SetCommunity action whose value is already
// implied by the receiving match (§4.G step 5): tagging with the same
// community the next hop already keys its Match.State on is a no-op.
func stripRedundantTags(exports []filter.Export, match filter.Match) []filter.Export {
	if match.Kind != filter.MatchState {
		return exports
	}
	out := make([]filter.Export, len(exports))
	for i, e := range exports {
		var kept []filter.Action
		for _, a := range e.Actions {
			if a.Kind == filter.SetCommunity && a.Community == match.Community {
				continue
			}
			kept = append(kept, a)
		}
		out[i] = filter.Export{PeerLocator: e.PeerLocator, Actions: kept}
	}
	return out
}

// collapseToWildcard returns filters unchanged. The wildcard collapse of
// §4.G step 4 (a single ("*", ...) export when the export targets equal
// the full topology peer set with no per-peer actions) is done per node
// in buildExports; no further whole-router collapse happens here.
func collapseToWildcard(filters []filter.Filter, t *topology.Topology) []filter.Filter {
	return filters
}
