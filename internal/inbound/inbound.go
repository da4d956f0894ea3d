// Package inbound implements the incoming-traffic configurator (§4.F): a
// small, short-lived per-compile classifier (§9: "it is not a long-lived
// object, just a per-compile calculation") that decides, for every
// outside peer directly adjacent to the inside network, whether BGP
// export actions alone can realize the policy's desired inbound
// restriction.
package inbound

import (
	"sort"

	"github.com/anaximander-labs/ipc/internal/compileerr"
	"github.com/anaximander-labs/ipc/internal/filter"
	"github.com/anaximander-labs/ipc/internal/product"
	"github.com/anaximander-labs/ipc/internal/regexp"
	"github.com/anaximander-labs/ipc/internal/topology"
)

// ClassKind is the three-state machine §9 describes.
type ClassKind int

const (
	// Anything: every inside path the peer could offer is welcome.
	Anything ClassKind = iota
	// Nothing: the peer must send nothing at all.
	Nothing
	// Specific: only a non-trivial subset of paths is welcome, which BGP
	// exports cannot enforce.
	Specific
)

// Classification is the result of classifying one outside peer.
type Classification struct {
	Kind    ClassKind
	Locator string
	Regex   *regexp.Regex // only set for Specific
}

// Knobs mirrors the relevant subset of the CLI surface (§6): which
// export-side mechanisms the operator has enabled.
type Knobs struct {
	UseMED        bool
	UsePrepending bool
	UseNoExport   bool
}

// Classify decides peer's classification by comparing the peer's full
// topology adjacency into inside locations against which of those edges
// actually survive as product-graph edges: an edge that never appears in
// the (minimized) PG means some DFA tuple killed every path over it, so
// the policy implicitly narrows what's welcome from that peer.
func Classify(g *product.Graph, t *topology.Topology, peer string) Classification {
	var topoInsideNeighbors []string
	for _, nb := range t.Neighbors(peer) {
		if loc, ok := t.Location(nb); ok && loc.Kind == topology.Inside {
			topoInsideNeighbors = append(topoInsideNeighbors, nb)
		}
	}

	var peerNodes []product.NodeID
	for _, n := range g.Nodes {
		if n.Loc == peer {
			peerNodes = append(peerNodes, n.ID)
		}
	}

	if len(peerNodes) == 0 {
		return Classification{Kind: Nothing, Locator: peer}
	}

	survivedSet := make(map[string]bool)
	for _, pn := range peerNodes {
		for _, v := range g.Out(pn) {
			if v == product.End {
				continue
			}
			vn := g.Node(v)
			if loc, ok := t.Location(vn.Loc); ok && loc.Kind == topology.Inside {
				survivedSet[vn.Loc] = true
			}
		}
	}

	if len(survivedSet) == 0 {
		return Classification{Kind: Nothing, Locator: peer}
	}

	full := true
	for _, nb := range topoInsideNeighbors {
		if !survivedSet[nb] {
			full = false
			break
		}
	}
	if full {
		return Classification{Kind: Anything}
	}

	survived := make([]string, 0, len(survivedSet))
	for nb := range survivedSet {
		survived = append(survived, nb)
	}
	sort.Strings(survived)

	var alts []*regexp.Regex
	for _, nb := range survived {
		alts = append(alts, regexp.Path([]string{peer, nb}))
	}
	return Classification{Kind: Specific, Locator: peer, Regex: regexp.Union(alts...)}
}

// Resolve turns a Classification into either export actions (possibly
// none, for Anything) or a compileerr.Error, per §4.F.
func Resolve(c Classification, knobs Knobs) ([]filter.Action, error) {
	switch c.Kind {
	case Anything:
		return nil, nil
	case Nothing:
		if knobs.UseNoExport {
			return []filter.Action{filter.ActionSetCommunity("no-export")}, nil
		}
		return nil, compileerr.New(compileerr.UncontrollableEnter,
			"peer %s must send nothing but the no-export community knob is disabled", c.Locator)
	case Specific:
		return nil, compileerr.WithCounterExample(compileerr.UncontrollableEnter, c.Regex,
			"peer %s's welcome set is expressible only as a path regex; exports alone cannot enforce it", c.Locator)
	default:
		return nil, compileerr.New(compileerr.UncontrollableEnter, "peer %s: unknown classification", c.Locator)
	}
}

// TierActions computes the export actions distinguishing preference
// tier i (0-based, best first) for a peer that needs more than one
// inbound tier differentiated, per §4.F's MED/prepend rule.
func TierActions(peer string, tier int, knobs Knobs) ([]filter.Action, error) {
	if tier == 0 {
		return nil, nil
	}
	if !knobs.UseMED && !knobs.UsePrepending {
		return nil, compileerr.New(compileerr.UncontrollablePeerPreference,
			"peer %s needs inbound tier %d distinguished but MED and prepending are both disabled", peer, tier)
	}
	var actions []filter.Action
	if knobs.UseMED {
		actions = append(actions, filter.ActionSetMED(80+tier))
	}
	if knobs.UsePrepending {
		actions = append(actions, filter.ActionPrependPath(3*tier))
	}
	return actions, nil
}
