package configgen

import (
	"testing"

	"github.com/anaximander-labs/ipc/internal/dfa"
	"github.com/anaximander-labs/ipc/internal/filter"
	"github.com/anaximander-labs/ipc/internal/inbound"
	"github.com/anaximander-labs/ipc/internal/order"
	"github.com/anaximander-labs/ipc/internal/product"
	"github.com/anaximander-labs/ipc/internal/regexp"
	"github.com/anaximander-labs/ipc/internal/topology"
)

// originToPeerTopo is the smallest shape exercising every branch
// Generate cares about: an originating inside router (O), a relaying
// inside router (R) with a single unambiguous predecessor, and an
// outside peer (P) at the edge.
func originToPeerTopo(t *testing.T) *topology.Topology {
	topo := topology.New()
	topo.AddLocation(topology.Location{Name: "O", Kind: topology.Inside, CanOriginate: true})
	topo.AddLocation(topology.Location{Name: "R", Kind: topology.Inside})
	topo.AddLocation(topology.Location{Name: "P", Kind: topology.Outside})
	for _, e := range [][2]string{{"O", "R"}, {"R", "P"}} {
		if err := topo.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return topo
}

func TestGenerateOriginToPeer(t *testing.T) {
	topo := originToPeerTopo(t)
	alphabet := topo.Alphabet()

	// Data-plane order is receiver-first, origin-last: the route
	// terminates at peer P, relayed through R, originated at O.
	d := dfa.MakeDFA(regexp.Reverse(regexp.Path([]string{"P", "R", "O"})), alphabet)
	g := product.Build(topo, []*dfa.DFA{d})

	orderings, err := order.Solve(g, topo)
	if err != nil {
		t.Fatalf("unexpected Solve error: %v", err)
	}

	// P's only topology adjacency is outbound (R->P); nothing ever flows
	// the other way in this graph, so Classify reports it as a peer that
	// must send nothing — requiring the no-export knob to resolve.
	knobs := inbound.Knobs{UseNoExport: true}

	configs, sizes, err := Generate(g, topo, orderings, knobs)
	if err != nil {
		t.Fatalf("unexpected Generate error: %v", err)
	}

	oCfg, ok := configs["O"]
	if !ok || !oCfg.Originates {
		t.Errorf("expected O to be marked as originating, got %+v", oCfg)
	}
	rCfg, ok := configs["R"]
	if !ok || rCfg.Originates {
		t.Errorf("expected R to relay rather than originate, got %+v", rCfg)
	}

	if len(rCfg.Filters) == 0 || rCfg.Filters[0].Match.Kind != filter.MatchPeer || rCfg.Filters[0].Match.Loc != "O" {
		t.Errorf("expected R's first filter to match directly on peer O, got %+v", rCfg.Filters)
	}

	foundNoExport := false
	for _, e := range rCfg.Filters[0].Exports {
		if e.PeerLocator != "P" {
			continue
		}
		for _, a := range e.Actions {
			if a.Kind == filter.SetCommunity && a.Community == "no-export" {
				foundNoExport = true
			}
		}
	}
	if !foundNoExport {
		t.Errorf("expected R to tag its export to P with no-export, got %+v", rCfg.Filters[0].Exports)
	}

	if sizes.Raw != 1 {
		t.Errorf("expected szRaw of 1 (O originates with no in-edges, R has one in one out), got %d", sizes.Raw)
	}
}
