package inbound

import (
	"testing"

	"github.com/anaximander-labs/ipc/internal/compileerr"
	"github.com/anaximander-labs/ipc/internal/dfa"
	"github.com/anaximander-labs/ipc/internal/product"
	"github.com/anaximander-labs/ipc/internal/regexp"
	"github.com/anaximander-labs/ipc/internal/topology"
)

// twoPeerTopo gives O a bidirectional session with peer P1 (both the
// egress announcement and a return path back into the network are
// recorded) and a one-directional relay path through R to peer P2 (R
// announces to P2, but nothing is ever recorded flowing back).
func twoPeerTopo(t *testing.T) *topology.Topology {
	topo := topology.New()
	topo.AddLocation(topology.Location{Name: "O", Kind: topology.Inside, CanOriginate: true})
	topo.AddLocation(topology.Location{Name: "R", Kind: topology.Inside})
	topo.AddLocation(topology.Location{Name: "P1", Kind: topology.Outside})
	topo.AddLocation(topology.Location{Name: "P2", Kind: topology.Outside})
	for _, e := range [][2]string{{"O", "P1"}, {"P1", "O"}, {"O", "R"}, {"R", "P2"}} {
		if err := topo.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return topo
}

// anyTail lets a preference's acceptance survive past its literal prefix
// (see internal/order's own anyTail helper for why: a fully-matched Path
// regex is a dead sink, so without this a peer's return edge would never
// appear in the product graph at all, regardless of topology).
func anyTail(alphabet []string) *regexp.Regex {
	return regexp.Star(regexp.Inside(alphabet, func(string) bool { return true }))
}

func TestClassifyAnythingWhenEveryAdjacencySurvives(t *testing.T) {
	topo := twoPeerTopo(t)
	alphabet := topo.Alphabet()

	// Built directly in announcement order with an any-tail, the same way
	// internal/order's BadGadget test bypasses the data-plane
	// regexp.Reverse convention: the point here is that the DFA stays
	// alive across O->P1->O, not that it expresses a single literal path.
	pref := regexp.Concat(regexp.Path([]string{"O", "P1"}), anyTail(alphabet))
	d := dfa.MakeDFA(pref, alphabet)
	g := product.Build(topo, []*dfa.DFA{d})

	c := Classify(g, topo, "P1")
	if c.Kind != Anything {
		t.Errorf("expected P1 to classify Anything, got %+v", c)
	}
}

func TestClassifyNothingWhenPeerNodeHasNoInsideEdge(t *testing.T) {
	topo := twoPeerTopo(t)
	alphabet := topo.Alphabet()

	// Only the O->R->P2 leg is accepted; P2's edge back into the network
	// was never recorded in the topology at all, so even with an any-tail
	// its peer node has no inside out-neighbor.
	pref := regexp.Concat(regexp.Path([]string{"O", "R", "P2"}), anyTail(alphabet))
	d := dfa.MakeDFA(pref, alphabet)
	g := product.Build(topo, []*dfa.DFA{d})

	c := Classify(g, topo, "P2")
	if c.Kind != Nothing {
		t.Errorf("expected P2 to classify Nothing, got %+v", c)
	}
}

func TestResolveNothingRequiresNoExportKnob(t *testing.T) {
	c := Classification{Kind: Nothing, Locator: "P2"}

	if _, err := Resolve(c, Knobs{}); err == nil {
		t.Fatalf("expected Resolve to reject Nothing without UseNoExport")
	} else if ce := err.(*compileerr.Error); ce.Kind != compileerr.UncontrollableEnter {
		t.Errorf("expected UncontrollableEnter, got %s", ce.Kind)
	}

	actions, err := Resolve(c, Knobs{UseNoExport: true})
	if err != nil {
		t.Fatalf("expected Resolve to accept Nothing with UseNoExport, got %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected exactly one export action, got %v", actions)
	}
}

func TestResolveSpecificAlwaysFails(t *testing.T) {
	c := Classification{Kind: Specific, Locator: "P2", Regex: regexp.Path([]string{"P2", "R"})}

	_, err := Resolve(c, Knobs{UseMED: true, UsePrepending: true, UseNoExport: true})
	if err == nil {
		t.Fatalf("expected Specific to be unresolvable by export actions alone")
	}
	ce := err.(*compileerr.Error)
	if ce.Kind != compileerr.UncontrollableEnter {
		t.Errorf("expected UncontrollableEnter, got %s", ce.Kind)
	}
	if ce.CounterExample != c.Regex {
		t.Errorf("expected the counter-example to carry the welcome-set regex")
	}
}

func TestTierActionsRequiresAKnobPastTierZero(t *testing.T) {
	if actions, err := TierActions("P1", 0, Knobs{}); err != nil || actions != nil {
		t.Errorf("expected tier 0 to need no distinguishing actions, got %v, %v", actions, err)
	}

	if _, err := TierActions("P1", 1, Knobs{}); err == nil {
		t.Fatalf("expected tier 1 with no knobs enabled to fail")
	} else if ce := err.(*compileerr.Error); ce.Kind != compileerr.UncontrollablePeerPreference {
		t.Errorf("expected UncontrollablePeerPreference, got %s", ce.Kind)
	}

	actions, err := TierActions("P1", 2, Knobs{UseMED: true})
	if err != nil {
		t.Fatalf("expected tier 2 with MED enabled to succeed, got %v", err)
	}
	if len(actions) != 1 || actions[0].MED != 82 {
		t.Errorf("expected a single MED-82 action, got %+v", actions)
	}
}
