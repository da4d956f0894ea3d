package driver

import (
	"testing"

	"github.com/anaximander-labs/ipc/internal/compileerr"
	"github.com/anaximander-labs/ipc/internal/constraints"
	"github.com/anaximander-labs/ipc/internal/inbound"
	"github.com/anaximander-labs/ipc/internal/regexp"
	"github.com/anaximander-labs/ipc/internal/topology"
)

// chainTopo wires §8's Diamond1 shape, simplified to a line:
// B originates and announces B->Y->N->X->A.
func chainTopo(t *testing.T) *topology.Topology {
	topo := topology.New()
	for _, name := range []string{"A", "X", "N", "Y", "B"} {
		topo.AddLocation(topology.Location{Name: name, Kind: topology.Inside, CanOriginate: name == "B"})
	}
	for _, e := range [][2]string{{"B", "Y"}, {"Y", "N"}, {"N", "X"}, {"X", "A"}} {
		if err := topo.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return topo
}

func TestDiamond1CompilesCleanly(t *testing.T) {
	topo := chainTopo(t)
	pair := constraints.PolicyPair{
		Preferences: []*regexp.Regex{regexp.Path([]string{"A", "X", "N", "Y", "B"})},
	}

	_, unused, _, err := compileOne(topo, pair, inbound.Knobs{})
	if err != nil {
		t.Fatalf("expected Diamond1 to compile cleanly, got %v", err)
	}
	if len(unused) != 0 {
		t.Errorf("expected the single preference to be realized, got unused %v", unused)
	}
}

func TestNoPathForRoutersWhenOriginatorUnreachable(t *testing.T) {
	topo := topology.New()
	topo.AddLocation(topology.Location{Name: "A", Kind: topology.Inside, CanOriginate: true})
	topo.AddLocation(topology.Location{Name: "B", Kind: topology.Inside, CanOriginate: true})
	// A and B both originate but share no edges, so B can never appear on
	// any path a preference over A's alphabet accepts.
	pair := constraints.PolicyPair{
		Preferences: []*regexp.Regex{regexp.Path([]string{"A"})},
	}

	_, _, _, err := compileOne(topo, pair, inbound.Knobs{})
	if err == nil {
		t.Fatalf("expected B's missing path to End to be reported")
	}
	ce, ok := err.(*compileerr.Error)
	if !ok {
		t.Fatalf("expected a *compileerr.Error, got %T: %v", err, err)
	}
	if ce.Kind != compileerr.NoPathForRouters {
		t.Errorf("expected NoPathForRouters, got %s: %v", ce.Kind, ce)
	}
}
