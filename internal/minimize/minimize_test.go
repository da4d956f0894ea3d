package minimize

import (
	"testing"

	"github.com/anaximander-labs/ipc/internal/dfa"
	"github.com/anaximander-labs/ipc/internal/product"
	"github.com/anaximander-labs/ipc/internal/regexp"
	"github.com/anaximander-labs/ipc/internal/topology"
)

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

func TestMinimizePrunesUnreachableToEnd(t *testing.T) {
	topo := chainTopo(t)
	// Add a dead-end branch off N that never reaches A, so its node should
	// be pruned: the first DFA only accepts the full A·X·N·Y·B path, and
	// the second follows the chain to N, steps on to Z and stops there
	// without accepting, so Build creates a Z node with no path to End.
	topo.AddLocation(topology.Location{Name: "Z", Kind: topology.Inside})
	if err := topo.AddEdge("N", "Z"); err != nil {
		t.Fatal(err)
	}

	alphabet := topo.Alphabet()
	pref := regexp.Path([]string{"A", "X", "N", "Y", "B"})
	d := dfa.MakeDFA(regexp.Reverse(pref), alphabet)
	deadEnd := dfa.MakeDFA(regexp.Reverse(regexp.Path([]string{"Z", "Z", "N", "Y", "B"})), alphabet)
	g := product.Build(topo, []*dfa.DFA{d, deadEnd})

	result := Minimize(g, 2)
	for _, n := range result.Graph.Nodes {
		if n.Loc == "Z" {
			t.Errorf("expected the dead-end branch at Z to be pruned, found %+v", n)
		}
	}
}

func TestMinimizeReportsUnusedPreferences(t *testing.T) {
	topo := chainTopo(t)
	alphabet := topo.Alphabet()

	realized := dfa.MakeDFA(regexp.Reverse(regexp.Path([]string{"A", "X", "N", "Y", "B"})), alphabet)
	// A second preference over a path this topology can never realize.
	unrealizable := dfa.MakeDFA(regexp.Reverse(regexp.Path([]string{"A", "B"})), alphabet)

	g := product.Build(topo, []*dfa.DFA{realized, unrealizable})
	result := Minimize(g, 2)

	if len(result.UnusedPreferences) != 1 || result.UnusedPreferences[0] != 2 {
		t.Errorf("expected preference #2 to be reported unused, got %v", result.UnusedPreferences)
	}
}
