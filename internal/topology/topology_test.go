package topology

import "testing"

func TestWeaklyConnectedInsideAccepts(t *testing.T) {
	topo := New()
	topo.AddLocation(Location{Name: "A", Kind: Inside, CanOriginate: true})
	topo.AddLocation(Location{Name: "B", Kind: Inside})
	topo.AddLocation(Location{Name: "P", Kind: Outside})

	if err := topo.AddEdge("A", "B"); err != nil {
		t.Fatal(err)
	}
	if err := topo.AddEdge("B", "P"); err != nil {
		t.Fatal(err)
	}

	if err := topo.CheckWeaklyConnectedInside(); err != nil {
		t.Errorf("expected a connected inside subgraph to pass, got %v", err)
	}
}

func TestWeaklyConnectedInsideRejectsSplit(t *testing.T) {
	topo := New()
	topo.AddLocation(Location{Name: "A", Kind: Inside})
	topo.AddLocation(Location{Name: "B", Kind: Inside})

	if err := topo.CheckWeaklyConnectedInside(); err == nil {
		t.Errorf("expected two disconnected inside locations to fail the check")
	}
}

func TestAddEdgeRejectsUnknownEndpoint(t *testing.T) {
	topo := New()
	topo.AddLocation(Location{Name: "A", Kind: Inside})
	if err := topo.AddEdge("A", "ghost"); err == nil {
		t.Errorf("expected AddEdge to an unregistered location to fail")
	}
}

func TestAlphabetAndLocationPartition(t *testing.T) {
	topo := New()
	topo.AddLocation(Location{Name: "A", Kind: Inside})
	topo.AddLocation(Location{Name: "P", Kind: Outside})

	alphabet := topo.Alphabet()
	if len(alphabet) != 2 {
		t.Errorf("expected alphabet of size 2, got %v", alphabet)
	}
	if len(topo.InsideLocations()) != 1 || len(topo.OutsideLocations()) != 1 {
		t.Errorf("expected one inside and one outside location")
	}
}
