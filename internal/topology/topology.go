// Package topology models the operator-supplied network graph: a set of
// named locations, each inside or outside the network under control, some
// of which may originate traffic, joined by a directed adjacency relation.
package topology

import "fmt"

// Kind distinguishes locations under the operator's control from peers
// reachable only across a boundary.
type Kind int

const (
	Inside Kind = iota
	Outside
)

func (k Kind) String() string {
	if k == Inside {
		return "inside"
	}
	return "outside"
}

// Out is the reserved identifier meaning "any outside location" in
// constraint declarations (§6).
const Out = "out"

// Location is a named vertex of the topology.
type Location struct {
	Name          string
	Kind          Kind
	CanOriginate  bool
}

// Topology is a directed graph over Locations. The zero value is not
// usable; construct with New.
type Topology struct {
	locations map[string]Location
	g         *graphAdj
}

// New builds an empty topology.
func New() *Topology {
	return &Topology{
		locations: make(map[string]Location),
		g:         newGraph(),
	}
}

// AddLocation registers a vertex. Adding the same name twice overwrites
// its attributes; callers are expected to add each location once.
func (t *Topology) AddLocation(loc Location) {
	t.locations[loc.Name] = loc
	t.g.addNode(loc.Name)
}

// AddEdge records a directed adjacency u -> v. Both endpoints must
// already have been added with AddLocation.
func (t *Topology) AddEdge(u, v string) error {
	if _, ok := t.locations[u]; !ok {
		return fmt.Errorf("topology: unknown location %q", u)
	}
	if _, ok := t.locations[v]; !ok {
		return fmt.Errorf("topology: unknown location %q", v)
	}
	t.g.addEdge(u, v)
	return nil
}

// Location looks up a vertex by name.
func (t *Topology) Location(name string) (Location, bool) {
	loc, ok := t.locations[name]
	return loc, ok
}

// Locations returns every vertex, in no particular order.
func (t *Topology) Locations() []Location {
	out := make([]Location, 0, len(t.locations))
	for _, loc := range t.locations {
		out = append(out, loc)
	}
	return out
}

// Neighbors returns the locations reachable by one directed edge from loc.
func (t *Topology) Neighbors(loc string) []string {
	out := make([]string, 0, len(t.g.adj[loc]))
	for n := range t.g.adj[loc] {
		out = append(out, n)
	}
	return out
}

// Alphabet is the full location alphabet a DFA transitions over: every
// inside location unioned with every outside location (§3).
func (t *Topology) Alphabet() []string {
	out := make([]string, 0, len(t.locations))
	for name := range t.locations {
		out = append(out, name)
	}
	return out
}

// InsideLocations returns the names of every location under the
// operator's control.
func (t *Topology) InsideLocations() []string {
	var out []string
	for name, loc := range t.locations {
		if loc.Kind == Inside {
			out = append(out, name)
		}
	}
	return out
}

// OutsideLocations returns the names of every peer location.
func (t *Topology) OutsideLocations() []string {
	var out []string
	for name, loc := range t.locations {
		if loc.Kind == Outside {
			out = append(out, name)
		}
	}
	return out
}

// CheckWeaklyConnectedInside verifies §3's invariant: the subgraph induced
// by inside locations must be weakly connected. Returns an error naming
// the disjoint components when it is not.
func (t *Topology) CheckWeaklyConnectedInside() error {
	inside := newGraph()
	insideSet := make(map[string]struct{})
	for _, loc := range t.locations {
		if loc.Kind == Inside {
			inside.addNode(loc.Name)
			insideSet[loc.Name] = struct{}{}
		}
	}
	for u, outs := range t.g.adj {
		if _, ok := insideSet[u]; !ok {
			continue
		}
		for v := range outs {
			if _, ok := insideSet[v]; ok {
				inside.addEdge(u, v)
			}
		}
	}

	components := inside.connectedComponents()
	if len(components) > 1 {
		return fmt.Errorf("topology: inside subgraph is not weakly connected: %d disjoint components: %v", len(components), components)
	}
	return nil
}
