// Package cfgload loads topology and policy input files. Neither
// spec.md nor the teacher's own text-table formats (overlays_processing.go,
// caida_file_readers.go) specify an external syntax for this domain, so
// this package settles on YAML — the format gopkg.in/yaml.v3 handles
// elsewhere in the retrieved example pack — rather than hand-rolling a
// bespoke line format the way the teacher's CAIDA readers do for a
// domain those readers were actually built against.
package cfgload

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/anaximander-labs/ipc/internal/bddpred"
	"github.com/anaximander-labs/ipc/internal/constraints"
	"github.com/anaximander-labs/ipc/internal/regexp"
	"github.com/anaximander-labs/ipc/internal/topology"
)

type topologyFile struct {
	Locations []struct {
		Name         string `yaml:"name"`
		Kind         string `yaml:"kind"`
		CanOriginate bool   `yaml:"canOriginate"`
	} `yaml:"locations"`
	Edges [][2]string `yaml:"edges"`
}

// LoadTopology parses a topology YAML file into a *topology.Topology
// (§6's "topology input").
func LoadTopology(path string) (*topology.Topology, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cfgload: read topology file: %w", err)
	}
	var tf topologyFile
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		return nil, fmt.Errorf("cfgload: parse topology file: %w", err)
	}

	t := topology.New()
	for _, l := range tf.Locations {
		var kind topology.Kind
		switch l.Kind {
		case "inside":
			kind = topology.Inside
		case "outside":
			kind = topology.Outside
		default:
			return nil, fmt.Errorf("cfgload: location %s: unknown kind %q", l.Name, l.Kind)
		}
		t.AddLocation(topology.Location{Name: l.Name, Kind: kind, CanOriginate: l.CanOriginate})
	}
	for _, e := range tf.Edges {
		if err := t.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	if err := t.CheckWeaklyConnectedInside(); err != nil {
		return nil, err
	}
	return t, nil
}

type policyFile struct {
	Policies []struct {
		Predicate struct {
			Prefix    string `yaml:"prefix"`
			Community string `yaml:"community"`
		} `yaml:"predicate"`
		Preferences [][]string `yaml:"preferences"` // each preference: an ordered list of locations (a Path regex)
	} `yaml:"policies"`

	Aggregates []struct {
		Prefix  string   `yaml:"prefix"`
		InLocs  []string `yaml:"inLocs"`
		OutLocs []string `yaml:"outLocs"`
	} `yaml:"aggregates"`

	Communities []struct {
		Name    string   `yaml:"name"`
		Prefix  string   `yaml:"prefix"`
		InLocs  []string `yaml:"inLocs"`
		OutLocs []string `yaml:"outLocs"`
	} `yaml:"communities"`

	MaxRoutes []struct {
		N       int      `yaml:"n"`
		InLocs  []string `yaml:"inLocs"`
		OutLocs []string `yaml:"outLocs"`
	} `yaml:"maxRoutes"`
}

// Policy is the fully decoded policy input (§6): the ranked per-predicate
// preference lists plus the three side-constraint kinds.
type Policy struct {
	Pairs       []constraints.PolicyPair
	Aggregates  []constraints.Aggregate
	Communities []constraints.Community
	MaxRoutes   []constraints.MaxRoutes
}

// LoadPolicy parses a policy YAML file, compiling each predicate clause
// into a BDD handle against e.
func LoadPolicy(path string, e *bddpred.Engine) (*Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cfgload: read policy file: %w", err)
	}
	var pf policyFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("cfgload: parse policy file: %w", err)
	}

	p := &Policy{}

	for _, pol := range pf.Policies {
		pred, err := predicateIndex(e, pol.Predicate.Prefix, pol.Predicate.Community)
		if err != nil {
			return nil, err
		}
		var prefs []*regexp.Regex
		for _, path := range pol.Preferences {
			prefs = append(prefs, regexp.Path(path))
		}
		p.Pairs = append(p.Pairs, constraints.PolicyPair{Predicate: pred, Preferences: prefs})
	}

	for _, a := range pf.Aggregates {
		prefix, err := parsePrefix(a.Prefix)
		if err != nil {
			return nil, err
		}
		p.Aggregates = append(p.Aggregates, constraints.Aggregate{Prefix: prefix, InLocs: a.InLocs, OutLocs: a.OutLocs})
	}

	for _, c := range pf.Communities {
		prefix, err := parsePrefix(c.Prefix)
		if err != nil {
			return nil, err
		}
		p.Communities = append(p.Communities, constraints.Community{Name: c.Name, Prefix: prefix, InLocs: c.InLocs, OutLocs: c.OutLocs})
	}

	for _, m := range pf.MaxRoutes {
		p.MaxRoutes = append(p.MaxRoutes, constraints.MaxRoutes{N: m.N, InLocs: m.InLocs, OutLocs: m.OutLocs})
	}

	return p, nil
}

func predicateIndex(e *bddpred.Engine, prefixStr, community string) (bddpred.Index, error) {
	pred := bddpred.True
	if prefixStr != "" {
		prefix, err := parsePrefix(prefixStr)
		if err != nil {
			return 0, err
		}
		pred = e.And(pred, bddpred.FromPrefix(e, prefix))
	}
	if community != "" {
		pred = e.And(pred, e.Var(bddpred.CommunityVar(community)))
	}
	return pred, nil
}

func parsePrefix(s string) (bddpred.Prefix, error) {
	_, network, err := net.ParseCIDR(s)
	if err != nil {
		return bddpred.Prefix{}, fmt.Errorf("cfgload: invalid prefix %q: %w", s, err)
	}
	ones, _ := network.Mask.Size()
	ip4 := network.IP.To4()
	if ip4 == nil {
		return bddpred.Prefix{}, fmt.Errorf("cfgload: prefix %q is not IPv4", s)
	}
	addr := uint32(ip4[0])<<24 | uint32(ip4[1])<<16 | uint32(ip4[2])<<8 | uint32(ip4[3])
	return bddpred.Prefix{Addr: addr, Len: ones}, nil
}
