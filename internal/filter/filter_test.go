package filter

import (
	"testing"

	"github.com/anaximander-labs/ipc/internal/regexp"
)

func TestMatchConstructorsTagTheUnionCorrectly(t *testing.T) {
	cases := []struct {
		name string
		m    Match
		kind MatchKind
	}{
		{"peer", Peer("A"), MatchPeer},
		{"state", State("no-export", "*"), MatchState},
		{"pathRegex", PathRegex(regexp.Path([]string{"A", "B"})), MatchPathRegex},
		{"noMatch", NoMatch(), MatchNoMatch},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.m.Kind != c.kind {
				t.Errorf("expected Kind %v, got %v", c.kind, c.m.Kind)
			}
		})
	}

	peer := Peer("A")
	if peer.Loc != "A" {
		t.Errorf("expected Peer to set Loc, got %+v", peer)
	}
	state := State("no-export", "*")
	if state.Community != "no-export" || state.Loc != "*" {
		t.Errorf("expected State to set Community and Loc, got %+v", state)
	}
}

func TestActionConstructorsTagTheUnionCorrectly(t *testing.T) {
	c := ActionSetCommunity("no-export")
	if c.Kind != SetCommunity || c.Community != "no-export" {
		t.Errorf("expected SetCommunity action, got %+v", c)
	}
	med := ActionSetMED(80)
	if med.Kind != SetMED || med.MED != 80 {
		t.Errorf("expected SetMED action, got %+v", med)
	}
	prepend := ActionPrependPath(3)
	if prepend.Kind != PrependPath || prepend.Prepend != 3 {
		t.Errorf("expected PrependPath action, got %+v", prepend)
	}
}

func TestDenyFilterIsTerminal(t *testing.T) {
	d := DenyFilter()
	if !d.Deny {
		t.Errorf("expected DenyFilter to set Deny, got %+v", d)
	}
}

func TestAllowBuildsANonTerminalFilter(t *testing.T) {
	exports := []Export{{PeerLocator: "P", Actions: []Action{ActionSetMED(80)}}}
	f := Allow(Peer("A"), 100, exports)
	if f.Deny {
		t.Errorf("expected Allow to leave Deny false, got %+v", f)
	}
	if f.LocalPref != 100 {
		t.Errorf("expected LocalPref 100, got %d", f.LocalPref)
	}
	if len(f.Exports) != 1 || f.Exports[0].PeerLocator != "P" {
		t.Errorf("expected the single export to carry through unchanged, got %+v", f.Exports)
	}
}
