package bddpred

import "testing"

func TestHashConsCanonicity(t *testing.T) {
	e := NewEngine()
	a1 := e.Var("a")
	b1 := e.Var("b")
	x := e.And(a1, b1)

	a2 := e.Var("a")
	b2 := e.Var("b")
	y := e.And(a2, b2)

	if x != y {
		t.Errorf("two semantically equal BDDs built via distinct paths got different indices: %d vs %d", x, y)
	}
}

func TestAndOrNotBasics(t *testing.T) {
	e := NewEngine()
	a := e.Var("a")

	if e.And(a, True) != a {
		t.Errorf("a AND true should be a")
	}
	if e.And(a, False) != False {
		t.Errorf("a AND false should be false")
	}
	if e.Or(a, e.Not(a)) != True {
		t.Errorf("a OR not(a) should be true")
	}
	if e.And(a, e.Not(a)) != False {
		t.Errorf("a AND not(a) should be false")
	}
}

func TestImplies(t *testing.T) {
	e := NewEngine()
	a := e.Var("a")
	b := e.Var("b")
	ab := e.And(a, b)

	if !e.Implies(ab, a) {
		t.Errorf("(a AND b) should imply a")
	}
	if e.Implies(a, b) {
		t.Errorf("a should not imply b for independent variables")
	}
}

func TestIterPathBareVariableYieldsOneCube(t *testing.T) {
	e := NewEngine()
	a := e.Var("a")
	paths := e.IterPath(a)
	if len(paths) != 1 {
		t.Fatalf("expected exactly one cube for a bare variable, got %d", len(paths))
	}
	if v, ok := paths[0]["a"]; !ok || !v {
		t.Errorf("expected the single cube to pin a=true, got %v", paths[0])
	}
}

func TestPrefixRoundTrip(t *testing.T) {
	e := NewEngine()
	p := Prefix{Addr: 0x0A000000, Len: 8} // 10.0.0.0/8
	f := FromPrefix(e, p)

	got := ToPrefixes(e, f)
	if len(got) != 1 || got[0] != p {
		t.Errorf("round-trip of %+v produced %+v", p, got)
	}
}

func TestFromRangeUnionsEveryLength(t *testing.T) {
	e := NewEngine()
	addr := uint32(0x0A000000)
	f := FromRange(e, addr, 8, 9)

	got := ToPrefixes(e, f)
	if len(got) != 2 {
		t.Fatalf("expected 2 prefixes from a /8..9 range, got %d: %+v", len(got), got)
	}
	seenLens := map[int]bool{}
	for _, p := range got {
		seenLens[p.Len] = true
	}
	if !seenLens[8] || !seenLens[9] {
		t.Errorf("expected lengths {8,9}, got %+v", got)
	}
}

func TestCommunityVarIsDistinctFromAddressBits(t *testing.T) {
	e := NewEngine()
	c := e.Var(CommunityVar("no-export"))
	p := e.Var("p0")
	if c == p {
		t.Errorf("community variable collided with an address-bit variable")
	}
}
