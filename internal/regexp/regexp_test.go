package regexp

import "testing"

func TestPathBuildsConcatOfLocs(t *testing.T) {
	r := Path([]string{"A", "B", "C"})
	if r.Kind != Concat {
		t.Fatalf("Path: got Kind %v, want Concat", r.Kind)
	}
	if len(r.Subs) != 3 {
		t.Fatalf("Path: got %d subs, want 3", len(r.Subs))
	}
	for i, want := range []string{"A", "B", "C"} {
		if r.Subs[i].Kind != Lit || r.Subs[i].Sym != want {
			t.Errorf("Path subs[%d] = %+v, want Lit(%s)", i, r.Subs[i], want)
		}
	}
}

func TestReverseConcat(t *testing.T) {
	r := Path([]string{"A", "B", "C"})
	rev := Reverse(r)
	if rev.Kind != Concat || len(rev.Subs) != 3 {
		t.Fatalf("Reverse: got %+v", rev)
	}
	got := []string{rev.Subs[0].Sym, rev.Subs[1].Sym, rev.Subs[2].Sym}
	want := []string{"C", "B", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Reverse(Path(A,B,C))[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestReverseLeavesUnionAlternativesInPlace(t *testing.T) {
	r := Union(Path([]string{"A", "B"}), Path([]string{"C", "D"}))
	rev := Reverse(r)
	if rev.Kind != Union || len(rev.Subs) != 2 {
		t.Fatalf("Reverse(Union): got %+v", rev)
	}
	if rev.Subs[0].Subs[0].Sym != "B" || rev.Subs[0].Subs[1].Sym != "A" {
		t.Errorf("Reverse(Union) first alt not reversed: %+v", rev.Subs[0])
	}
}

func TestEndsAtAndWaypoint(t *testing.T) {
	alphabet := []string{"A", "B", "Z", "M"}
	end := EndsAt("Z", alphabet)
	if end.Kind != Concat {
		t.Fatalf("EndsAt: got Kind %v", end.Kind)
	}
	wp := Waypoint("M", alphabet)
	if wp.Kind != Concat {
		t.Fatalf("Waypoint: got Kind %v", wp.Kind)
	}
}
