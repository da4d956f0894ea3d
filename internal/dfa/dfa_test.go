package dfa

import (
	"testing"

	"github.com/anaximander-labs/ipc/internal/regexp"
)

func walk(d *DFA, syms []string) bool {
	s := d.Start
	for _, sym := range syms {
		s = d.Step(s, sym)
	}
	return d.Accepts(s)
}

func TestMakeDFALiteralPath(t *testing.T) {
	alphabet := []string{"A", "B", "C"}
	d := MakeDFA(regexp.Path([]string{"A", "B", "C"}), alphabet)

	if !walk(d, []string{"A", "B", "C"}) {
		t.Errorf("expected A·B·C to be accepted")
	}
	if walk(d, []string{"A", "B"}) {
		t.Errorf("expected A·B (partial) to be rejected")
	}
	if walk(d, []string{"A", "C", "B"}) {
		t.Errorf("expected out-of-order path to be rejected")
	}
}

func TestMakeDFAUnion(t *testing.T) {
	alphabet := []string{"A", "B", "C", "D"}
	d := MakeDFA(regexp.Union(regexp.Loc("A"), regexp.Loc("B")), alphabet)

	if !walk(d, []string{"A"}) || !walk(d, []string{"B"}) {
		t.Errorf("expected both alternatives to be accepted")
	}
	if walk(d, []string{"C"}) {
		t.Errorf("expected non-alternative to be rejected")
	}
}

func TestMakeDFAInterIsConjunction(t *testing.T) {
	alphabet := []string{"A", "B"}
	// Star(Union(A,B)) intersected with Path(A,A) only accepts "A A".
	any := regexp.Star(regexp.Union(regexp.Loc("A"), regexp.Loc("B")))
	r := regexp.Inter(any, regexp.Path([]string{"A", "A"}))
	d := MakeDFA(r, alphabet)

	if !walk(d, []string{"A", "A"}) {
		t.Errorf("expected A·A to be accepted by the intersection")
	}
	if walk(d, []string{"A", "B"}) {
		t.Errorf("expected A·B to be rejected by the intersection")
	}
}

func TestMakeDFANegateComplements(t *testing.T) {
	alphabet := []string{"A", "B"}
	d := MakeDFA(regexp.Negate(regexp.Loc("A")), alphabet)

	if walk(d, []string{"A"}) {
		t.Errorf("expected Negate(A) to reject A")
	}
	if !walk(d, []string{"B"}) {
		t.Errorf("expected Negate(A) to accept B")
	}
	if !walk(d, []string{"A", "B"}) {
		t.Errorf("expected Negate(A) to accept the two-hop path A·B (not equal to the single-hop A)")
	}
}

func TestIsEmptyLanguage(t *testing.T) {
	alphabet := []string{"A", "B"}
	empty := MakeDFA(regexp.Inter(regexp.Loc("A"), regexp.Loc("B")), alphabet)
	if !empty.IsEmptyLanguage() {
		t.Errorf("expected Inter(A,B) to be the empty language")
	}

	nonEmpty := MakeDFA(regexp.Loc("A"), alphabet)
	if nonEmpty.IsEmptyLanguage() {
		t.Errorf("expected Loc(A) to be non-empty")
	}
}
