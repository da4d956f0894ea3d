// Package dfa turns a path regex (internal/regexp) into a deterministic
// recognizer total over the topology's location alphabet, the way
// coregx-coregex layers a determinizer (dfa/) over its NFA construction
// (nfa/), but scoped to exactly the combinators internal/regexp exposes.
package dfa

import (
	"sort"
	"strings"

	"github.com/anaximander-labs/ipc/internal/regexp"
)

// DeadState is the sentinel "won't ever accept" sink every DFA is
// completed with, so its transition function is total over the alphabet
// (§3: "a transition function total over the alphabet (with a dead-sink)").
const DeadState = -1

// DFA is a deterministic recognizer over a fixed alphabet.
type DFA struct {
	Alphabet  []string
	Start     int
	accept    map[int]bool
	trans     map[int]map[string]int
	numStates int
}

// Accepts reports whether state s is an accepting state. The dead state
// never accepts.
func (d *DFA) Accepts(s int) bool {
	if s == DeadState {
		return false
	}
	return d.accept[s]
}

// Step returns the state reached from s on symbol sym, or DeadState if
// sym is not in the alphabet or s is already dead.
func (d *DFA) Step(s int, sym string) int {
	if s == DeadState {
		return DeadState
	}
	row, ok := d.trans[s]
	if !ok {
		return DeadState
	}
	if next, ok := row[sym]; ok {
		return next
	}
	return DeadState
}

// NumStates is the number of live (non-dead) states.
func (d *DFA) NumStates() int { return d.numStates }

// IsEmptyLanguage reports whether no state reachable from Start accepts.
// The minimizer's UnusedPreferences diagnostic does not use it; that one
// looks for preference ranks no product-graph node realizes.
func (d *DFA) IsEmptyLanguage() bool {
	seen := map[int]bool{d.Start: true}
	stack := []int{d.Start}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s == DeadState {
			continue
		}
		if d.Accepts(s) {
			return false
		}
		for _, sym := range d.Alphabet {
			next := d.Step(s, sym)
			if next != DeadState && !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return true
}

// MakeDFA builds the deterministic recognizer for r over alphabet. Inter
// and Negate are resolved by recursing into MakeDFA on their operands and
// combining the resulting (already total) DFAs; every other combinator is
// resolved via Thompson-NFA construction (internal/dfa/nfa.go) followed by
// subset construction.
func MakeDFA(r *regexp.Regex, alphabet []string) *DFA {
	switch r.Kind {
	case regexp.Inter:
		d := MakeDFA(r.Subs[0], alphabet)
		for _, sub := range r.Subs[1:] {
			d = product(d, MakeDFA(sub, alphabet), func(a, b bool) bool { return a && b })
		}
		return d
	case regexp.Negate:
		d := MakeDFA(r.Subs[0], alphabet)
		return complement(d)
	default:
		frag := buildNFA(r)
		return determinize(frag, alphabet)
	}
}

// subsetKey canonicalizes a set of NFA state indices into a comparable
// map key, the same "sort then join" idiom the teacher's radix-tree
// helpers use for canonicalizing composite keys (overlays_processing.go).
func subsetKey(set map[int]struct{}) string {
	ids := make([]int, 0, len(set))
	for s := range set {
		ids = append(ids, s)
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = itoa(id)
	}
	return strings.Join(parts, ",")
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf []byte
	for i > 0 {
		buf = append([]byte{byte('0' + i%10)}, buf...)
		i /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

func determinize(frag *nfaFragment, alphabet []string) *DFA {
	d := &DFA{
		Alphabet: alphabet,
		accept:   make(map[int]bool),
		trans:    make(map[int]map[string]int),
	}

	startSet := epsilonClosure(frag, map[int]struct{}{frag.start: {}})
	key := subsetKey(startSet)
	ids := map[string]int{key: 0}
	sets := []map[int]struct{}{startSet}
	d.Start = 0
	d.numStates = 1
	if _, ok := startSet[frag.accept]; ok {
		d.accept[0] = true
	}

	queue := []int{0}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		set := sets[id]
		d.trans[id] = make(map[string]int)

		for _, sym := range alphabet {
			var moved map[int]struct{}
			for s := range set {
				for _, t := range frag.states[s].trans[sym] {
					if moved == nil {
						moved = make(map[int]struct{})
					}
					moved[t] = struct{}{}
				}
			}
			if len(moved) == 0 {
				d.trans[id][sym] = DeadState
				continue
			}
			closure := epsilonClosure(frag, moved)
			ckey := subsetKey(closure)
			nid, ok := ids[ckey]
			if !ok {
				nid = len(sets)
				ids[ckey] = nid
				sets = append(sets, closure)
				d.numStates++
				if _, ok := closure[frag.accept]; ok {
					d.accept[nid] = true
				}
				queue = append(queue, nid)
			}
			d.trans[id][sym] = nid
		}
	}
	return d
}

// product builds the synchronized cross-product of a and b, combining
// acceptance with combine (AND for Inter). Unreachable combinations
// collapse to DeadState, keeping the result total.
func product(a, b *DFA, combine func(a, b bool) bool) *DFA {
	type pair struct{ a, b int }
	d := &DFA{
		Alphabet: a.Alphabet,
		accept:   make(map[int]bool),
		trans:    make(map[int]map[string]int),
	}
	ids := map[pair]int{{a.Start, b.Start}: 0}
	order := []pair{{a.Start, b.Start}}
	d.Start = 0
	d.numStates = 1
	if combine(a.Accepts(a.Start), b.Accepts(b.Start)) {
		d.accept[0] = true
	}

	idOf := func(p pair) int {
		if id, ok := ids[p]; ok {
			return id
		}
		id := len(order)
		ids[p] = id
		order = append(order, p)
		d.numStates++
		if combine(a.Accepts(p.a), b.Accepts(p.b)) {
			d.accept[id] = true
		}
		return id
	}

	for i := 0; i < len(order); i++ {
		p := order[i]
		d.trans[i] = make(map[string]int)
		for _, sym := range a.Alphabet {
			na, nb := a.Step(p.a, sym), b.Step(p.b, sym)
			if na == DeadState && nb == DeadState {
				d.trans[i][sym] = DeadState
				continue
			}
			d.trans[i][sym] = idOf(pair{na, nb})
		}
	}
	return d
}

// complement flips acceptance over the already-total DFA d. Because d's
// transition function already handles every symbol (falling through to
// DeadState, which never accepts and loops to itself), flipping accept on
// DeadState too correctly makes it universally accepting in the
// complement.
func complement(d *DFA) *DFA {
	out := &DFA{
		Alphabet:  d.Alphabet,
		Start:     d.Start,
		accept:    make(map[int]bool),
		trans:     d.trans,
		numStates: d.numStates,
	}
	for s := 0; s < d.numStates; s++ {
		if !d.accept[s] {
			out.accept[s] = true
		}
	}
	// DeadState itself must flip to accepting in the complement (it never
	// accepted in d), represented by giving it a self-looping live state
	// rather than overloading the DeadState sentinel with two meanings.
	deadAccept := d.numStates
	out.trans = make(map[int]map[string]int, len(d.trans)+1)
	for s, row := range d.trans {
		newRow := make(map[string]int, len(row))
		for sym, next := range row {
			if next == DeadState {
				newRow[sym] = deadAccept
			} else {
				newRow[sym] = next
			}
		}
		out.trans[s] = newRow
	}
	selfLoop := make(map[string]int, len(d.Alphabet))
	for _, sym := range d.Alphabet {
		selfLoop[sym] = deadAccept
	}
	out.trans[deadAccept] = selfLoop
	out.accept[deadAccept] = true
	out.numStates = d.numStates + 1
	return out
}
