// Package bddpred is the hash-consed binary-decision-diagram engine used
// to represent prefix and community predicates compactly and to decide
// implication during rule compaction (§4.B). It generalizes the teacher's
// SafeSet idiom (safeset.go: a mutex-guarded map keyed for hash-consing)
// from a flat key/value cache into a proper BDD node table, and is the
// one piece of this compiler meant to be shared across the otherwise
// independent per-prefix workers (§5: "the BDD engine MAY be shared").
package bddpred

import "sync"

// Index is a signed handle into an Engine's node table. The sign carries
// negation: negating a predicate is flipping the sign of its index, O(1),
// and costs nothing in the table (§9).
type Index int

// True and False are the two terminal handles, present before any
// variable is ever created.
const (
	True  Index = 1
	False Index = -1
)

type nodeKey struct {
	v         string
	low, high Index
}

// Engine is a hash-consed BDD node table. The zero value is not usable;
// construct with NewEngine. Per §5, either share one Engine across
// workers (its table is mutex-guarded, mirroring safeset.go's mux
// sync.Mutex) or give each worker its own Engine — the preferred,
// coordination-free option.
type Engine struct {
	mu      sync.Mutex
	keyToID map[nodeKey]Index
	idToKey map[Index]nodeKey
	next    Index
	andMemo map[[2]Index]Index
}

// NewEngine constructs an empty node table.
func NewEngine() *Engine {
	return &Engine{
		keyToID: make(map[nodeKey]Index),
		idToKey: make(map[Index]nodeKey),
		next:    2,
		andMemo: make(map[[2]Index]Index),
	}
}

func (e *Engine) makeNode(v string, low, high Index) Index {
	if low == high {
		return low
	}
	key := nodeKey{v, low, high}
	e.mu.Lock()
	defer e.mu.Unlock()
	if id, ok := e.keyToID[key]; ok {
		return id
	}
	id := e.next
	e.next++
	e.keyToID[key] = id
	e.idToKey[id] = key
	return id
}

// Var returns the handle for a fresh boolean variable named v, canonical
// across calls: two calls with the same name return the same index
// (hash-cons invariant, §8 property 4).
func (e *Engine) Var(v string) Index {
	return e.makeNode(v, False, True)
}

// Not negates f in O(1).
func (e *Engine) Not(f Index) Index { return -f }

func isTerminal(f Index) bool { return f == True || f == False }

// children returns the variable name and the two child handles of a
// non-terminal node, accounting for the complement encoding when f is
// negative: the children of -n are the negated children of n.
func (e *Engine) children(f Index) (v string, low, high Index) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f > 0 {
		k := e.idToKey[f]
		return k.v, k.low, k.high
	}
	k := e.idToKey[-f]
	return k.v, -k.low, -k.high
}

// And computes the conjunction of f and g, memoized.
func (e *Engine) And(f, g Index) Index {
	switch {
	case f == False || g == False:
		return False
	case f == True:
		return g
	case g == True:
		return f
	case f == g:
		return f
	case f == -g:
		return False
	}

	key := [2]Index{f, g}
	if f > g {
		key = [2]Index{g, f}
	}
	e.mu.Lock()
	if cached, ok := e.andMemo[key]; ok {
		e.mu.Unlock()
		return cached
	}
	e.mu.Unlock()

	vf, lowF, highF := e.children(f)
	vg, lowG, highG := e.children(g)

	var v string
	var low, high Index
	switch {
	case vf == vg:
		v = vf
		low = e.And(lowF, lowG)
		high = e.And(highF, highG)
	case vf < vg:
		v = vf
		low = e.And(lowF, g)
		high = e.And(highF, g)
	default:
		v = vg
		low = e.And(f, lowG)
		high = e.And(f, highG)
	}

	result := e.makeNode(v, low, high)
	e.mu.Lock()
	e.andMemo[key] = result
	e.mu.Unlock()
	return result
}

// Or is derived from And and Not: ¬(¬a ∧ ¬b), per §4.B.
func (e *Engine) Or(a, b Index) Index {
	return e.Not(e.And(e.Not(a), e.Not(b)))
}

// Implies reports whether a ⇒ b, i.e. (a ∧ ¬b) = false (§4.B).
func (e *Engine) Implies(a, b Index) bool {
	return e.And(a, e.Not(b)) == False
}

// Assignment is one satisfying cube: variables absent from the map are
// don't-cares for that path.
type Assignment map[string]bool

// IterPath enumerates every satisfying path of f as a set of cubes.
// Variables not mentioned in a cube are free.
func (e *Engine) IterPath(f Index) []Assignment {
	if f == False {
		return nil
	}
	if f == True {
		return []Assignment{{}}
	}
	v, low, high := e.children(f)

	var out []Assignment
	if low != False {
		for _, a := range e.IterPath(low) {
			cube := cloneAssignment(a)
			cube[v] = false
			out = append(out, cube)
		}
	}
	if high != False {
		for _, a := range e.IterPath(high) {
			cube := cloneAssignment(a)
			cube[v] = true
			out = append(out, cube)
		}
	}
	return out
}

func cloneAssignment(a Assignment) Assignment {
	out := make(Assignment, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	return out
}
