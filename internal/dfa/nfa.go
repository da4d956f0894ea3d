package dfa

import "github.com/anaximander-labs/ipc/internal/regexp"

// nfaState is one state of an epsilon-NFA fragment under construction.
// Transitions on a concrete symbol are kept separate from epsilon moves,
// the same split coregx-coregex's nfa package makes between Trans and
// EpsilonTrans.
type nfaState struct {
	trans map[string][]int
	eps   []int
	accept bool
}

type nfaFragment struct {
	states []*nfaState
	start  int
	accept int // single accept state; Thompson construction keeps exactly one
}

func newFragment() *nfaFragment {
	return &nfaFragment{}
}

func (f *nfaFragment) addState() int {
	f.states = append(f.states, &nfaState{trans: make(map[string][]int)})
	return len(f.states) - 1
}

func (f *nfaFragment) addEps(from, to int) {
	f.states[from].eps = append(f.states[from].eps, to)
}

func (f *nfaFragment) addSym(from, sym string, to int) {
	f.states[from].trans[sym] = append(f.states[from].trans[sym], to)
}

// buildNFA performs a Thompson-style recursive descent over the regular
// fragment of the Regex AST (Empty, Eps, Lit, Concat, Union, Star). Inter
// and Negate are handled one layer up, in MakeDFA, by combining already
// determinized sub-DFAs instead of growing the NFA construction to cover
// them directly.
func buildNFA(r *regexp.Regex) *nfaFragment {
	switch r.Kind {
	case regexp.Empty:
		f := newFragment()
		s0 := f.addState()
		s1 := f.addState()
		f.start, f.accept = s0, s1
		return f
	case regexp.Eps:
		f := newFragment()
		s0 := f.addState()
		f.start, f.accept = s0, s0
		return f
	case regexp.Lit:
		f := newFragment()
		s0 := f.addState()
		s1 := f.addState()
		f.addSym(s0, r.Sym, s1)
		f.start, f.accept = s0, s1
		return f
	case regexp.Concat:
		return concatAll(r.Subs)
	case regexp.Union:
		return unionAll(r.Subs)
	case regexp.Star:
		return star(buildNFA(r.Subs[0]))
	default:
		// Inter/Negate reach here only if mis-nested below a regular
		// combinator; treat as the empty language rather than panic,
		// MakeDFA never calls buildNFA directly on these kinds.
		f := newFragment()
		s0 := f.addState()
		s1 := f.addState()
		f.start, f.accept = s0, s1
		return f
	}
}

func concatAll(rs []*regexp.Regex) *nfaFragment {
	frag := buildNFA(rs[0])
	for _, r := range rs[1:] {
		next := buildNFA(r)
		frag = concatTwo(frag, next)
	}
	return frag
}

func concatTwo(a, b *nfaFragment) *nfaFragment {
	f := newFragment()
	offset := len(a.states)
	for _, s := range a.states {
		f.states = append(f.states, s)
	}
	for _, s := range b.states {
		ns := &nfaState{trans: make(map[string][]int), accept: s.accept}
		for sym, tos := range s.trans {
			shifted := make([]int, len(tos))
			for i, t := range tos {
				shifted[i] = t + offset
			}
			ns.trans[sym] = shifted
		}
		for _, e := range s.eps {
			ns.eps = append(ns.eps, e+offset)
		}
		f.states = append(f.states, ns)
	}
	f.addEps(a.accept, b.start+offset)
	f.start = a.start
	f.accept = b.accept + offset
	return f
}

func unionAll(rs []*regexp.Regex) *nfaFragment {
	fragments := make([]*nfaFragment, len(rs))
	for i, r := range rs {
		fragments[i] = buildNFA(r)
	}
	f := newFragment()
	newStart := f.addState()
	newAccept := f.addState()

	for _, frag := range fragments {
		offset := len(f.states)
		for _, s := range frag.states {
			ns := &nfaState{trans: make(map[string][]int), accept: s.accept}
			for sym, tos := range s.trans {
				shifted := make([]int, len(tos))
				for i, t := range tos {
					shifted[i] = t + offset
				}
				ns.trans[sym] = shifted
			}
			for _, e := range s.eps {
				ns.eps = append(ns.eps, e+offset)
			}
			f.states = append(f.states, ns)
		}
		f.addEps(newStart, frag.start+offset)
		f.addEps(frag.accept+offset, newAccept)
	}
	f.start, f.accept = newStart, newAccept
	return f
}

func star(a *nfaFragment) *nfaFragment {
	f := newFragment()
	newStart := f.addState()
	newAccept := f.addState()
	offset := len(f.states)
	for _, s := range a.states {
		ns := &nfaState{trans: make(map[string][]int), accept: s.accept}
		for sym, tos := range s.trans {
			shifted := make([]int, len(tos))
			for i, t := range tos {
				shifted[i] = t + offset
			}
			ns.trans[sym] = shifted
		}
		for _, e := range s.eps {
			ns.eps = append(ns.eps, e+offset)
		}
		f.states = append(f.states, ns)
	}
	f.addEps(newStart, a.start+offset)
	f.addEps(a.accept+offset, newAccept)
	f.addEps(newStart, newAccept)
	f.addEps(newAccept, newStart)
	f.start, f.accept = newStart, newAccept
	return f
}

// epsilonClosure returns the set of NFA states reachable from states
// using only epsilon moves, states included.
func epsilonClosure(f *nfaFragment, states map[int]struct{}) map[int]struct{} {
	closure := make(map[int]struct{}, len(states))
	stack := make([]int, 0, len(states))
	for s := range states {
		closure[s] = struct{}{}
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range f.states[s].eps {
			if _, ok := closure[e]; !ok {
				closure[e] = struct{}{}
				stack = append(stack, e)
			}
		}
	}
	return closure
}
