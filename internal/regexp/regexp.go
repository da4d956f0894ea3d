// Package regexp builds path expressions over a topology's location
// alphabet. It mirrors coregx-coregex's separation of a small combinator
// AST from the automaton construction that consumes it (internal/dfa):
// this package only ever builds and rewrites trees, never walks an input.
package regexp

// Kind is the tag of the closed Regex union. Matching the guidance to use
// tagged unions rather than class hierarchies for closed variant types,
// every Regex is one struct with a Kind discriminant and kind-specific
// fields, the same shape as internal/filter's Match/Action.
type Kind int

const (
	Empty Kind = iota // matches nothing
	Eps               // matches the empty path
	Lit               // matches exactly one symbol
	Concat
	Union
	Inter
	Star
	Negate
)

// Regex is an immutable expression tree over a topology's alphabet.
type Regex struct {
	Kind  Kind
	Sym   string  // Lit
	Subs  []*Regex // Concat, Union, Inter (len >= 2); Star, Negate (len == 1)
}

func lit(sym string) *Regex         { return &Regex{Kind: Lit, Sym: sym} }
func empty() *Regex                 { return &Regex{Kind: Empty} }
func eps() *Regex                   { return &Regex{Kind: Eps} }

// Loc matches exactly one hop at location name.
func Loc(name string) *Regex { return lit(name) }

// Concat matches r1 then r2 then ... then rn, back to back.
func Concat(rs ...*Regex) *Regex {
	if len(rs) == 0 {
		return eps()
	}
	if len(rs) == 1 {
		return rs[0]
	}
	return &Regex{Kind: Concat, Subs: rs}
}

// Union matches any one of rs.
func Union(rs ...*Regex) *Regex {
	if len(rs) == 0 {
		return empty()
	}
	if len(rs) == 1 {
		return rs[0]
	}
	return &Regex{Kind: Union, Subs: rs}
}

// Inter matches only paths accepted by every one of rs.
func Inter(rs ...*Regex) *Regex {
	if len(rs) == 0 {
		return empty()
	}
	if len(rs) == 1 {
		return rs[0]
	}
	return &Regex{Kind: Inter, Subs: rs}
}

// Star matches zero or more repetitions of r.
func Star(r *Regex) *Regex {
	return &Regex{Kind: Star, Subs: []*Regex{r}}
}

// Negate matches every path over the alphabet that r does not.
// Negation needs the alphabet at determinization time, not at build time,
// so the Regex tree only records the intent; internal/dfa resolves it via
// complementation of the constructed DFA.
func Negate(r *Regex) *Regex {
	return &Regex{Kind: Negate, Subs: []*Regex{r}}
}

// Inside is the alternation of every inside location in alphabet.
func Inside(alphabet []string, isInside func(string) bool) *Regex {
	var alts []*Regex
	for _, a := range alphabet {
		if isInside(a) {
			alts = append(alts, Loc(a))
		}
	}
	return Union(alts...)
}

// Outside is the dual of Inside.
func Outside(alphabet []string, isInside func(string) bool) *Regex {
	var alts []*Regex
	for _, a := range alphabet {
		if !isInside(a) {
			alts = append(alts, Loc(a))
		}
	}
	return Union(alts...)
}

// Internal is the "stay inside" idiom: zero or more hops, all of them
// inside locations.
func Internal(alphabet []string, isInside func(string) bool) *Regex {
	return Star(Inside(alphabet, isInside))
}

// Path matches exactly the sequence l1, l2, ..., ln.
func Path(locs []string) *Regex {
	lits := make([]*Regex, len(locs))
	for i, l := range locs {
		lits[i] = Loc(l)
	}
	return Concat(lits...)
}

// StartsAtAny matches any path whose first hop is one of starts, followed
// by anything.
func StartsAtAny(starts []string, alphabet []string) *Regex {
	var alts []*Regex
	for _, s := range starts {
		alts = append(alts, Concat(Loc(s), Star(Union(litAll(alphabet)...))))
	}
	return Union(alts...)
}

// EndsAt matches any path whose final hop is l.
func EndsAt(l string, alphabet []string) *Regex {
	return Concat(Star(Union(litAll(alphabet)...)), Loc(l))
}

// Waypoint matches any path that passes through l somewhere (a location
// that must appear on every admitted path).
func Waypoint(l string, alphabet []string) *Regex {
	any := Star(Union(litAll(alphabet)...))
	return Concat(any, Loc(l), any)
}

// ValleyFree matches paths that never transit from a lower tier back up
// through a peer to another lower tier: tiers is ordered provider-most
// (tier 0) to customer-most, and a valid path only ever moves "up" the
// tier list, optionally peers once at the top, then only moves "down".
// Implemented as the union of every tier-monotonic concrete shape is
// infeasible in general; instead this builds the forbidden-pattern
// complement: any path containing (tier i -> tier j -> tier k) with j > i
// and j > k (a valley) is excluded. Hops between locations of the same
// tier are not restricted, so repeated peering, or peering below the top
// tier, is not excluded.
func ValleyFree(tiers [][]string, alphabet []string) *Regex {
	any := Star(Union(litAll(alphabet)...))
	tierOf := make(map[string]int)
	for i, tier := range tiers {
		for _, loc := range tier {
			tierOf[loc] = i
		}
	}
	var forbidden []*Regex
	for _, mid := range alphabet {
		midTier, ok := tierOf[mid]
		if !ok {
			continue
		}
		for _, before := range alphabet {
			beforeTier, ok := tierOf[before]
			if !ok || beforeTier >= midTier {
				continue
			}
			for _, after := range alphabet {
				afterTier, ok := tierOf[after]
				if !ok || afterTier >= midTier {
					continue
				}
				forbidden = append(forbidden, Concat(any, Loc(before), Loc(mid), Loc(after), any))
			}
		}
	}
	if len(forbidden) == 0 {
		return any
	}
	return Negate(Union(forbidden...))
}

func litAll(alphabet []string) []*Regex {
	out := make([]*Regex, len(alphabet))
	for i, a := range alphabet {
		out[i] = Loc(a)
	}
	return out
}

// Reverse produces the regex matching exactly the reverse of every path r
// matches. driver.compileOne calls dfa.MakeDFA on Reverse(r): walking
// the resulting DFA in the same direction BGP announcements propagate
// (sink-to-source) then accepts exactly the data-plane paths r describes
// (§4.A).
func Reverse(r *Regex) *Regex {
	switch r.Kind {
	case Empty, Eps, Lit:
		return r
	case Star, Negate:
		return &Regex{Kind: r.Kind, Subs: []*Regex{Reverse(r.Subs[0])}}
	case Union, Inter:
		subs := make([]*Regex, len(r.Subs))
		for i, s := range r.Subs {
			subs[i] = Reverse(s)
		}
		return &Regex{Kind: r.Kind, Subs: subs}
	case Concat:
		subs := make([]*Regex, len(r.Subs))
		for i, s := range r.Subs {
			subs[len(r.Subs)-1-i] = Reverse(s)
		}
		return &Regex{Kind: Concat, Subs: subs}
	default:
		return r
	}
}
