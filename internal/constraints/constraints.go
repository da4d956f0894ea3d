// Package constraints models the policy input's non-regex surface (§6):
// per-preference-list predicates, and the three side-constraint kinds
// (Aggregate, Community, MaxRoutes) the incoming-traffic configurator and
// configuration generator consult alongside the product graph.
package constraints

import (
	"github.com/anaximander-labs/ipc/internal/bddpred"
	"github.com/anaximander-labs/ipc/internal/regexp"
)

// PolicyPair is one (predicate, preferences) entry of the policy input:
// preferences is ranked best-first, predicate selects which
// (prefix, community) pairs the ranked list applies to.
type PolicyPair struct {
	Predicate   bddpred.Index
	Preferences []*regexp.Regex
}

// Aggregate declares that Prefix may be summarized at the boundary
// between InLocs and OutLocs. internal/driver copies it onto every
// RouterConfig.Control and uses InLocs/OutLocs for
// AggregateFailuresSurvived; no DeviceConfig entry or filter is generated
// for it.
type Aggregate struct {
	Prefix  bddpred.Prefix
	InLocs  []string
	OutLocs []string
}

// Community names a community value scoped to a prefix and a set of
// boundary locations. internal/driver copies it onto every
// RouterConfig.Control.Tags; it is not compiled into a BDD variable or a
// Match.State.
type Community struct {
	Name    string
	Prefix  bddpred.Prefix
	InLocs  []string
	OutLocs []string
}

// MaxRoutes records a control-plane rate limit; the core records it
// verbatim on RouterConfig.Control — it has no compiled match/export
// behavior (§E.4: rate limiting is a vendor pretty-printer concern, not
// a filter-compiler one).
type MaxRoutes struct {
	N       int
	InLocs  []string
	OutLocs []string
}
