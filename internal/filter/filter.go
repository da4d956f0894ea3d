// Package filter defines the low-level vocabulary a compiled
// configuration is made of: Match and Action as closed tagged unions
// (§9: "implementers should use tagged unions ... rather than class
// hierarchies"), Filter and DeviceConfig as specified in §3.
package filter

import "github.com/anaximander-labs/ipc/internal/regexp"

// MatchKind tags the closed Match union.
type MatchKind int

const (
	// MatchPeer matches announcements received directly from a peer at
	// Loc.
	MatchPeer MatchKind = iota
	// MatchState matches announcements carrying Community, restricted to
	// Loc ("*" for wildcard).
	MatchState
	// MatchPathRegex matches announcements whose AS-path satisfies
	// Regex, reconstructed via PG state-elimination (§4.G step 2).
	MatchPathRegex
	// MatchNoMatch matches local origination: no announcement is
	// received, the prefix is originated at this router.
	MatchNoMatch
)

// Match is the closed match-clause union.
type Match struct {
	Kind      MatchKind
	Loc       string // MatchPeer, MatchState
	Community string // MatchState
	Regex     *regexp.Regex // MatchPathRegex
}

func Peer(loc string) Match             { return Match{Kind: MatchPeer, Loc: loc} }
func State(community, loc string) Match { return Match{Kind: MatchState, Community: community, Loc: loc} }
func PathRegex(r *regexp.Regex) Match   { return Match{Kind: MatchPathRegex, Regex: r} }
func NoMatch() Match                    { return Match{Kind: MatchNoMatch} }

// ActionKind tags the closed Action union.
type ActionKind int

const (
	SetCommunity ActionKind = iota
	SetMED
	PrependPath
)

// Action is the closed export-action union.
type Action struct {
	Kind      ActionKind
	Community string // SetCommunity
	MED       int    // SetMED
	Prepend   int    // PrependPath (number of extra AS-path hops)
}

func ActionSetCommunity(name string) Action { return Action{Kind: SetCommunity, Community: name} }
func ActionSetMED(med int) Action           { return Action{Kind: SetMED, MED: med} }
func ActionPrependPath(n int) Action        { return Action{Kind: PrependPath, Prepend: n} }

// Export is one export rule: the peer it targets ("*" for every peer,
// "in" for the inside wildcard) and the actions applied on the way out.
type Export struct {
	PeerLocator string
	Actions     []Action
}

// Filter is one rule in a router's ordered filter list: either a
// terminal Deny, or an Allow binding a Match and a local-pref to a list
// of Exports.
type Filter struct {
	Deny      bool
	Match     Match
	LocalPref int
	Exports   []Export
}

// Allow builds a non-terminal Allow filter.
func Allow(match Match, localPref int, exports []Export) Filter {
	return Filter{Match: match, LocalPref: localPref, Exports: exports}
}

// DenyFilter builds the terminal catch-all filter every router's list ends with.
func DenyFilter() Filter { return Filter{Deny: true} }

// DeviceConfig is one router's compiled filter table (§3). Filter order
// is significant: earlier filters override later ones, and the best
// preference is emitted first (§4.G's final reversal step).
type DeviceConfig struct {
	Originates bool
	Filters    []Filter
}
