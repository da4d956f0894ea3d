// Package compileerr defines the closed set of fatal outcomes the
// compilation pipeline can return. Errors are values, never panics, across
// the package's public surface. A disconnected inside subgraph is reported
// as an ordinary error by internal/topology. Panics are not recovered
// anywhere in internal/driver, so a panic in one task ends the whole run.
package compileerr

import "fmt"

// Kind identifies which pipeline stage rejected the input and why.
type Kind int

const (
	// NoPathForRouters: a router that ought to originate or relay traffic
	// has no accepted path in the product graph.
	NoPathForRouters Kind = iota
	// InconsistentPrefs: no single per-router ordering satisfies both
	// nodes of the reported pair.
	InconsistentPrefs
	// UnusedPreferences: a preference regex produced no accepting PG node.
	UnusedPreferences
	// UncontrollableEnter: no combination of export actions restricts
	// inbound traffic to the desired set.
	UncontrollableEnter
	// UncontrollablePeerPreference: an inbound-preference constraint needs
	// MED or AS-prepending and the operator disabled both.
	UncontrollablePeerPreference
)

func (k Kind) String() string {
	switch k {
	case NoPathForRouters:
		return "NoPathForRouters"
	case InconsistentPrefs:
		return "InconsistentPrefs"
	case UnusedPreferences:
		return "UnusedPreferences"
	case UncontrollableEnter:
		return "UncontrollableEnter"
	case UncontrollablePeerPreference:
		return "UncontrollablePeerPreference"
	default:
		return "UnknownError"
	}
}

// Error is the single sum type every compiler-facing function returns.
// The counter-example payload is kind-specific and left untyped (an
// InconsistentPrefs error's CounterExample is a [2]string node-pair, a
// NoPathForRouters error's is a []string of offending locations, and so
// on) the same way kbgp's bgpError keeps code/subcode/message generic
// rather than growing one field per protocol error.
type Error struct {
	Kind          Kind
	Message       string
	CounterExample interface{}
}

func (e *Error) Error() string {
	if e.CounterExample != nil {
		return fmt.Sprintf("%s: %s (counter-example: %v)", e.Kind, e.Message, e.CounterExample)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New constructs an Error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithCounterExample attaches a counter-example payload to an Error.
func WithCounterExample(kind Kind, counterExample interface{}, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), CounterExample: counterExample}
}
