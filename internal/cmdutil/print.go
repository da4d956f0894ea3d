// Package cmdutil holds the compiler's textual output helpers: an ASCII
// pretty-printer for the joined per-router configuration, in the box-
// drawing style the teacher's tree/tree.go uses for its own nested
// output (itself adapted from github.com/Tufin/asciitree).
package cmdutil

import (
	"fmt"
	"io"
	"sort"

	"github.com/anaximander-labs/ipc/internal/driver"
	"github.com/anaximander-labs/ipc/internal/filter"
)

// PrintReport renders a driver.Report as an indented router → filter →
// export tree, one router per top-level branch, sorted by name for
// reproducible output.
func PrintReport(w io.Writer, report *driver.Report) {
	names := report.RouterNames()
	for i, name := range names {
		last := i == len(names)-1
		fmt.Fprintf(w, "%s %s\n", branch(last), name)
		rc := report.Routers[name]
		printRouter(w, rc, childPadding(last))
	}
	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\n%d prefix(es) failed to compile:\n", len(report.Errors))
		for _, err := range report.Errors {
			fmt.Fprintf(w, "  - %v\n", err)
		}
	}
}

func printRouter(w io.Writer, rc *driver.RouterConfig, pad string) {
	for i, pc := range rc.Actions {
		last := i == len(rc.Actions)-1
		fmt.Fprintf(w, "%s%s predicate #%d (originates=%v)\n", pad, branch(last), i, pc.Device.Originates)
		printFilters(w, pc.Device.Filters, pad+childPadding(last))
	}
}

func printFilters(w io.Writer, filters []filter.Filter, pad string) {
	for i, f := range filters {
		last := i == len(filters)-1
		if f.Deny {
			fmt.Fprintf(w, "%s%s deny\n", pad, branch(last))
			continue
		}
		fmt.Fprintf(w, "%s%s allow match=%s localpref=%d\n", pad, branch(last), describeMatch(f.Match), f.LocalPref)
		childPad := pad + childPadding(last)
		for j, e := range f.Exports {
			elast := j == len(f.Exports)-1
			fmt.Fprintf(w, "%s%s export -> %s %s\n", childPad, branch(elast), e.PeerLocator, describeActions(e.Actions))
		}
	}
}

func describeMatch(m filter.Match) string {
	switch m.Kind {
	case filter.MatchPeer:
		return "peer(" + m.Loc + ")"
	case filter.MatchState:
		return "state(" + m.Community + "@" + m.Loc + ")"
	case filter.MatchPathRegex:
		return "path-regex"
	case filter.MatchNoMatch:
		return "originate"
	default:
		return "?"
	}
}

func describeActions(actions []filter.Action) string {
	if len(actions) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		switch a.Kind {
		case filter.SetCommunity:
			parts = append(parts, "set-community:"+a.Community)
		case filter.SetMED:
			parts = append(parts, fmt.Sprintf("set-med:%d", a.MED))
		case filter.PrependPath:
			parts = append(parts, fmt.Sprintf("prepend:%d", a.Prepend))
		}
	}
	sort.Strings(parts)
	return fmt.Sprintf("%v", parts)
}

func branch(last bool) string {
	if last {
		return "└─" // └─
	}
	return "├─" // ├─
}

func childPadding(last bool) string {
	if last {
		return "   "
	}
	return "│  " // │
}
