// Package driver implements the prefix driver / joiner (§4.H): it runs
// the full A→G pipeline once per (predicate, preferences) policy pair,
// in parallel across an immutable topology, and joins the per-prefix
// results into one final per-router configuration.
//
// The embarrassingly-parallel shape is lifted straight from the
// teacher's anaximander_driver.go / anaximander_parallel.go: one
// worker-pool call (pool.Launch_pool there, launch here) over an
// independent per-item task, with no shared mutable state beyond a
// read-only topology and, optionally, a shared BDD engine (§5).
package driver

import (
	"fmt"
	"sort"
	"sync"

	"github.com/anaximander-labs/ipc/internal/configgen"
	"github.com/anaximander-labs/ipc/internal/constraints"
	"github.com/anaximander-labs/ipc/internal/dfa"
	"github.com/anaximander-labs/ipc/internal/filter"
	"github.com/anaximander-labs/ipc/internal/inbound"
	"github.com/anaximander-labs/ipc/internal/minimize"
	"github.com/anaximander-labs/ipc/internal/order"
	"github.com/anaximander-labs/ipc/internal/product"
	"github.com/anaximander-labs/ipc/internal/regexp"
	"github.com/anaximander-labs/ipc/internal/topology"
	"github.com/anaximander-labs/ipc/internal/tracestore"
)

// PredicatedConfig pairs one policy pair's predicate with the
// DeviceConfig it produced at a given router (§6: "a mapping from router
// name to RouterConfig{ actions: [(predicate, DeviceConfig)], ... }").
type PredicatedConfig struct {
	Predicate constraints.PolicyPair
	Device    filter.DeviceConfig
}

// ControlPlane carries the three non-regex constraint kinds through to
// the joined output, unchanged by the compilation pipeline itself
// (§E.4 of SPEC_FULL.md).
type ControlPlane struct {
	Aggregates []constraints.Aggregate
	Tags       []constraints.Community
	MaxRoutes  []constraints.MaxRoutes
}

// RouterConfig is one router's final, joined configuration.
type RouterConfig struct {
	Actions []PredicatedConfig
	Control ControlPlane
}

// Report is the full result of one driver run.
type Report struct {
	Routers              map[string]*RouterConfig
	Errors               []error // one slot per input pair that failed, nil entries omitted
	SizeTotals           configgen.SizeCounters
	MinAggregateSurvived int // smallest, across all Aggregate constraints, of concurrent failures that disconnect it
	HasAggregates        bool
}

type taskResult struct {
	index   int
	configs map[string]filter.DeviceConfig
	unused  []int
	sizes   configgen.SizeCounters
	err     error
}

// Run compiles every PolicyPair in pairs (§6's policy input) against the
// shared topology, numWorkers at a time, and joins the
// results deterministically: routers ordered by name, each router's
// per-prefix filter groups in input prefix order (§5).
func Run(t *topology.Topology, pairs []constraints.PolicyPair, aggregates []constraints.Aggregate, tags []constraints.Community, maxRoutes []constraints.MaxRoutes, knobs inbound.Knobs, numWorkers int, trace *tracestore.Store) *Report {
	results := make([]taskResult, len(pairs))
	var mu sync.Mutex

	launch(numWorkers, len(pairs), func(i int) {
		configs, unused, sizes, err := compileOne(t, pairs[i], knobs)
		mu.Lock()
		results[i] = taskResult{index: i, configs: configs, unused: unused, sizes: sizes, err: err}
		mu.Unlock()
	})

	report := &Report{Routers: make(map[string]*RouterConfig)}
	for _, r := range results {
		if trace != nil {
			row := tracestore.Row{
				PredicateLabel: fmt.Sprintf("pred-%d", r.index),
				UnusedPrefs:    r.unused,
				SizeRaw:        r.sizes.Raw,
				SizeSmart:      r.sizes.Smart,
				OK:             r.err == nil,
			}
			if r.err != nil {
				row.ErrorMessage = r.err.Error()
			}
			_ = trace.Record(row)
		}
		if r.err != nil {
			report.Errors = append(report.Errors, r.err)
			continue
		}
		report.SizeTotals.Raw += r.sizes.Raw
		report.SizeTotals.Smart += r.sizes.Smart
		for routerName, device := range r.configs {
			rc, ok := report.Routers[routerName]
			if !ok {
				rc = &RouterConfig{Control: ControlPlane{Aggregates: aggregates, Tags: tags, MaxRoutes: maxRoutes}}
				report.Routers[routerName] = rc
			}
			rc.Actions = append(rc.Actions, PredicatedConfig{Predicate: pairs[r.index], Device: device})
		}
	}

	if len(aggregates) > 0 {
		report.HasAggregates = true
		best := -1
		for _, agg := range aggregates {
			survived := AggregateFailuresSurvived(t, agg.InLocs, agg.OutLocs)
			if best == -1 || survived < best {
				best = survived
			}
		}
		report.MinAggregateSurvived = best
	}

	return report
}

// RouterNames returns the report's router names sorted, the join
// ordering §5 guarantees.
func (r *Report) RouterNames() []string {
	names := make([]string, 0, len(r.Routers))
	for name := range r.Routers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// compileOne runs the full A→G pipeline for a single policy pair.
func compileOne(t *topology.Topology, pair constraints.PolicyPair, knobs inbound.Knobs) (map[string]filter.DeviceConfig, []int, configgen.SizeCounters, error) {
	alphabet := t.Alphabet()

	dfas := make([]*dfa.DFA, len(pair.Preferences))
	for i, pref := range pair.Preferences {
		dfas[i] = dfa.MakeDFA(regexp.Reverse(pref), alphabet)
	}

	raw := product.Build(t, dfas)
	min := minimize.Minimize(raw, len(dfas))

	if err := order.CheckWellFormed(min.Graph, t); err != nil {
		return nil, min.UnusedPreferences, configgen.SizeCounters{}, err
	}

	orderings, err := order.Solve(min.Graph, t)
	if err != nil {
		return nil, min.UnusedPreferences, configgen.SizeCounters{}, err
	}

	configs, sizes, err := configgen.Generate(min.Graph, t, orderings, knobs)
	if err != nil {
		return nil, min.UnusedPreferences, sizes, err
	}

	return configs, min.UnusedPreferences, sizes, nil
}
