// Command ipc compiles an inter-domain routing policy into per-router,
// per-prefix forwarding filters.
package main

import (
	"log"
	"os"

	"github.com/anaximander-labs/ipc/internal/bddpred"
	"github.com/anaximander-labs/ipc/internal/cfgload"
	"github.com/anaximander-labs/ipc/internal/cliargs"
	"github.com/anaximander-labs/ipc/internal/cmdutil"
	"github.com/anaximander-labs/ipc/internal/driver"
	"github.com/anaximander-labs/ipc/internal/inbound"
	"github.com/anaximander-labs/ipc/internal/tracestore"
)

func main() {
	log.SetFlags(0)
	settings := cliargs.Parse("ipc", os.Args[1:])

	t, err := cfgload.LoadTopology(settings.TopologyFile)
	if err != nil {
		log.Fatalf("ipc: %v", err)
	}

	engine := bddpred.NewEngine()
	policy, err := cfgload.LoadPolicy(settings.PolicyFile, engine)
	if err != nil {
		log.Fatalf("ipc: %v", err)
	}

	knobs := inbound.Knobs{
		UseMED:        settings.UseMED,
		UsePrepending: settings.UsePrepending,
		UseNoExport:   settings.UseNoExport,
	}

	var trace *tracestore.Store
	if settings.DebugDir != "" {
		if err := os.MkdirAll(settings.DebugDir, 0o755); err != nil {
			log.Fatalf("ipc: creating debug dir: %v", err)
		}
		trace, err = tracestore.Open(settings.DebugDir)
		if err != nil {
			log.Fatalf("ipc: %v", err)
		}
		defer trace.Close()
	}

	report := driver.Run(t, policy.Pairs, policy.Aggregates, policy.Communities, policy.MaxRoutes, knobs, settings.NumWorkers, trace)

	if len(report.Errors) > 0 && settings.CheckEnter {
		for _, err := range report.Errors {
			log.Println("ipc: compile error:", err)
		}
		os.Exit(1)
	}

	out := os.Stdout
	if settings.OutputFile != "" {
		f, err := os.Create(settings.OutputFile)
		if err != nil {
			log.Fatalf("ipc: %v", err)
		}
		defer f.Close()
		out = f
	}
	cmdutil.PrintReport(out, report)

	if report.HasAggregates {
		log.Printf("ipc: minimum aggregate-failures survived across policies: %d", report.MinAggregateSurvived)
	}
	log.Printf("ipc: size counters: raw=%d smart=%d", report.SizeTotals.Raw, report.SizeTotals.Smart)
}
