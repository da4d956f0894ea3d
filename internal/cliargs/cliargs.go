// Package cliargs handles program argument parsing, the same flag.FlagSet
// style the teacher uses throughout args.go, adapted to the single-mode
// compiler surface §6 specifies instead of anaximander's multi-command
// mode tree.
package cliargs

import (
	"flag"
	"fmt"
	"os"
)

// Settings is the compiler's CLI surface (§6): the operator knobs the
// incoming-traffic configurator and configuration generator consult, plus
// the input/output file locations and an optional debug trace directory.
type Settings struct {
	TopologyFile string
	PolicyFile   string
	OutputFile   string

	UseMED        bool
	UsePrepending bool
	UseNoExport   bool
	CheckEnter    bool

	DebugDir   string
	NumWorkers int
}

// Parse builds a Settings from args (typically os.Args[1:]), exiting the
// process on a parse error the way flag.ExitOnError always has — mirrors
// the teacher's handle_args_* functions, which all call os.Exit directly
// rather than threading an error back to main.
func Parse(name string, args []string) *Settings {
	s := &Settings{}
	cmd := flag.NewFlagSet(name, flag.ExitOnError)

	cmd.StringVar(&s.TopologyFile, "topology", "", "topology description file (required)")
	cmd.StringVar(&s.PolicyFile, "policy", "", "policy input file (required)")
	cmd.StringVar(&s.OutputFile, "o", "", "output file for the generated configuration (stdout if empty)")

	cmd.BoolVar(&s.UseMED, "use-med", false, "allow MED to distinguish inbound preference tiers")
	cmd.BoolVar(&s.UsePrepending, "use-prepend", false, "allow AS-path prepending to distinguish inbound preference tiers")
	cmd.BoolVar(&s.UseNoExport, "use-no-export", false, "allow the no-export community to realize a Nothing inbound classification")
	cmd.BoolVar(&s.CheckEnter, "check-enter", true, "exit with status 1 when any prefix fails to compile; when false, failures are only listed in the output (inbound checks run either way)")

	cmd.StringVar(&s.DebugDir, "debug-dir", "", "write a per-prefix sqlite trace to this directory")
	cmd.IntVar(&s.NumWorkers, "workers", 4, "number of prefixes to compile concurrently")

	cmd.Parse(args)

	if s.TopologyFile == "" || s.PolicyFile == "" {
		fmt.Fprintln(os.Stderr, "missing required -topology and/or -policy")
		cmd.Usage()
		os.Exit(1)
	}

	return s
}
