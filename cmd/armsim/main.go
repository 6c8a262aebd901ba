// Package main provides the entry point for armsim.
// armsim runs reduced ARM-like assembly programs on a functional machine
// model and prints the final register state.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	configPath  = flag.String("config", "", "Path to machine configuration JSON file")
	latencyPath = flag.String("latency", "", "Path to timing configuration JSON file (implies -timing)")
	timing      = flag.Bool("timing", false, "Print a cycle estimate after the run")
	timeLimit   = flag.Duration("time-limit", 0, "Wall-clock run limit, overrides the configuration")
	maxInsts    = flag.Uint64("max", 0, "Maximum number of instructions, overrides the configuration")
	trace       = flag.Bool("trace", false, "Log every retired instruction")
	entry       = flag.String("entry", "", "Label to start execution at")
	returnLabel = flag.String("return", "", "Label to preset lr to")
	verbose     = flag.Bool("v", false, "Verbose output")
	presets     presetList
)

func init() {
	flag.Var(&presets, "set", "Preset a register, e.g. -set r0=5 (repeatable)")
}

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: armsim [options] <program.s | ->\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	opts := options{
		configPath:      *configPath,
		latencyPath:     *latencyPath,
		timing:          *timing || *latencyPath != "",
		timeLimit:       *timeLimit,
		maxInstructions: *maxInsts,
		trace:           *trace,
		entry:           *entry,
		returnLabel:     *returnLabel,
		verbose:         *verbose,
		presets:         presets,
	}

	log := newLogger(os.Stderr, opts.verbose, opts.trace)

	if err := run(opts, flag.Arg(0), os.Stdin, os.Stdout, log); err != nil {
		log.WithFields(logrus.Fields{
			"program": flag.Arg(0),
		}).Error(err)
		os.Exit(1)
	}
}
