// Package main provides a profiling wrapper for armsim to identify performance bottlenecks.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/armsim/emu"
	"github.com/sarchlab/armsim/loader"
	"github.com/sarchlab/armsim/timing/latency"
)

var (
	timing      = flag.Bool("timing", false, "Attach the latency counter while profiling")
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	duration    = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	instruction = flag.Uint64("max-instr", 1000000, "max instructions to execute (0 = unlimited)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program.s>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)
	log := logrus.WithField("program", programPath)

	prog, err := loader.Load(programPath)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}

	m, err := emu.NewMachine(
		emu.WithProgram(prog.Text()),
		emu.WithMaxInstructions(*instruction),
	)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}

	var counter *latency.Counter
	if *timing {
		counter = latency.NewCounter(latency.NewTable())
		m.AcceptHook(counter)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Errorf("Error creating CPU profile: %v", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			log.Errorf("Error starting CPU profile: %v", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	fmt.Printf("Loaded: %s (%d instructions)\n", programPath, len(m.Program()))

	start := time.Now()
	err = m.Run(*duration)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, emu.ErrTimeLimit):
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
	case errors.Is(err, emu.ErrMaxInstructions):
		fmt.Printf("\nInstruction limit reached - stopping execution\n")
	case err != nil:
		log.Error(err)
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Errorf("Error creating memory profile: %v", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Errorf("Error writing memory profile: %v", err)
		}
	}

	instrCount := m.InstructionCount()

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Instructions executed: %d\n", instrCount)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
	if counter != nil {
		stats := counter.Stats()
		fmt.Printf("Estimated cycles: %d (CPI %.2f)\n", stats.Cycles, stats.CPI())
	}
}
