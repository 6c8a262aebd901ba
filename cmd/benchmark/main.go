// Command benchmark runs the armsim benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv      Output results in CSV format (default: human-readable)
//	-core     Run only the core benchmarks
//	-latency  Path to timing configuration JSON file
//
// Example:
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/armsim/benchmarks"
	"github.com/sarchlab/armsim/timing/latency"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	core := flag.Bool("core", false, "Run only the core benchmarks")
	latencyPath := flag.String("latency", "", "Path to timing configuration JSON file")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.Output = os.Stdout

	if *latencyPath != "" {
		timing, err := latency.LoadConfig(*latencyPath)
		if err == nil {
			err = timing.Validate()
		}
		if err != nil {
			logrus.WithField("path", *latencyPath).Error(err)
			os.Exit(1)
		}
		config.Timing = timing
	}

	harness := benchmarks.NewHarness(config)
	if *core {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	if !*csvOutput {
		fmt.Println("armsim Benchmark Harness")
		fmt.Println("========================")
		fmt.Println("")
	}

	results := harness.RunAll()

	if *csvOutput {
		harness.PrintCSV(results)
	} else {
		harness.PrintResults(results)
	}

	failed := 0
	for _, r := range results {
		if r.Err != "" {
			logrus.WithFields(logrus.Fields{
				"benchmark": r.Name,
			}).Error(r.Err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
