// Package benchmarks provides a harness that runs assembly programs and
// reports their estimated timing.
package benchmarks

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/armsim/emu"
	"github.com/sarchlab/armsim/loader"
	"github.com/sarchlab/armsim/timing/latency"
)

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// EstimatedCycles is the cycle estimate from the latency counter
	EstimatedCycles uint64 `json:"estimated_cycles"`

	// InstructionsRetired is the number of executed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// Skipped is the number of instructions whose condition failed
	Skipped uint64 `json:"skipped"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	Loads    uint64 `json:"loads"`
	Stores   uint64 `json:"stores"`
	Branches uint64 `json:"branches"`

	// Err holds the run error, empty on success
	Err string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the machine state (e.g., registers, memory)
	Setup func(m *emu.Machine) error

	// Source is the assembly text to execute. Comments and directives are
	// allowed.
	Source string

	// Verify checks the final machine state. It may be nil.
	Verify func(m *emu.Machine) error
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Timing holds the latencies used for the cycle estimate
	Timing *latency.TimingConfig

	// TimeLimit bounds each run. 0 means no limit.
	TimeLimit time.Duration

	// Output is where to write results (default: os.Stdout)
	Output io.Writer
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Timing:    latency.DefaultTimingConfig(),
		TimeLimit: 5 * time.Second,
		Output:    os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Timing == nil {
		config.Timing = latency.DefaultTimingConfig()
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.RunBenchmark(bench))
	}

	return results
}

// RunBenchmark executes a single benchmark on a fresh machine.
func (h *Harness) RunBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	prog, err := loader.ParseString(bench.Source)
	if err != nil {
		result.Err = err.Error()
		return result
	}

	m, err := emu.NewMachine(emu.WithProgram(prog.Text()))
	if err != nil {
		result.Err = err.Error()
		return result
	}

	if bench.Setup != nil {
		if err := bench.Setup(m); err != nil {
			result.Err = fmt.Sprintf("setup: %v", err)
			return result
		}
	}

	counter := latency.NewCounter(latency.NewTableWithConfig(h.config.Timing))
	m.AcceptHook(counter)

	start := time.Now()
	err = m.Run(h.config.TimeLimit)
	result.WallTime = time.Since(start)

	stats := counter.Stats()
	result.EstimatedCycles = stats.Cycles
	result.InstructionsRetired = stats.Instructions
	result.Skipped = stats.Skipped
	result.CPI = stats.CPI()
	result.Loads = stats.Loads
	result.Stores = stats.Stores
	result.Branches = stats.Branches

	if err == nil && bench.Verify != nil {
		err = bench.Verify(m)
	}
	if err != nil {
		result.Err = err.Error()
	}

	return result
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== armsim Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		if r.Err != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Err)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Estimated Cycles:     %d\n", r.EstimatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  Skipped:              %d\n", r.Skipped)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Loads/Stores:         %d/%d\n", r.Loads, r.Stores)
		_, _ = fmt.Fprintf(h.config.Output, "  Branches Taken:       %d\n", r.Branches)
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,skipped,cpi,loads,stores,branches,ok")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%.3f,%d,%d,%d,%t\n",
			r.Name,
			r.EstimatedCycles,
			r.InstructionsRetired,
			r.Skipped,
			r.CPI,
			r.Loads,
			r.Stores,
			r.Branches,
			r.Err == "",
		)
	}
}
