package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/armsim/config"
	"github.com/sarchlab/armsim/emu"
	"github.com/sarchlab/armsim/loader"
	"github.com/sarchlab/armsim/timing/latency"
)

// options collects the command-line settings of one run.
type options struct {
	configPath      string
	latencyPath     string
	timing          bool
	timeLimit       time.Duration
	maxInstructions uint64
	trace           bool
	entry           string
	returnLabel     string
	verbose         bool
	presets         presetList
}

// presetList is a repeatable name=value flag.
type presetList []string

func (p *presetList) String() string {
	return strings.Join(*p, ",")
}

func (p *presetList) Set(v string) error {
	if _, _, err := parsePreset(v); err != nil {
		return err
	}
	*p = append(*p, v)
	return nil
}

func parsePreset(s string) (string, int64, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("register preset %q is not name=value", s)
	}

	v, err := strconv.ParseInt(strings.TrimSpace(value), 0, 64)
	if err != nil {
		return "", 0, fmt.Errorf("register preset %q: %w", s, err)
	}

	return strings.TrimSpace(name), v, nil
}

func newLogger(w io.Writer, verbose, trace bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.WarnLevel)

	if verbose {
		log.SetLevel(logrus.InfoLevel)
	}
	if trace {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

// tracer logs every retired instruction at debug level.
type tracer struct {
	log *logrus.Logger
}

// Func implements sim.Hook.
func (t *tracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != emu.HookPosRetire {
		return
	}

	m := ctx.Domain.(*emu.Machine)
	inst := ctx.Item.(*emu.Instruction)
	taken, _ := ctx.Detail.(bool)
	status := m.Status()

	t.log.WithFields(logrus.Fields{
		"count": m.InstructionCount(),
		"pc":    m.RegFile().PC(),
		"inst":  inst.String(),
		"taken": taken,
		"nzcv":  fmt.Sprintf("%d%d%d%d", b2i(status.N), b2i(status.Z), b2i(status.C), b2i(status.V)),
	}).Debug("Retire")
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func machineConfig(opts options) (*config.MachineConfig, error) {
	cfg := config.DefaultMachineConfig()
	if opts.configPath != "" {
		var err error
		cfg, err = config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()

	if opts.timeLimit > 0 {
		cfg.TimeLimitMS = int(opts.timeLimit / time.Millisecond)
	}
	if opts.maxInstructions > 0 {
		cfg.MaxInstructions = opts.maxInstructions
	}
	if opts.trace {
		cfg.Trace = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid machine config: %w", err)
	}

	return cfg, nil
}

func loadProgram(path string, stdin io.Reader) (*loader.Program, error) {
	if path == "-" {
		return loader.Parse(stdin)
	}

	return loader.Load(path)
}

func timingTable(opts options) (*latency.Table, error) {
	if opts.latencyPath == "" {
		return latency.NewTable(), nil
	}

	timingConfig, err := latency.LoadConfig(opts.latencyPath)
	if err != nil {
		return nil, err
	}
	if err := timingConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing config: %w", err)
	}

	return latency.NewTableWithConfig(timingConfig), nil
}

// prepare applies register presets and the entry and return labels.
func prepare(m *emu.Machine, opts options) error {
	regs := m.RegFile()

	for _, p := range opts.presets {
		name, value, err := parsePreset(p)
		if err != nil {
			return err
		}
		if _, ok := regs.Lookup(name); !ok {
			return fmt.Errorf("register preset %q: unknown register", p)
		}
		regs.Write(name, value)
	}

	if opts.entry != "" {
		index, err := m.LabelIndex(opts.entry)
		if err != nil {
			return fmt.Errorf("entry: %w", err)
		}
		regs.SetPC(int64(index))
	}

	if opts.returnLabel != "" {
		index, err := m.LabelIndex(opts.returnLabel)
		if err != nil {
			return fmt.Errorf("return: %w", err)
		}
		regs.Write(emu.RegLR, int64(index))
	}

	return nil
}

// run loads, runs and reports one program. The register dump is printed
// even when the run fails.
func run(opts options, path string, stdin io.Reader, stdout io.Writer, log *logrus.Logger) error {
	cfg, err := machineConfig(opts)
	if err != nil {
		return err
	}

	prog, err := loadProgram(path, stdin)
	if err != nil {
		return err
	}

	m, err := emu.NewMachine(append(cfg.Options(), emu.WithProgram(prog.Text()))...)
	if err != nil {
		var lineErr *emu.LineError
		if errors.As(err, &lineErr) {
			return fmt.Errorf("failed to build machine: %s: %w",
				prog.Position(lineErr.Index), lineErr.Err)
		}
		return fmt.Errorf("failed to build machine: %w", err)
	}

	if err := prepare(m, opts); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"program":      path,
		"instructions": len(m.Program()),
		"labels":       len(m.Labels()),
	}).Info("Loaded")

	if cfg.Trace {
		m.AcceptHook(&tracer{log: log})
	}

	var counter *latency.Counter
	if opts.timing {
		table, err := timingTable(opts)
		if err != nil {
			return err
		}
		counter = latency.NewCounter(table)
		m.AcceptHook(counter)
	}

	initial := snapshot(m.RegFile())
	start := time.Now()

	runErr := m.Run(cfg.TimeLimit())

	log.WithFields(logrus.Fields{
		"instructions": m.InstructionCount(),
		"elapsed":      time.Since(start),
	}).Info("Finished")

	dumpRegisters(stdout, m, initial)
	if counter != nil {
		printTiming(stdout, counter.Stats())
	}

	if runErr != nil {
		return fmt.Errorf("run failed: %w", runErr)
	}

	return nil
}
