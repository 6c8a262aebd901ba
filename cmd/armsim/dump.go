package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/sarchlab/armsim/emu"
	"github.com/sarchlab/armsim/timing/latency"
)

var (
	changed = color.New(color.FgYellow, color.Bold).SprintFunc()
	flagSet = color.New(color.FgGreen).SprintFunc()
	flagClr = color.New(color.Faint).SprintFunc()
)

// snapshot copies the visible register values.
func snapshot(regs *emu.RegFile) map[string]uint32 {
	values := make(map[string]uint32)
	for _, name := range regs.Names() {
		values[name] = regs.Read(name)
	}

	return values
}

// dumpRegisters prints every register except the scratch cell and the
// status flags. Registers that differ from initial are highlighted.
func dumpRegisters(w io.Writer, m *emu.Machine, initial map[string]uint32) {
	regs := m.RegFile()

	for _, name := range regs.Names() {
		if name == emu.RegScratch {
			continue
		}

		v := regs.Read(name)
		line := fmt.Sprintf("%-3s 0x%08X %d", name, v, int32(v))
		if v != initial[name] {
			line = changed(line)
		}
		fmt.Fprintln(w, line)
	}

	s := m.Status()
	fmt.Fprintf(w, "flags %s %s %s %s\n",
		flagText("N", s.N), flagText("Z", s.Z), flagText("C", s.C), flagText("V", s.V))
}

func flagText(name string, set bool) string {
	if set {
		return flagSet(name)
	}
	return flagClr("-")
}

func printTiming(w io.Writer, stats latency.Statistics) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Total Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(w, "Skipped: %d\n", stats.Skipped)
	fmt.Fprintf(w, "Estimated Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(w, "CPI: %.2f\n", stats.CPI())
	fmt.Fprintf(w, "Loads: %d  Stores: %d  Branches taken: %d\n",
		stats.Loads, stats.Stores, stats.Branches)
}
