// Package main provides the entry point for armsim.
// armsim is a functional simulator for a reduced ARM-like instruction set
// driven by textual assembly.
//
// For the full CLI, use: go run ./cmd/armsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("armsim - reduced ARM-like instruction set simulator")
	fmt.Println("")
	fmt.Println("Usage: armsim [options] <program.s | ->")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config      Path to machine configuration JSON file")
	fmt.Println("  -latency     Path to timing configuration JSON file")
	fmt.Println("  -timing      Print a cycle estimate after the run")
	fmt.Println("  -time-limit  Wall-clock run limit")
	fmt.Println("  -max         Maximum number of instructions")
	fmt.Println("  -set         Preset a register, e.g. -set r0=5")
	fmt.Println("  -entry       Label to start execution at")
	fmt.Println("  -return      Label to preset lr to")
	fmt.Println("  -trace       Log every retired instruction")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/armsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/armsim' instead.")
	}
}
