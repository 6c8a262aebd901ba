// Package config holds the settings of a machine and its run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xyproto/env/v2"

	"github.com/sarchlab/armsim/emu"
)

// Environment variables read by ApplyEnv.
const (
	EnvMemorySize      = "ARMSIM_MEMORY_SIZE"
	EnvStackSize       = "ARMSIM_STACK_SIZE"
	EnvRegisters       = "ARMSIM_REGISTERS"
	EnvTimeLimitMS     = "ARMSIM_TIME_LIMIT_MS"
	EnvMaxInstructions = "ARMSIM_MAX_INSTRUCTIONS"
	EnvTrace           = "ARMSIM_TRACE"
)

// MachineConfig describes the machine to build and how long it may run.
type MachineConfig struct {
	// MemorySize is the data memory size in bytes.
	MemorySize int `json:"memory_size"`

	// StackSize places the initial fp above sp.
	StackSize int `json:"stack_size"`

	// Registers is the number of general-purpose registers r0..rN-1.
	Registers int `json:"registers"`

	// TimeLimitMS bounds the wall-clock run time. 0 means no limit.
	TimeLimitMS int `json:"time_limit_ms"`

	// MaxInstructions bounds the number of executed instructions.
	// 0 means no limit.
	MaxInstructions uint64 `json:"max_instructions"`

	// Trace logs every retired instruction.
	Trace bool `json:"trace"`
}

// DefaultMachineConfig returns the configuration of a default machine.
func DefaultMachineConfig() *MachineConfig {
	return &MachineConfig{
		MemorySize:  emu.DefaultMemorySize,
		StackSize:   emu.DefaultStackSize,
		Registers:   emu.DefaultRegisters,
		TimeLimitMS: 1000,
	}
}

// LoadConfig loads a MachineConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*MachineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine config file: %w", err)
	}

	config := DefaultMachineConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse machine config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a MachineConfig to a JSON file.
func (c *MachineConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize machine config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write machine config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields with the ARMSIM_* environment variables that
// are set. Values that do not parse leave the field unchanged.
func (c *MachineConfig) ApplyEnv() {
	c.MemorySize = env.Int(EnvMemorySize, c.MemorySize)
	c.StackSize = env.Int(EnvStackSize, c.StackSize)
	c.Registers = env.Int(EnvRegisters, c.Registers)
	c.TimeLimitMS = env.Int(EnvTimeLimitMS, c.TimeLimitMS)

	if n := env.Int(EnvMaxInstructions, -1); n >= 0 {
		c.MaxInstructions = uint64(n)
	}

	if env.Has(EnvTrace) {
		c.Trace = env.Bool(EnvTrace)
	}
}

// Validate checks that the sizes describe a usable machine.
func (c *MachineConfig) Validate() error {
	if c.MemorySize <= 0 {
		return fmt.Errorf("memory_size must be > 0")
	}
	if c.StackSize < 0 {
		return fmt.Errorf("stack_size must be >= 0")
	}
	if c.Registers < 1 {
		return fmt.Errorf("registers must be >= 1")
	}
	if c.TimeLimitMS < 0 {
		return fmt.Errorf("time_limit_ms must be >= 0")
	}
	return nil
}

// Clone returns a copy of the MachineConfig.
func (c *MachineConfig) Clone() *MachineConfig {
	clone := *c
	return &clone
}

// TimeLimit returns the run time limit, 0 meaning none.
func (c *MachineConfig) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitMS) * time.Millisecond
}

// Options returns the machine options the configuration describes.
func (c *MachineConfig) Options() []emu.MachineOption {
	return []emu.MachineOption{
		emu.WithMemorySize(c.MemorySize),
		emu.WithStackSize(c.StackSize),
		emu.WithRegisters(c.Registers),
		emu.WithMaxInstructions(c.MaxInstructions),
	}
}
