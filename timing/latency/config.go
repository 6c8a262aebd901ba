package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for each functional class.
type TimingConfig struct {
	// NopLatency is the latency of nop. Default: 1 cycle.
	NopLatency uint64 `json:"nop_latency"`

	// ALULatency is the execution latency for moves, additions,
	// subtractions, logic, shifts and compares. Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// MultiplyLatency is the latency for mul. Default: 3 cycles.
	MultiplyLatency uint64 `json:"multiply_latency"`

	// DivideLatency is the latency for div. Default: 10 cycles.
	DivideLatency uint64 `json:"divide_latency"`

	// LoadLatency is the latency for ldr variants. Default: 4 cycles.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the latency for str variants. Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// BranchLatency is the latency for branch instructions. Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// SkippedLatency is charged instead of the class latency when an
	// instruction's condition does not hold. Default: 1 cycle.
	SkippedLatency uint64 `json:"skipped_latency"`
}

// DefaultTimingConfig returns a TimingConfig with the default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		NopLatency:      1,
		ALULatency:      1,
		MultiplyLatency: 3,
		DivideLatency:   10,
		LoadLatency:     4,
		StoreLatency:    1,
		BranchLatency:   1,
		SkippedLatency:  1,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	fields := []struct {
		name  string
		value uint64
	}{
		{"nop_latency", c.NopLatency},
		{"alu_latency", c.ALULatency},
		{"multiply_latency", c.MultiplyLatency},
		{"divide_latency", c.DivideLatency},
		{"load_latency", c.LoadLatency},
		{"store_latency", c.StoreLatency},
		{"branch_latency", c.BranchLatency},
		{"skipped_latency", c.SkippedLatency},
	}

	for _, f := range fields {
		if f.value == 0 {
			return fmt.Errorf("%s must be > 0", f.name)
		}
	}

	return nil
}

// Clone returns a copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
