package vm

import (
	"github.com/deepnoodle-ai/bfi/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	// Use for: detailed tracing, instruction-level debugging.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	StepNone

	// StepSampled calls OnStep every N instructions.
	// Use for: statistical profiling of long-running programs.
	StepSampled
)

// ObserverConfig specifies what events an observer wants to receive.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int
}

// NewObserverConfig creates a config with safe defaults.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer receives VM execution events. It can be used for tracing,
// profiling or debugging without modifying the VM.
//
// Observer methods are called synchronously before each instruction
// executes, so implementations should be fast.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once when a run starts.
	Config() ObserverConfig

	// OnStep is called based on the StepMode in the observer's config.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool
}

// StepEvent describes the machine state just before an instruction runs.
type StepEvent struct {
	// PC is the index of the instruction about to execute.
	PC int

	// Instruction is the instruction about to execute.
	Instruction op.Instruction

	// Pointer is the current tape index.
	Pointer int

	// Cell is the value of the current cell.
	Cell byte

	// Step counts instructions executed so far in this run.
	Step int64
}

// NoOpObserver is an Observer implementation that does nothing.
// Embed this in your observer to provide a default configuration.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}
