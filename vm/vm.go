// Package vm provides a VirtualMachine that executes translated programs
// against a byte tape.
package vm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bfi/errz"
	"github.com/deepnoodle-ai/bfi/op"
	"github.com/deepnoodle-ai/bfi/program"
)

const (
	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// ErrNoTerminal is returned when a program reads input but the VM was not
// given a Terminal.
var ErrNoTerminal = errors.New("program reads input but no terminal is configured")

type VirtualMachine struct {
	pc       int   // program counter
	steps    int64 // instructions executed in the current run
	tape     *Tape
	output   strings.Builder
	main     *program.Program
	terminal Terminal
	logger   zerolog.Logger
	running  bool
	runMutex sync.Mutex

	// contextCheckInterval is the number of instructions between checks of
	// ctx.Done(). A value of 0 disables checking.
	contextCheckInterval int

	// observer receives callbacks for VM execution events.
	// If nil, no callbacks are made.
	observer       Observer
	observerConfig ObserverConfig
}

// New creates a new Virtual Machine for the given program.
func New(main *program.Program, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		main:                 main,
		tape:                 NewTape(),
		logger:               zerolog.Nop(),
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		if opt != nil {
			opt(vm)
		}
	}
	return vm
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// Run executes the program from the beginning on a fresh tape and returns
// the accumulated output. On error the output is discarded.
//
// When the program contains an input instruction the terminal is acquired
// before the first instruction and released exactly once when the run ends,
// whether or not it succeeded.
func (vm *VirtualMachine) Run(ctx context.Context) (output string, err error) {
	if vm.main == nil {
		return "", fmt.Errorf("no program available")
	}
	// Set up some guarantees:
	// 1. It is an error to call Run on a VM that is already running
	// 2. The running flag will always be set to false when Run returns
	// 3. Any panics are translated to errors and the VM is stopped
	if err := vm.start(); err != nil {
		return "", err
	}
	defer func() {
		if r := recover(); r != nil {
			output, err = "", fmt.Errorf("panic: %v", r)
		}
		vm.stop()
	}()

	vm.reset()

	interactive := vm.main.HasInput()
	logger := vm.logger.With().Bool("interactive", interactive).Logger()
	logger.Debug().Int("instructions", vm.main.Len()).Msg("run started")

	if interactive {
		if vm.terminal == nil {
			return "", errz.Input(0, errz.SourceLocation{}, ErrNoTerminal)
		}
		if err := vm.terminal.Acquire(); err != nil {
			return "", errz.Input(0, errz.SourceLocation{}, fmt.Errorf("acquire terminal: %w", err))
		}
		logger.Debug().Msg("terminal acquired")
		defer func() {
			releaseErr := vm.terminal.Release()
			logger.Debug().Err(releaseErr).Msg("terminal released")
			if releaseErr == nil {
				return
			}
			releaseErr = errz.Input(vm.pc, errz.SourceLocation{}, fmt.Errorf("release terminal: %w", releaseErr))
			if err == nil {
				err = releaseErr
			} else {
				err = multierror.Append(err, releaseErr)
			}
			output = ""
		}()
	}

	if err := vm.eval(ctx, interactive); err != nil {
		logger.Debug().Err(err).Int("pc", vm.pc).Int64("steps", vm.steps).Msg("run failed")
		return "", err
	}
	logger.Debug().Int64("steps", vm.steps).Int("cells", vm.tape.Len()).Msg("run finished")
	return vm.output.String(), nil
}

func (vm *VirtualMachine) reset() {
	vm.pc = 0
	vm.steps = 0
	vm.tape = NewTape()
	vm.output.Reset()
	if vm.observer != nil {
		vm.observerConfig = NormalizeConfig(vm.observer.Config())
	}
}

// Evaluate the program starting at vm.pc until the program counter moves
// past the last instruction.
func (vm *VirtualMachine) eval(ctx context.Context, interactive bool) error {
	prog := vm.main
	count := prog.Len()

	// Instruction counter for deterministic context checking
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	doneChan := ctx.Done()

	for vm.pc < count {
		if checkInterval > 0 && doneChan != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-doneChan:
					return errz.Cancelled(vm.pc, ctx.Err())
				default:
				}
			}
		}

		pc := vm.pc
		instr := prog.At(pc)

		if vm.observer != nil && vm.shouldObserve() {
			event := StepEvent{
				PC:          pc,
				Instruction: instr,
				Pointer:     vm.tape.Pointer(),
				Cell:        vm.tape.Get(),
				Step:        vm.steps,
			}
			if !vm.observer.OnStep(event) {
				return errz.Cancelled(pc, errors.New("execution halted by observer"))
			}
		}

		switch instr.Code {
		case op.IncrementCell:
			vm.tape.Inc()
		case op.DecrementCell:
			vm.tape.Dec()
		case op.MoveRight:
			vm.tape.Right()
		case op.MoveLeft:
			if !vm.tape.Left() {
				return errz.PointerUnderflow(pc, prog.Location(pc))
			}
		case op.OutputByte:
			// A zero cell marks end of stream and is never printed
			if value := vm.tape.Get(); value > 0 {
				ch := rune(value)
				if interactive {
					if err := vm.terminal.Display(ch); err != nil {
						return errz.Input(pc, prog.Location(pc), err)
					}
				}
				vm.output.WriteRune(ch)
			}
		case op.InputByte:
			value, err := vm.terminal.ReadInput()
			if err != nil {
				return errz.Input(pc, prog.Location(pc), err)
			}
			if value == EndOfTransmission {
				value = 0
			}
			vm.tape.Set(value)
		case op.LoopStart:
			if vm.tape.Get() == 0 {
				vm.pc = instr.Target
			}
		case op.LoopEnd:
			if vm.tape.Get() != 0 {
				vm.pc = instr.Target
			}
		default:
			return fmt.Errorf("invalid opcode %d at instruction %d", instr.Code, pc)
		}

		// Jumps land on the partner bracket, so the increment moves into
		// the loop body or just past the loop.
		vm.pc++
		vm.steps++

		if interactive {
			if err := vm.terminal.Refresh(); err != nil {
				return errz.Input(pc, prog.Location(pc), err)
			}
		}
	}
	return nil
}

func (vm *VirtualMachine) shouldObserve() bool {
	switch vm.observerConfig.StepMode {
	case StepAll:
		return true
	case StepSampled:
		return vm.steps%int64(vm.observerConfig.SampleInterval) == 0
	default:
		return false
	}
}

// PC returns the program counter where the last run stopped.
func (vm *VirtualMachine) PC() int {
	return vm.pc
}

// Steps returns the number of instructions executed by the last run.
func (vm *VirtualMachine) Steps() int64 {
	return vm.steps
}

// Tape returns a copy of the tape cells and the pointer position left by the
// last run.
func (vm *VirtualMachine) Tape() ([]byte, int) {
	return vm.tape.Cells(), vm.tape.Pointer()
}
