// Package bfi translates and runs programs for an eight-symbol tape machine.
//
// Source text is filtered down to the symbols + - > < . , [ ] and translated
// into a loop-resolved program, which a virtual machine then executes
// against a growable tape of byte cells. Programs that read input run
// against a Terminal; all others run without touching one.
//
//	output, err := bfi.Eval(ctx, source)
package bfi

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bfi/program"
	"github.com/deepnoodle-ai/bfi/translator"
	"github.com/deepnoodle-ai/bfi/vm"
)

// Option configures a translation or execution.
type Option func(*options)

type options struct {
	filename      string
	terminal      vm.Terminal
	observer      vm.Observer
	logger        *zerolog.Logger
	checkInterval *int
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) translatorOpts() []translator.Option {
	var opts []translator.Option
	if o.filename != "" {
		opts = append(opts, translator.WithFilename(o.filename))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	if o.terminal != nil {
		opts = append(opts, vm.WithTerminal(o.terminal))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.logger != nil {
		opts = append(opts, vm.WithLogger(*o.logger))
	}
	if o.checkInterval != nil {
		opts = append(opts, vm.WithContextCheckInterval(*o.checkInterval))
	}
	return opts
}

// WithFilename sets the filename reported in error locations.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithTerminal sets the terminal used by programs that read input.
func WithTerminal(terminal vm.Terminal) Option {
	return func(o *options) {
		o.terminal = terminal
	}
}

// WithObserver sets an observer that is called before every instruction.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets the logger for run lifecycle messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithContextCheckInterval sets how many instructions run between checks of
// ctx.Done(). Zero disables checking.
func WithContextCheckInterval(interval int) Option {
	return func(o *options) {
		o.checkInterval = &interval
	}
}

// Compile translates source into a program. The returned Program is
// immutable and safe for concurrent use.
func Compile(source string, opts ...Option) (*program.Program, error) {
	o := collectOptions(opts...)
	return translator.Translate(source, o.translatorOpts()...)
}

// Check reports every unbalanced bracket in source rather than stopping at
// the first one. It returns nil when the source translates cleanly.
func Check(source string, opts ...Option) error {
	o := collectOptions(opts...)
	return translator.Check(source, o.translatorOpts()...)
}

// Run executes a program on a fresh tape and returns its accumulated
// output. On failure the output is discarded.
func Run(ctx context.Context, prog *program.Program, opts ...Option) (string, error) {
	o := collectOptions(opts...)
	return vm.Run(ctx, prog, o.vmOpts()...)
}

// Eval compiles and runs source. It is equivalent to Compile followed by Run.
func Eval(ctx context.Context, source string, opts ...Option) (string, error) {
	prog, err := Compile(source, opts...)
	if err != nil {
		return "", err
	}
	return Run(ctx, prog, opts...)
}
