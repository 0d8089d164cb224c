package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bfi/vm"
)

func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	if lvl < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(lvl)
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    color.NoColor,
		TimeFormat: time.Kitchen,
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// traceObserver logs every executed instruction.
type traceObserver struct {
	logger zerolog.Logger
}

func newTraceObserver(logger zerolog.Logger) *traceObserver {
	return &traceObserver{logger: logger}
}

func (o *traceObserver) Config() vm.ObserverConfig {
	return vm.NewObserverConfig(vm.StepAll)
}

func (o *traceObserver) OnStep(event vm.StepEvent) bool {
	o.logger.Trace().
		Int64("step", event.Step).
		Int("pc", event.PC).
		Str("op", event.Instruction.String()).
		Int("ptr", event.Pointer).
		Uint8("cell", event.Cell).
		Msg("step")
	return true
}
