package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofrs/uuid"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/bfi"
	"github.com/deepnoodle-ai/bfi/terminal"
	"github.com/deepnoodle-ai/bfi/vm"
)

func newRunCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a program (the default command)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runHandler,
	}
	addCodeFlags(cmd)
	cmd.Flags().Bool("timing", false, "print execution time to stderr")
	return cmd
}

func (a *app) runHandler(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !cmd.Flags().Changed("code") && !hasStdinFlag(cmd) && isTerminalIO() {
		return cmd.Help()
	}
	code, filename, err := getCode(cmd, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := a.timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	runID, err := uuid.NewV4()
	if err != nil {
		return err
	}
	logger := a.logger.With().Str("run_id", runID.String()).Logger()
	if filename != "" {
		logger = logger.With().Str("file", filename).Logger()
	}

	opts := []bfi.Option{
		bfi.WithFilename(filename),
		bfi.WithTerminal(newTerminal(cmd)),
		bfi.WithLogger(logger),
	}
	if a.v.GetBool("trace") {
		opts = append(opts, bfi.WithObserver(newTraceObserver(logger)))
	}

	start := time.Now()
	output, err := bfi.Eval(ctx, code, opts...)
	if err != nil {
		return err
	}
	dt := time.Since(start)

	if _, err := io.WriteString(cmd.OutOrStdout(), output); err != nil {
		return err
	}
	if timing, _ := cmd.Flags().GetBool("timing"); timing {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", dt)
	}
	return nil
}

func hasStdinFlag(cmd *cobra.Command) bool {
	stdin, _ := cmd.Flags().GetBool("stdin")
	return stdin
}

// newTerminal returns the terminal for programs that read input: the
// keyboard when attached to a TTY, otherwise the command's input stream.
func newTerminal(cmd *cobra.Command) vm.Terminal {
	if in, ok := cmd.InOrStdin().(*os.File); ok {
		return terminal.Auto(in, cmd.OutOrStdout())
	}
	return terminal.NewStream(cmd.InOrStdin(), nil)
}
