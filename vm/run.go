package vm

import (
	"context"

	"github.com/deepnoodle-ai/bfi/program"
)

// Run the given program in a new Virtual Machine and return its output.
func Run(ctx context.Context, main *program.Program, options ...Option) (string, error) {
	return New(main, options...).Run(ctx)
}
