package pipeline

import (
	"context"

	"github.com/katharostech/khamake/internal/process"
)

// Invoker runs one toolchain binary to completion. The pipeline depends on
// this interface so tests can substitute instrumented fakes for the real
// compiler, linker and binding generator.
type Invoker interface {
	Invoke(ctx context.Context, binary string, args ...string) (*process.Result, error)
}

// processInvoker is the production Invoker backed by real subprocesses.
type processInvoker struct{}

func (processInvoker) Invoke(ctx context.Context, binary string, args ...string) (*process.Result, error) {
	return process.Run(ctx, process.Command{Binary: binary, Args: args})
}
