package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/katharostech/khamake/internal/ctxlog"
	"github.com/katharostech/khamake/internal/fsutil"
)

// compileAll schedules every stale source onto a bounded worker pool and
// reports whether anything was actually compiled. The returned ArtifactSet
// always covers the full source list in discovery order; the linker
// consumes all objects, not just the freshly compiled ones.
//
// Fail-fast semantics: once a unit records a failure no new units are
// started, but in-flight units drain to completion before the first
// recorded failure is surfaced.
func (p *Pipeline) compileAll(ctx context.Context, sources []fsutil.SourceRecord, forceAll bool) (ArtifactSet, bool, error) {
	logger := ctxlog.FromContext(ctx)

	artifacts := make(ArtifactSet, len(sources))
	for i, src := range sources {
		artifacts[i] = src.Object
	}

	workers := p.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		wg         sync.WaitGroup
		anyChanged atomic.Bool
		mu         sync.Mutex
		firstErr   error
	)

	// gate only stops new unit submission; running subprocesses keep the
	// caller's context and are never preempted by a sibling failure.
	gate, stop := context.WithCancel(context.Background())
	defer stop()

	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			if p.opts.FailFast {
				stop()
			}
		}
	}

	logger.Debug("Starting compile worker pool.", "workers", workers, "sources", len(sources), "force_all", forceAll)
	jobs := make(chan fsutil.SourceRecord)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			wlog := logger.With("workerID", workerID)
			for src := range jobs {
				if gate.Err() != nil {
					wlog.Debug("Failure already recorded, unit not started.", "source", src.Rel)
					continue
				}
				outcome, err := p.compileUnit(ctx, wlog, src, forceAll)
				if err != nil {
					wlog.Error("Compile unit failed.", "source", src.Rel, "error", err)
					record(err)
					continue
				}
				if outcome == OutcomeCompiled {
					anyChanged.Store(true)
				}
			}
		}(w)
	}

	for _, src := range sources {
		if gate.Err() != nil {
			break
		}
		jobs <- src
	}
	close(jobs)
	wg.Wait()

	return artifacts, anyChanged.Load(), firstErr
}

// compileUnit decides one source's staleness and, when stale, invokes the
// external compiler. Non-empty stderr is a failure regardless of exit
// code; the compiler is trusted only when it exits zero and stays silent.
func (p *Pipeline) compileUnit(ctx context.Context, logger *slog.Logger, src fsutil.SourceRecord, forceAll bool) (CompileOutcome, error) {
	if !forceAll && fsutil.Newer(src.Object, src.Path) {
		logger.Debug("Object artifact current, skipping.", "source", src.Rel)
		return OutcomeSkipped, nil
	}

	// Resolution is memoized; the first unit that actually needs to
	// compile pays for it, a fully-cached run never does.
	handle, err := p.resolver.Resolve()
	if err != nil {
		return OutcomeFailed, err
	}

	if err := os.MkdirAll(filepath.Dir(src.Object), 0o755); err != nil {
		return OutcomeFailed, fmt.Errorf("creating object directory for %s: %w", src.Rel, err)
	}

	logger.Info("⚙️ Compiling source.", "source", src.Rel)
	result, err := p.invoker.Invoke(ctx, handle.Compiler(), "-c", src.Path, "-o", src.Object)
	if result != nil && len(result.Stderr) > 0 {
		return OutcomeFailed, &CompileError{Source: src.Rel, Output: strings.TrimSpace(string(result.Stderr))}
	}
	if err != nil {
		return OutcomeFailed, &CompileError{Source: src.Rel, Output: err.Error()}
	}
	return OutcomeCompiled, nil
}
