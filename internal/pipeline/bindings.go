package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/katharostech/khamake/internal/config"
	"github.com/katharostech/khamake/internal/ctxlog"
	"github.com/katharostech/khamake/internal/fsutil"
)

// generateBindings runs the external interface-description compiler for
// the target. Its output is never parsed: success means a zero exit and
// the expected binding file present on disk afterwards.
func (p *Pipeline) generateBindings(ctx context.Context, target *config.Target, verdict Verdict) error {
	logger := ctxlog.FromContext(ctx)

	handle, err := p.resolver.Resolve()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target.Bindings), 0o755); err != nil {
		return fmt.Errorf("creating bindings directory: %w", err)
	}

	args := []string{target.IDL, "-o", target.Bindings}
	if verdict == RebuildAll {
		args = append(args, "--full")
	}

	logger.Info("🧩 Generating bindings.", "idl", target.IDL)
	if _, err := p.invoker.Invoke(ctx, handle.BindGen(), args...); err != nil {
		return fmt.Errorf("generating bindings for %s: %w", target.Name, err)
	}
	if !fsutil.Exists(target.Bindings) {
		return fmt.Errorf("binding generator exited cleanly but produced no output at %s", target.Bindings)
	}
	return nil
}
