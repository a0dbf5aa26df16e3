package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/katharostech/khamake/internal/config"
	"github.com/katharostech/khamake/internal/ctxlog"
	"github.com/katharostech/khamake/internal/fsutil"
)

// link aggregates the full object set into the final artifact. It runs
// only when compilation changed something or the artifact is missing; an
// unchanged object set with an existing artifact is assumed already
// correctly linked.
//
// Linkers commonly emit informational warnings on stderr, so unlike
// compilation, stderr content alone does not fail the stage; it is
// surfaced as an error-level diagnostic. A non-zero exit code does fail
// the stage.
func (p *Pipeline) link(ctx context.Context, target *config.Target, artifacts ArtifactSet, anyChanged bool) (LinkOutcome, error) {
	logger := ctxlog.FromContext(ctx)
	final := p.ArtifactPath(target)

	if !anyChanged && fsutil.Exists(final) {
		logger.Info("💤 Final artifact up to date, link skipped.", "artifact", final)
		return LinkSkipped, nil
	}

	handle, err := p.resolver.Resolve()
	if err != nil {
		return LinkFailed, err
	}

	args := append(ArtifactSet{}, artifacts...)
	args = append(args, "-o", final, "-"+target.Optimization, "--export", target.Export)
	args = append(args, target.ExtraFlags...)

	logger.Info("🔗 Linking final artifact.", "artifact", final, "objects", len(artifacts))
	result, err := p.invoker.Invoke(ctx, handle.Linker(), args...)
	if result != nil {
		if out := strings.TrimSpace(string(result.Stdout)); out != "" {
			logger.Info("Linker output.", "stdout", out)
		}
		if diag := strings.TrimSpace(string(result.Stderr)); diag != "" {
			logger.Error("Linker diagnostics.", "stderr", diag)
		}
	}
	if err != nil {
		return LinkFailed, fmt.Errorf("linking %s: %w", target.Artifact, err)
	}
	return Linked, nil
}
