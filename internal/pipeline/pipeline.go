package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/katharostech/khamake/internal/config"
	"github.com/katharostech/khamake/internal/ctxlog"
	"github.com/katharostech/khamake/internal/fsutil"
	"github.com/katharostech/khamake/internal/toolchain"
)

// sourceExts are the extensions discovery treats as compilable.
var sourceExts = []string{".c", ".cpp"}

// Options tune one pipeline instance.
type Options struct {
	// Workers bounds compile concurrency. Zero means the host's logical
	// core count.
	Workers int
	// FailFast stops submitting new compile units after the first failure.
	FailFast bool
	// Invoker runs toolchain binaries. Nil means real subprocesses.
	Invoker Invoker
}

// Pipeline builds targets incrementally against one build configuration.
// All state is per-run; persistent state is only the artifacts on disk.
type Pipeline struct {
	configPath string
	buildRoot  string
	resolver   *toolchain.Resolver
	invoker    Invoker
	opts       Options
}

// New creates a pipeline for the given configuration file and build root.
// The resolver is shared across targets so the toolchain is resolved at
// most once per run, and only when some target actually needs it.
func New(configPath, buildRoot string, resolver *toolchain.Resolver, opts Options) *Pipeline {
	invoker := opts.Invoker
	if invoker == nil {
		invoker = processInvoker{}
	}
	return &Pipeline{
		configPath: configPath,
		buildRoot:  buildRoot,
		resolver:   resolver,
		invoker:    invoker,
		opts:       opts,
	}
}

// ArtifactPath returns where the target's final linked artifact lives.
func (p *Pipeline) ArtifactPath(target *config.Target) string {
	return filepath.Join(p.buildRoot, target.Artifact+".klib")
}

// Build runs the full pipeline for one target: staleness verdict, binding
// generation, source discovery, scheduled compilation, conditional link.
// A compile failure aborts the run before the link stage.
func (p *Pipeline) Build(ctx context.Context, target *config.Target) (*Report, error) {
	ctx = ctxlog.With(ctx, "target", target.Name)
	logger := ctxlog.FromContext(ctx)

	report := &Report{Target: target.Name}

	report.Verdict = EvaluateStaleness(p.configPath, target.IDL, target.Bindings)
	logger.Info("🔍 Staleness evaluated.", "verdict", report.Verdict.String())

	if report.Verdict != NoOp {
		if err := p.generateBindings(ctx, target, report.Verdict); err != nil {
			return report, err
		}
	}

	objRoot := filepath.Join(p.buildRoot, "bytecode")
	roots := []string{target.Sources}
	if glueDir := filepath.Dir(target.Bindings); !within(target.Sources, glueDir) {
		roots = append(roots, glueDir)
	}
	sources, err := fsutil.DiscoverSources(objRoot, sourceExts, roots...)
	if err != nil {
		return report, fmt.Errorf("discovering sources for %s: %w", target.Name, err)
	}
	logger.Debug("Sources discovered.", "count", len(sources))

	artifacts, anyChanged, err := p.compileAll(ctx, sources, report.Verdict == RebuildAll)
	if err != nil {
		return report, err
	}
	report.Compiled = anyChanged

	report.Link, err = p.link(ctx, target, artifacts, anyChanged)
	if err != nil {
		return report, err
	}

	logger.Info("✅ Target built.", "compiled", report.Compiled, "link", report.Link.String())
	return report, nil
}

// within reports whether path is dir or lives inside it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
