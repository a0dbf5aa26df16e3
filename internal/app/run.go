package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/katharostech/khamake/internal/ctxlog"
	"github.com/katharostech/khamake/internal/pipeline"
	"github.com/katharostech/khamake/internal/toolchain"
)

// Run builds every target in the loaded configuration. A failed target
// does not stop the remaining ones; the aggregate error names every
// target whose build did not complete.
func (a *App) Run(ctx context.Context) error {
	logger := a.logger.With("run_id", uuid.NewString(), "project", a.model.Project.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Info("🚀 Starting build run.", "targets", len(a.model.Targets), "workers", a.config.Workers)

	// One resolver for the whole run: the toolchain is located at most
	// once, and only if some target actually needs to compile or link.
	resolver := toolchain.NewResolver()
	pipe := pipeline.New(a.model.ConfigPath, a.model.Project.BuildRoot, resolver, pipeline.Options{
		Workers:  a.config.Workers,
		FailFast: true,
	})

	var failed []string
	for _, target := range a.model.Targets {
		report, err := pipe.Build(ctx, target)
		if err != nil {
			logger.Error("❌ Target build failed.", "target", target.Name, "error", err)
			failed = append(failed, target.Name)
			continue
		}
		logger.Info("📦 Target artifact ready.",
			"target", target.Name,
			"artifact", pipe.ArtifactPath(target),
			"verdict", report.Verdict.String(),
			"link", report.Link.String(),
		)
	}

	if len(failed) > 0 {
		return fmt.Errorf("build failed for %s", strings.Join(failed, ", "))
	}
	logger.Info("🏁 Build run finished.")
	return nil
}
