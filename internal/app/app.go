// Package app wires configuration loading, logging and the build pipeline
// into one application lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/katharostech/khamake/internal/config"
	"github.com/katharostech/khamake/internal/ctxlog"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	model  *config.Model
}

// New constructs an App: it builds the isolated logger and loads the build
// configuration through the supplied loader.
func New(ctx context.Context, outW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured.")

	model, err := loader.Load(ctx, appConfig.KhafilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load build configuration: %w", err)
	}
	logger.Debug("Build configuration loaded.", "project", model.Project.Name, "targets", len(model.Targets))

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		model:  model,
	}, nil
}

// Model returns the loaded configuration model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
