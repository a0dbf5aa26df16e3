package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/katharostech/khamake/internal/app"
	"github.com/katharostech/khamake/internal/cli"
	"github.com/katharostech/khamake/internal/khafile"
)

// main is the entrypoint for the khamake binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing.
func run(outW io.Writer, args []string) error {
	// A .env in the working directory may pin the toolchain pointer and
	// any values the khafile interpolates; its absence is fine.
	_ = godotenv.Load()

	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	ctx := context.Background()
	application, err := app.New(ctx, outW, appConfig, khafile.NewLoader())
	if err != nil {
		return err
	}
	return application.Run(ctx)
}
