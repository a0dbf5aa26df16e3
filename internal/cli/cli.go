// Package cli parses command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/katharostech/khamake/internal/app"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageHeader = `
khamake - incremental native-artifact build pipeline.

Usage:
  khamake [options] [KHAFILE_PATH]

Arguments:
  KHAFILE_PATH
    Path to a khafile.hcl or a directory containing one. Defaults to the
    current directory.

Options:
`

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating a clean early exit (e.g. -h), or an
// ExitError for invalid input.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("khamake", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usageHeader)
		flagSet.PrintDefaults()
	}

	khafileFlag := flagSet.String("khafile", "", "Path to the khafile or its directory.")
	kFlag := flagSet.String("k", "", "Path to the khafile or its directory (shorthand).")
	workersFlag := flagSet.Int("workers", runtime.NumCPU(), "Number of concurrent compile workers.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := "."
	switch {
	case *khafileFlag != "":
		path = *khafileFlag
	case *kFlag != "":
		path = *kFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		KhafilePath: path,
		Workers:     *workersFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, false, nil
}
