// Package main is the entry point for the mdpreview CLI.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/yaklabco/mdpreview/internal/cli"
	"github.com/yaklabco/mdpreview/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Failed files were already reported; the error only sets the exit code.
		if !errors.Is(err, cli.ErrRenderFailed) {
			logger := logging.Default()
			logger.Error("command failed", logging.FieldError, err)
		}
		return exitCode(err)
	}

	return cli.ExitSuccess
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, cli.ErrRenderFailed), errors.Is(err, cli.ErrNotCanonical):
		return cli.ExitRenderErrors
	case errors.Is(err, cli.ErrConfig):
		return cli.ExitConfigError
	case errors.Is(err, cli.ErrLocateQuery):
		return cli.ExitInvalidUsage
	default:
		return 1
	}
}
