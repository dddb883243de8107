package cli

import (
	"errors"

	"github.com/yaklabco/mdpreview/pkg/runner"
)

// ErrRenderFailed is returned when one or more files could not be rendered.
var ErrRenderFailed = errors.New("some files could not be rendered")

// Exit codes for mdpreview.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitRenderErrors indicates a run completed but some files failed.
	ExitRenderErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code of a render run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasErrors() {
		return ExitRenderErrors
	}
	return ExitSuccess
}
