package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/mdpreview/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format config.OutputFormat

	// Color controls colorized output.
	Color config.ColorMode

	// Width is the output width in columns; 0 uses the terminal width.
	Width int

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// SideBySide prints the source next to the rendered rows (text format only).
	SideBySide bool

	// Compact uses minified output where applicable.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is (typically absolute).
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      config.FormatText,
		Color:       config.ColorAuto,
		ShowSummary: true,
	}
}

// OptionsFromConfig returns the default options with the output section of
// cfg applied.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.Output.Format != "" {
		opts.Format = cfg.Output.Format
	}
	if cfg.Output.Color != "" {
		opts.Color = cfg.Output.Color
	}
	opts.Width = cfg.Output.Width
	return opts
}
