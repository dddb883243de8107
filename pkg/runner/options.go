// Package runner renders many Markdown files concurrently for the CLI.
package runner

import "github.com/yaklabco/mdpreview/pkg/config"

// Options controls file discovery and the worker pool.
type Options struct {
	// Paths are files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths and ignore patterns. Empty means the
	// process working directory.
	WorkingDir string

	// Extensions are the lowercase Markdown extensions, with leading dot.
	// Empty means DefaultExtensions.
	Extensions []string

	// Ignore holds glob patterns for files and directories to skip, relative
	// to WorkingDir.
	Ignore []string

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool

	// Jobs is the number of workers. Zero or less means runtime.NumCPU.
	Jobs int
}

// OptionsFromConfig fills the config-driven fields of Options.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths}
	if cfg != nil {
		opts.Ignore = append(opts.Ignore, cfg.Ignore...)
		opts.Jobs = cfg.Jobs
	}
	return opts
}

// DefaultExtensions returns the default Markdown file extensions.
func DefaultExtensions() []string {
	return config.MarkdownExtensions()
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
