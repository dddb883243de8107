// Package config defines the mdpreview configuration value.
// These types are plain data with no dependency on how they are loaded.
package config

import (
	"path/filepath"
	"strings"
	"time"
)

// OpenMode is the policy for opening a preview next to an editor.
type OpenMode string

const (
	// OpenCode keeps the source editor only.
	OpenCode OpenMode = "code"
	// OpenPreview replaces the editor with the preview in place.
	OpenPreview OpenMode = "preview"
	// OpenPreviewToSide opens the preview alongside the editor.
	OpenPreviewToSide OpenMode = "preview_to_side"
)

// IsValid returns true if the open mode is recognised.
func (m OpenMode) IsValid() bool {
	switch m {
	case OpenCode, OpenPreview, OpenPreviewToSide:
		return true
	default:
		return false
	}
}

// OpensPreview reports whether the mode shows a preview at all.
func (m OpenMode) OpensPreview() bool {
	return m == OpenPreview || m == OpenPreviewToSide
}

// OutputFormat specifies how render results are written.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatRows OutputFormat = "rows"
)

// IsValid returns true if the format is recognised.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatRows:
		return true
	default:
		return false
	}
}

// ColorMode controls terminal styling.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid returns true if the color mode is recognised.
func (c ColorMode) IsValid() bool {
	switch c {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// DefaultDebounce is the default delay between a file change and a reparse.
const DefaultDebounce = 150 * time.Millisecond

// WatchConfig controls the file watcher.
type WatchConfig struct {
	// Debounce is the quiet period after a change before the buffer is
	// resubmitted.
	Debounce time.Duration `yaml:"debounce"`
}

// OutputConfig controls terminal output.
type OutputConfig struct {
	// Format is the output format for render results.
	Format OutputFormat `yaml:"format"`

	// Color is the color mode.
	Color ColorMode `yaml:"color"`

	// Width is the output width in columns; 0 uses the terminal width.
	Width int `yaml:"width"`
}

// Config is the root configuration structure for mdpreview.
type Config struct {
	// OpenMode is the preview open policy.
	OpenMode OpenMode `yaml:"open_mode"`

	// AutoOpen opens a preview whenever a Markdown file is opened.
	AutoOpen bool `yaml:"auto_open"`

	// LanguageDetection labels code blocks without an info string.
	LanguageDetection bool `yaml:"language_detection"`

	// Ignore contains glob patterns for files to skip during discovery.
	Ignore []string `yaml:"ignore,omitempty"`

	// Watch configures the file watcher.
	Watch WatchConfig `yaml:"watch"`

	// Output configures terminal output.
	Output OutputConfig `yaml:"output"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Strict makes span invariant violations panic.
	Strict bool `yaml:"-"`

	// SideBySide prints source and preview next to each other.
	SideBySide bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		OpenMode:          OpenPreviewToSide,
		AutoOpen:          false,
		LanguageDetection: true,
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
		Output: OutputConfig{
			Format: FormatText,
			Color:  ColorAuto,
		},
		Jobs: 0, // 0 means use GOMAXPROCS
	}
}

// ShouldOpenPreview reports whether opening path should show a preview
// without an explicit request. Only Markdown files qualify.
func (c *Config) ShouldOpenPreview(path string) bool {
	return c.AutoOpen && c.OpenMode.OpensPreview() && IsMarkdownFile(path)
}

// MarkdownExtensions returns the file extensions treated as Markdown.
func MarkdownExtensions() []string {
	return []string{".md", ".markdown"}
}

// IsMarkdownFile reports whether path ends in one of exts, ignoring case.
// With no exts the MarkdownExtensions are used.
func IsMarkdownFile(path string, exts ...string) bool {
	if len(exts) == 0 {
		exts = MarkdownExtensions()
	}
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
