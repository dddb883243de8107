package configloader

import (
	"fmt"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/yaklabco/mdpreview/pkg/config"
)

// maxDebounce bounds watch.debounce; longer delays are almost certainly a
// unit mistake.
const maxDebounce = 10 * time.Second

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "output.format").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.OpenMode != "" && !cfg.OpenMode.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "open_mode",
			Value:   cfg.OpenMode,
			Message: fmt.Sprintf("invalid open mode %q; must be one of: code, preview, preview_to_side", cfg.OpenMode),
		})
	}

	if cfg.Output.Format != "" && !cfg.Output.Format.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "output.format",
			Value:   cfg.Output.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json, rows", cfg.Output.Format),
		})
	}

	if cfg.Output.Color != "" && !cfg.Output.Color.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "output.color",
			Value:   cfg.Output.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Output.Color),
		})
	}

	if cfg.Output.Width < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "output.width",
			Value:   cfg.Output.Width,
			Message: "width must be >= 0 (0 means terminal width)",
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	validateDebounce(cfg, result)
	validateIgnorePatterns(cfg, result)

	if cfg.AutoOpen && cfg.OpenMode == config.OpenCode {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "auto_open",
			Value:   cfg.AutoOpen,
			Message: "auto_open has no effect with open_mode: code",
		})
	}

	return result
}

func validateDebounce(cfg *config.Config, result *ValidationResult) {
	switch d := cfg.Watch.Debounce; {
	case d < 0:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "watch.debounce",
			Value:   d,
			Message: "debounce must not be negative",
		})
	case d > maxDebounce:
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "watch.debounce",
			Value:   d,
			Message: fmt.Sprintf("debounce %s is longer than %s", d, maxDebounce),
		})
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
