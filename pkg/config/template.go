package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting uncommented with its default value.
	// If false, generates a minimal commented template.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}
	if opts.Full {
		return generateFullTemplate(), nil
	}
	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# How a preview opens: code, preview, or preview_to_side
open_mode: preview_to_side

# Open a preview automatically for Markdown files
# auto_open: false

# Label code blocks without an info string
# language_detection: true

# Delay between a file change and a reparse in watch mode
# watch:
#   debounce: 150ms
`)

	return buf.Bytes()
}

func generateFullTemplate() []byte {
	defaults := NewConfig()
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	fmt.Fprintf(&buf, `
#
# All settings with their default values.

# How a preview opens: code, preview, or preview_to_side
open_mode: %s

# Open a preview automatically for Markdown files
auto_open: %t

# Label code blocks without an info string
language_detection: %t

# File patterns to skip when rendering directories (glob patterns)
ignore:
  - "vendor/**"
  - "node_modules/**"

watch:
  # Delay between a file change and a reparse
  debounce: %s

output:
  # Output format: text, json, or rows
  format: %s
  # Color: auto, always, or never
  color: %s
  # Width in columns (0 = terminal width)
  width: %d
`,
		defaults.OpenMode,
		defaults.AutoOpen,
		defaults.LanguageDetection,
		defaults.Watch.Debounce,
		defaults.Output.Format,
		defaults.Output.Color,
		defaults.Output.Width,
	)

	return buf.Bytes()
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	defaults := NewConfig()
	cfg := map[string]any{
		"open_mode":          defaults.OpenMode,
		"auto_open":          defaults.AutoOpen,
		"language_detection": defaults.LanguageDetection,
		"ignore":             []string{"vendor/**", "node_modules/**"},
		"watch": map[string]any{
			"debounce": defaults.Watch.Debounce.String(),
		},
		"output": map[string]any{
			"format": defaults.Output.Format,
			"color":  defaults.Output.Color,
			"width":  defaults.Output.Width,
		},
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# mdpreview configuration
# See: https://github.com/yaklabco/mdpreview`
}
