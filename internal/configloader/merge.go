package configloader

import (
	"slices"

	"github.com/yaklabco/mdpreview/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans: only true overrides, since false is the zero value
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.OpenMode != "" {
		result.OpenMode = override.OpenMode
	}
	if override.Watch.Debounce != 0 {
		result.Watch.Debounce = override.Watch.Debounce
	}
	if override.Output.Format != "" {
		result.Output.Format = override.Output.Format
	}
	if override.Output.Color != "" {
		result.Output.Color = override.Output.Color
	}
	if override.Output.Width != 0 {
		result.Output.Width = override.Output.Width
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.AutoOpen {
		result.AutoOpen = true
	}
	if override.LanguageDetection {
		result.LanguageDetection = true
	}
	if override.Strict {
		result.Strict = true
	}
	if override.SideBySide {
		result.SideBySide = true
	}

	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
