package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidValue is returned when an enumerated option has an unknown value.
var ErrInvalidValue = errors.New("invalid value")

// ParseOpenMode parses an open mode. Dashes are accepted in place of
// underscores ("preview-to-side").
func ParseOpenMode(s string) (OpenMode, error) {
	mode := OpenMode(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !mode.IsValid() {
		return "", fmt.Errorf("%w: open mode %q (want code, preview or preview_to_side)", ErrInvalidValue, s)
	}
	return mode, nil
}

// ParseOutputFormat parses an output format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if !format.IsValid() {
		return "", fmt.Errorf("%w: format %q (want text, json or rows)", ErrInvalidValue, s)
	}
	return format, nil
}

// ParseColorMode parses a color mode.
func ParseColorMode(s string) (ColorMode, error) {
	mode := ColorMode(strings.ToLower(strings.TrimSpace(s)))
	if !mode.IsValid() {
		return "", fmt.Errorf("%w: color %q (want auto, always or never)", ErrInvalidValue, s)
	}
	return mode, nil
}
