// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldFormat     = "format"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldOpenMode = "open_mode"
	FieldDebounce = "debounce"
	FieldJobs     = "jobs"

	// Parse and render fields.
	FieldKind       = "kind"
	FieldReason     = "reason"
	FieldBytes      = "bytes"
	FieldBlocks     = "blocks"
	FieldRows       = "rows"
	FieldGeneration = "generation"
	FieldState      = "state"
	FieldOffset     = "offset"
	FieldRow        = "row"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesRendered   = "files_rendered"
	FieldFilesWritten    = "files_written"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
